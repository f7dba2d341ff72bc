package renderer

import (
	"github.com/mossvale/scrollwall/gpu"
	"github.com/mossvale/scrollwall/panel"
	"github.com/mossvale/scrollwall/rect"
)

// noneSlot is the sentinel slot value used for uniform-buffer keys and
// the shader's texture-select uniform when drawing StateNone (no
// texture is sampled, so no real slot applies).
const noneSlot panel.Slot = -1

// maxUniformSize is the size, in bytes, of the uniform struct shared
// by every shader variant: a mat4x4<f32> (64 bytes), a transform
// vec4<f32> (16 bytes, the CPU-computed UV scale/offset), and an extra
// vec4<f32> (16 bytes). Reused per-geometry-per-slot buffer, offset
// zero, overwritten whole per draw (spec §4.5 "Uniform-buffer reuse").
const maxUniformSize = 64 + 16 + 16

// Render draws one frame for surfaceTarget, iterating panels in their
// stable group order (spec §4.5). surfaceID identifies the surface for
// per-window uniform buffer lookup (spec.md:76); surfaceW/surfaceH are
// the surface's current physical size; windowRect restricts drawing to
// geometries intersecting the current window (multi-monitor setups may
// only render the geometries visible on one output); cursorX/cursorY
// are the surface-relative cursor position driving the optional
// parallax transform (spec §4.4.3).
func (r *Renderer) Render(target gpu.RenderTarget, panels []*panel.Panel, surfaceID uint64, surfaceW, surfaceH uint32, windowRect rect.Rect, msaa uint32, cursorX, cursorY float64) error {
	pass := target.BeginPass([4]float32{0, 0, 0, 0})
	pass.SetVertexBuffer(r.vertexBuffer)
	pass.SetIndexBuffer(r.indexBuffer)

	for _, p := range panels {
		p.SyncGeometries()

		if err := r.renderPanel(pass, p, surfaceID, surfaceW, surfaceH, windowRect, msaa, cursorX, cursorY); err != nil {
			return err
		}
	}

	pass.End()
	target.Present()
	return nil
}

func (r *Renderer) renderPanel(pass gpu.RenderPass, p *panel.Panel, surfaceID uint64, surfaceW, surfaceH uint32, windowRect rect.Rect, msaa uint32, cursorX, cursorY float64) error {
	for i := range p.Geometries {
		geom := &p.Geometries[i]
		if !intersects(geom.Rect, windowRect) {
			continue
		}

		switch p.State.Kind {
		case panel.StateNone:
			if err := r.drawNone(pass, p.State, geom, surfaceID, surfaceW, surfaceH, msaa); err != nil {
				return err
			}
		case panel.StateFade:
			if err := r.drawFade(pass, p.State, geom, surfaceID, surfaceW, surfaceH, msaa, cursorX, cursorY); err != nil {
				return err
			}
		}
	}
	return nil
}

func intersects(a, b rect.Rect) bool {
	aMaxX, aMaxY := a.Max()
	bMaxX, bMaxY := b.Max()
	return a.X < bMaxX && aMaxX > b.X && a.Y < bMaxY && aMaxY > b.Y
}

func (r *Renderer) drawNone(pass gpu.RenderPass, s *panel.State, geom *panel.Geometry, surfaceID uint64, surfaceW, surfaceH uint32, msaa uint32) error {
	pipeline, err := r.pipelineFor(panel.ShaderNone, r.device.SurfaceFormat(), msaa)
	if err != nil {
		return err
	}

	posMatrix := panel.PosMatrix(geom.Rect, surfaceW, surfaceH)
	transform := [4]float32{1, 1, 0, 0}
	extra := [4]float32{s.BackgroundColor.R, s.BackgroundColor.G, s.BackgroundColor.B, s.BackgroundColor.A}

	buf, err := r.uniformBufferFor(geom, surfaceID, noneSlot)
	if err != nil {
		return err
	}
	if err := r.writeUniform(buf, posMatrix, transform, extra); err != nil {
		return err
	}

	group, err := r.device.CreateBindGroup(r.uniformLayout, []gpu.BindGroupEntry{{Binding: 0, Kind: gpu.BindingBuffer, Buffer: buf}})
	if err != nil {
		return err
	}

	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, group)
	pass.DrawIndexed(uint32(len(unitQuadIndices)))
	return nil
}

func (r *Renderer) drawFade(pass gpu.RenderPass, s *panel.State, geom *panel.Geometry, surfaceID uint64, surfaceW, surfaceH uint32, msaa uint32, cursorX, cursorY float64) error {
	pipeline, err := r.pipelineFor(s.Shader, r.device.SurfaceFormat(), msaa)
	if err != nil {
		return err
	}

	p := s.NormalizedProgress()
	f := s.NormalizedFadeWindow()
	alphaPrev, alphaCur, alphaNext := panel.SlotAlphas(p, f)

	bindGroup, err := s.Images.BindGroup()
	if err != nil {
		return err
	}

	posMatrix := panel.PosMatrix(geom.Rect, surfaceW, surfaceH)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(1, bindGroup)

	draws := []struct {
		slot  panel.Slot
		alpha float64
		img   panel.Image
	}{
		{panel.SlotPrev, alphaPrev, s.Images.Prev},
		{panel.SlotCur, alphaCur, s.Images.Cur},
		{panel.SlotNext, alphaNext, s.Images.Next},
	}

	for _, d := range draws {
		if d.alpha <= 0 || !d.img.Loaded {
			continue
		}
		slotProgress := panel.SlotProgress(d.slot, p, f)
		transform := r.slotTransform(s, geom.Rect, d.img, slotProgress, cursorX, cursorY)
		extra := [4]float32{float32(d.slot), float32(d.alpha), float32(s.FadeStrength), 0}

		buf, err := r.uniformBufferFor(geom, surfaceID, d.slot)
		if err != nil {
			return err
		}
		if err := r.writeUniform(buf, posMatrix, transform, extra); err != nil {
			return err
		}
		group, err := r.device.CreateBindGroup(r.uniformLayout, []gpu.BindGroupEntry{{Binding: 0, Kind: gpu.BindingBuffer, Buffer: buf}})
		if err != nil {
			return err
		}
		pass.SetBindGroup(0, group)
		pass.DrawIndexed(uint32(len(unitQuadIndices)))
	}
	return nil
}

// slotTransform computes the UV scale/offset a fragment shader applies
// before sampling: first the aspect-ratio-preserving crop-and-slide
// window (spec §4.4.3's "sliding axis"), then, if enabled, the
// cursor-driven parallax zoom-and-pan on top of it.
func (r *Renderer) slotTransform(s *panel.State, geomRect rect.Rect, img panel.Image, slotProgress, cursorX, cursorY float64) [4]float32 {
	rx, ry := panel.ImageRatio(img.Width, img.Height, geomRect.Width, geomRect.Height)
	ratioAxis := panel.SlidingAxisRatio(rx, ry)
	scrollOffset := panel.ScrollOffset(slotProgress, ratioAxis, img.SwapDir)

	scaleX, scaleY := rx, ry
	offsetX, offsetY := 0.0, 0.0
	switch {
	case rx < ry:
		offsetX = scrollOffset
	case ry < rx:
		offsetY = scrollOffset
	}

	if s.Parallax.Enabled {
		exp := s.Parallax.Exp
		if exp <= 0 {
			exp = 1
		}
		cx, cy := geomRect.Center()
		pScaleX, pScaleY, pOffX, pOffY := panel.ParallaxScaleOffset(
			cursorX, cursorY,
			float64(cx), float64(cy),
			float64(geomRect.Width), float64(geomRect.Height),
			rx, ry,
			s.Parallax.Ratio, exp, s.Parallax.Reverse,
		)

		centerX := (1 - pScaleX) / 2
		centerY := (1 - pScaleY) / 2

		offsetX = offsetX*pScaleX + centerX + pOffX
		offsetY = offsetY*pScaleY + centerY + pOffY
		scaleX *= pScaleX
		scaleY *= pScaleY
	}

	return [4]float32{float32(scaleX), float32(scaleY), float32(offsetX), float32(offsetY)}
}

func (r *Renderer) uniformBufferFor(geom *panel.Geometry, surfaceID uint64, slot panel.Slot) (gpu.BufferID, error) {
	key := uniformKey{geomID: geom.ID, surfaceID: surfaceID, slot: slot}
	if buf, ok := r.uniformBuffers[key]; ok {
		return buf, nil
	}
	buf, err := r.device.CreateBuffer(gpu.BufferUsageUniform|gpu.BufferUsageCopyDst, maxUniformSize)
	if err != nil {
		return 0, err
	}
	r.uniformBuffers[key] = buf
	return buf, nil
}

func (r *Renderer) writeUniform(buf gpu.BufferID, posMatrix panel.Mat4, transform, extra [4]float32) error {
	data := make([]byte, 0, maxUniformSize)
	data = appendFloat32(data, posMatrix[:]...)
	data = appendFloat32(data, transform[:]...)
	data = appendFloat32(data, extra[:]...)
	return r.device.WriteBuffer(buf, 0, data)
}
