package wgpu

import (
	"fmt"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/mossvale/scrollwall/gpu"
)

// Surface wraps a presentable swapchain for one window/monitor output.
// AcquireFrame retries internally on spurious timeouts per spec §7
// ("Recoverable per-frame errors... retried in a loop").
type Surface struct {
	device *Device

	surfaceID core.SurfaceID
	width     uint32
	height    uint32
	msaa      uint32

	msaaTexture gpu.TextureID
	msaaView    gpu.TextureViewID
}

// NewSurface configures a surface for presentation at the given size
// with msaaSamples (1 disables multisampling).
func NewSurface(d *Device, surfaceID core.SurfaceID, width, height, msaaSamples uint32) (*Surface, error) {
	s := &Surface{device: d, surfaceID: surfaceID, width: width, height: height, msaa: msaaSamples}
	if err := s.configure(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) configure() error {
	if err := core.ConfigureSurface(s.surfaceID, &types.SurfaceConfiguration{
		Device: s.device.deviceID,
		Format: s.device.surfaceFormat,
		Width:  s.width,
		Height: s.height,
	}); err != nil {
		return fmt.Errorf("wgpu: configuring surface: %w", err)
	}

	if s.msaa > 1 {
		texID, err := s.device.CreateTexture(gpu.TextureDescriptor{
			Label:       "msaa-resolve",
			Width:       s.width,
			Height:      s.height,
			Format:      toFacadeFormat(s.device.surfaceFormat),
			SampleCount: s.msaa,
		}, nil)
		if err != nil {
			return fmt.Errorf("wgpu: creating msaa texture: %w", err)
		}
		viewID, err := s.device.CreateTextureView(texID)
		if err != nil {
			return fmt.Errorf("wgpu: creating msaa view: %w", err)
		}
		s.msaaTexture, s.msaaView = texID, viewID
	}
	return nil
}

// Resize reconfigures the surface and MSAA framebuffer for a new
// physical size. Per spec §8 scenario 4, a resize mid-frame must never
// produce a mixed-size frame: callers resize only between frames, at
// the meet-up barrier boundary.
func (s *Surface) Resize(width, height uint32) error {
	if s.width == width && s.height == height {
		return nil
	}
	if s.msaaTexture != 0 {
		s.device.DestroyTexture(s.msaaTexture)
		s.msaaTexture, s.msaaView = 0, 0
	}
	s.width, s.height = width, height
	return s.configure()
}

const maxAcquireRetries = 8

// AcquireFrame acquires the next swapchain image, retrying on spurious
// timeouts (spec §7). Implements gpu.Surface.
func (s *Surface) AcquireFrame() (gpu.RenderTarget, error) {
	d := s.device
	var lastErr error
	for attempt := 0; attempt < maxAcquireRetries; attempt++ {
		texView, err := core.AcquireNextSurfaceTexture(s.surfaceID)
		if err == nil {
			return &renderTarget{device: d, surface: s, surfaceView: texView}, nil
		}
		lastErr = err
		d.logger.Warn("wgpu: surface acquisition timed out, retrying", "attempt", attempt, "err", err)
	}
	return nil, fmt.Errorf("wgpu: surface acquisition failed after %d attempts: %w", maxAcquireRetries, lastErr)
}

var _ gpu.Surface = (*Surface)(nil)

type renderTarget struct {
	device      *Device
	surface     *Surface
	surfaceView core.TextureViewID
	encoder     core.CommandEncoderID
}

func (t *renderTarget) BeginPass(clear [4]float32) gpu.RenderPass {
	encoder, err := core.CreateCommandEncoder(t.device.deviceID)
	if err != nil {
		t.device.logger.Error("wgpu: failed to create command encoder", "err", err)
		return &renderPass{}
	}
	t.encoder = encoder

	colorView := t.surfaceView
	resolveTarget := core.TextureViewID{}
	if t.surface.msaa > 1 {
		t.device.mu.Lock()
		colorView = t.device.views[t.surface.msaaView]
		t.device.mu.Unlock()
		resolveTarget = t.surfaceView
	}

	passID, err := core.BeginRenderPass(encoder, &types.RenderPassDescriptor{
		ColorAttachments: []types.RenderPassColorAttachment{{
			View:          colorView,
			ResolveTarget: resolveTarget,
			ClearColor:    types.Color{R: float64(clear[0]), G: float64(clear[1]), B: float64(clear[2]), A: float64(clear[3])},
			LoadOp:        types.LoadOpClear,
			StoreOp:       types.StoreOpStore,
		}},
	})
	if err != nil {
		t.device.logger.Error("wgpu: failed to begin render pass", "err", err)
		return &renderPass{}
	}
	return &renderPass{device: t.device, passID: passID}
}

func (t *renderTarget) Present() {
	if err := core.SubmitCommandEncoder(t.device.queueID, t.encoder); err != nil {
		t.device.logger.Error("wgpu: failed to submit frame", "err", err)
	}
	if err := core.PresentSurface(t.surface.surfaceID); err != nil {
		t.device.logger.Error("wgpu: failed to present surface", "err", err)
	}
}

type renderPass struct {
	device *Device
	passID core.RenderPassID
}

func (p *renderPass) SetPipeline(id gpu.PipelineID) {
	if p.device == nil {
		return
	}
	p.device.mu.Lock()
	pipelineID := p.device.pipelines[id]
	p.device.mu.Unlock()
	core.SetRenderPipeline(p.passID, pipelineID)
}

func (p *renderPass) SetBindGroup(index uint32, id gpu.BindGroupID) {
	if p.device == nil {
		return
	}
	p.device.mu.Lock()
	groupID := p.device.groups[id]
	p.device.mu.Unlock()
	core.SetBindGroup(p.passID, index, groupID)
}

func (p *renderPass) SetVertexBuffer(id gpu.BufferID) {
	if p.device == nil {
		return
	}
	p.device.mu.Lock()
	bufID := p.device.buffers[id]
	p.device.mu.Unlock()
	core.SetVertexBuffer(p.passID, 0, bufID)
}

func (p *renderPass) SetIndexBuffer(id gpu.BufferID) {
	if p.device == nil {
		return
	}
	p.device.mu.Lock()
	bufID := p.device.buffers[id]
	p.device.mu.Unlock()
	core.SetIndexBuffer(p.passID, bufID, types.IndexFormatUint32)
}

func (p *renderPass) DrawIndexed(indexCount uint32) {
	if p.device == nil {
		return
	}
	core.DrawIndexed(p.passID, indexCount, 1, 0, 0, 0)
}

func (p *renderPass) End() {
	if p.device == nil {
		return
	}
	core.EndRenderPass(p.passID)
}
