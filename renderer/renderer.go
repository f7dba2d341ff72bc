// Package renderer implements the Panels Renderer (spec §4.5): shared
// vertex/index buffers, a render-pipeline cache keyed by shader
// variant, uniform writes, and the per-frame render pass that
// composites every panel's geometries.
package renderer

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mossvale/scrollwall/cache"
	"github.com/mossvale/scrollwall/gpu"
	"github.com/mossvale/scrollwall/panel"
)

// Vertex is one corner of the shared unit quad.
type Vertex struct {
	X, Y   float32
	U, V   float32
}

// unitQuad is the 4-vertex unit quad shared by every panel draw (spec
// §4.5: "vertex buffer (a unit quad of 4 PanelVertex)").
var unitQuad = [4]Vertex{
	{X: 0, Y: 0, U: 0, V: 0},
	{X: 1, Y: 0, U: 1, V: 0},
	{X: 1, Y: 1, U: 1, V: 1},
	{X: 0, Y: 1, U: 0, V: 1},
}

// unitQuadIndices forms two CCW triangles.
var unitQuadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// pipelineKey identifies a cached pipeline. Per spec §9's design note,
// keying on shader variant alone is sufficient while the surface
// format is fixed for the process lifetime; Format/MSAA extend the key
// for multi-window support with differing surface formats.
type pipelineKey struct {
	shader panel.ShaderVariant
	format gpu.TextureFormat
	msaa   uint32
}

func (k pipelineKey) hash() uint64 {
	return uint64(k.shader) | uint64(k.format)<<8 | uint64(k.msaa)<<16
}

// Renderer owns the shared vertex/index buffers and the render
// pipeline cache. It does not own panels (spec §3 ownership summary).
type Renderer struct {
	device gpu.Device
	logger *slog.Logger

	vertexBuffer gpu.BufferID
	indexBuffer  gpu.BufferID

	imageLayout    gpu.BindGroupLayoutID
	uniformLayout  gpu.BindGroupLayoutID
	pipelines      *cache.Sharded[pipelineKey, gpu.PipelineID]
	uniformBuffers map[uniformKey]gpu.BufferID
}

// uniformKey identifies one geometry's one slot's uniform buffer on
// one surface. Keying by geometry ID (stable across SyncGeometries
// reallocation) rather than the geometry's address means a buffer
// stays reachable, and reclaimable via ReleaseGeometry, for as long as
// the geometry exists (spec.md:76: "per-window uniform buffers keyed
// by window id").
type uniformKey struct {
	geomID    uint64
	surfaceID uint64
	slot      panel.Slot
}

// New creates the shared buffers and bind group layouts used by every
// panel draw.
func New(device gpu.Device, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	vb, err := device.CreateBuffer(gpu.BufferUsageVertex|gpu.BufferUsageCopyDst, uint64(len(unitQuad))*16)
	if err != nil {
		return nil, fmt.Errorf("renderer: creating vertex buffer: %w", err)
	}
	if err := device.WriteBuffer(vb, 0, vertexBytes(unitQuad[:])); err != nil {
		return nil, fmt.Errorf("renderer: writing vertex buffer: %w", err)
	}

	ib, err := device.CreateBuffer(gpu.BufferUsageIndex|gpu.BufferUsageCopyDst, uint64(len(unitQuadIndices))*4)
	if err != nil {
		return nil, fmt.Errorf("renderer: creating index buffer: %w", err)
	}
	if err := device.WriteBuffer(ib, 0, indexBytes(unitQuadIndices[:])); err != nil {
		return nil, fmt.Errorf("renderer: writing index buffer: %w", err)
	}

	imageLayout, err := device.CreateBindGroupLayout([]gpu.BindingKind{
		gpu.BindingTextureView, gpu.BindingTextureView, gpu.BindingTextureView, gpu.BindingSampler,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: creating image bind group layout: %w", err)
	}

	uniformLayout, err := device.CreateBindGroupLayout([]gpu.BindingKind{gpu.BindingBuffer})
	if err != nil {
		return nil, fmt.Errorf("renderer: creating uniform bind group layout: %w", err)
	}

	return &Renderer{
		device:         device,
		logger:         logger,
		vertexBuffer:   vb,
		indexBuffer:    ib,
		imageLayout:    imageLayout,
		uniformLayout:  uniformLayout,
		pipelines:      cache.NewSharded[pipelineKey, gpu.PipelineID](0, func(k pipelineKey) uint64 { return k.hash() }),
		uniformBuffers: make(map[uniformKey]gpu.BufferID),
	}, nil
}

// ReleaseGeometry destroys every uniform buffer this renderer holds
// for geomID, across every surface and slot (spec §4.6: panels
// displaced by a profile swap release their per-window buffers).
func (r *Renderer) ReleaseGeometry(geomID uint64) {
	for key, buf := range r.uniformBuffers {
		if key.geomID != geomID {
			continue
		}
		r.device.DestroyBuffer(buf)
		delete(r.uniformBuffers, key)
	}
}

func vertexBytes(vs []Vertex) []byte {
	out := make([]byte, 0, len(vs)*16)
	for _, v := range vs {
		out = appendFloat32(out, v.X, v.Y, v.U, v.V)
	}
	return out
}

func indexBytes(is []uint32) []byte {
	out := make([]byte, 0, len(is)*4)
	for _, i := range is {
		out = append(out, byte(i), byte(i>>8), byte(i>>16), byte(i>>24))
	}
	return out
}

func appendFloat32(out []byte, vs ...float32) []byte {
	for _, v := range vs {
		bits := math.Float32bits(v)
		out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return out
}

// pipelineFor fetches or builds the pipeline for the given shader
// variant, materializing it lazily on first use (spec §4.5:
// "lazily-populated pipeline cache").
func (r *Renderer) pipelineFor(shader panel.ShaderVariant, format gpu.TextureFormat, msaa uint32) (gpu.PipelineID, error) {
	key := pipelineKey{shader: shader, format: format, msaa: msaa}

	var createErr error
	id := r.pipelines.GetOrCreate(key, func() gpu.PipelineID {
		source, vsEntry, fsEntry := shaderSourceFor(shader)
		pipeline, err := r.device.CreateRenderPipeline(gpu.PipelineDescriptor{
			Label:             shaderLabel(shader),
			ShaderSource:      source,
			VertexEntry:       vsEntry,
			FragmentEntry:     fsEntry,
			ColorFormat:       format,
			SampleCount:       msaa,
			BindGroupLayouts:  []gpu.BindGroupLayoutID{r.uniformLayout, r.imageLayout},
			VertexStrideBytes: 16,
		})
		if err != nil {
			createErr = err
			return 0
		}
		return pipeline
	})
	if createErr != nil {
		return 0, fmt.Errorf("renderer: building pipeline for %v: %w", shader, createErr)
	}
	return id, nil
}

// ImageLayout returns the bind group layout panel.Images must target
// when constructing its per-panel image ring bind group.
func (r *Renderer) ImageLayout() gpu.BindGroupLayoutID {
	return r.imageLayout
}

func shaderLabel(v panel.ShaderVariant) string {
	switch v {
	case panel.ShaderNone:
		return "none"
	case panel.ShaderFadeBasic:
		return "fade-basic"
	case panel.ShaderFadeWhite:
		return "fade-white"
	case panel.ShaderFadeOut:
		return "fade-out"
	case panel.ShaderFadeIn:
		return "fade-in"
	case panel.ShaderSlideBasic:
		return "slide-basic"
	default:
		return "unknown"
	}
}
