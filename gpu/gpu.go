// Package gpu defines the abstract GPU façade the renderer is built
// against: shader modules, textures with sampler bind groups, uniform
// buffers, command encoders, and a presentable surface. Any backend
// that can implement these interfaces can drive the renderer; the
// concrete implementation lives in backend/wgpu.
package gpu

// ResourceID is an opaque handle to a backend-owned GPU resource.
type ResourceID uint64

// InvalidID marks an unset resource handle.
const InvalidID ResourceID = 0

type (
	TextureID         ResourceID
	TextureViewID     ResourceID
	SamplerID         ResourceID
	BufferID          ResourceID
	BindGroupID       ResourceID
	BindGroupLayoutID ResourceID
	PipelineID        ResourceID
	ShaderModuleID    ResourceID
)

// TextureFormat mirrors the subset of formats this engine needs.
type TextureFormat uint32

const (
	TextureFormatRGBA8UnormSRGB TextureFormat = iota + 1
	TextureFormatBGRA8UnormSRGB
)

// BufferUsage is a bitmask of how a buffer will be used.
type BufferUsage uint32

const (
	BufferUsageUniform BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageCopyDst
)

// BindingKind distinguishes the three binding types a bind group entry
// can hold.
type BindingKind int

const (
	BindingTextureView BindingKind = iota
	BindingSampler
	BindingBuffer
)

// BindGroupEntry is one binding slot in a bind group.
type BindGroupEntry struct {
	Binding uint32
	Kind    BindingKind
	Texture TextureViewID
	Sampler SamplerID
	Buffer  BufferID
}

// TextureDescriptor describes a 2D texture to create.
type TextureDescriptor struct {
	Label         string
	Width, Height uint32
	Format        TextureFormat
	SampleCount   uint32 // 1 for no MSAA
}

// PipelineDescriptor describes a render pipeline.
type PipelineDescriptor struct {
	Label             string
	ShaderSource      string // WGSL source, compiled via naga at creation time
	VertexEntry       string
	FragmentEntry     string
	ColorFormat       TextureFormat
	SampleCount       uint32
	BindGroupLayouts  []BindGroupLayoutID
	VertexStrideBytes uint32
}

// Device is the host-provided entry point for all resource creation
// and command submission, generalizing gogpu-gg's DeviceHandle /
// gpucontext.DeviceProvider pattern to this engine's narrower needs
// (textured quads and solid-color rects only — no compute, no
// arbitrary vector paths).
type Device interface {
	CreateTexture(desc TextureDescriptor, pixels []byte) (TextureID, error)
	CreateTextureView(tex TextureID) (TextureViewID, error)
	DestroyTexture(tex TextureID)

	CreateSampler() (SamplerID, error)

	CreateBuffer(usage BufferUsage, size uint64) (BufferID, error)
	WriteBuffer(buf BufferID, offset uint64, data []byte) error
	DestroyBuffer(buf BufferID)

	CreateBindGroupLayout(entries []BindingKind) (BindGroupLayoutID, error)
	CreateBindGroup(layout BindGroupLayoutID, entries []BindGroupEntry) (BindGroupID, error)

	CreateRenderPipeline(desc PipelineDescriptor) (PipelineID, error)

	SurfaceFormat() TextureFormat
	MaxTextureDimension() uint32
}

// Surface is one presentable swapchain, owned by a single per-surface
// renderer task (spec §5: "Renderer — one per surface").
type Surface interface {
	// AcquireFrame returns a render target for the current frame,
	// retrying internally on spurious acquisition timeouts per spec §7.
	AcquireFrame() (RenderTarget, error)

	// Resize reconfigures the surface for a new physical size. Callers
	// must only call this between frames (spec §8 scenario 4).
	Resize(width, height uint32) error
}

// RenderTarget is one frame's presentable surface, optionally backed
// by an MSAA resolve.
type RenderTarget interface {
	BeginPass(clear [4]float32) RenderPass
	Present()
}

// RenderPass records draw commands for one frame.
type RenderPass interface {
	SetPipeline(id PipelineID)
	SetBindGroup(index uint32, id BindGroupID)
	SetVertexBuffer(id BufferID)
	SetIndexBuffer(id BufferID)
	DrawIndexed(indexCount uint32)
	End()
}
