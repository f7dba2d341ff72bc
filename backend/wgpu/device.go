// Package wgpu implements the gpu.Device façade on top of
// github.com/gogpu/wgpu, using github.com/gogpu/naga to compile the
// engine's WGSL shaders and github.com/gogpu/gputypes for shared GPU
// type definitions.
package wgpu

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/mossvale/scrollwall/gpu"
)

// Device implements gpu.Device against a gogpu/wgpu adapter/device
// pair. It also implements gpucontext.DeviceProvider so it can be
// handed to any other component in the gogpu ecosystem expecting that
// interface.
type Device struct {
	logger *slog.Logger

	adapterID core.AdapterID
	deviceID  core.DeviceID
	queueID   core.QueueID

	surfaceFormat gputypes.TextureFormat
	maxTexDim     uint32

	mu        sync.Mutex
	nextID    atomic.Uint64
	textures  map[gpu.TextureID]core.TextureID
	views     map[gpu.TextureViewID]core.TextureViewID
	samplers  map[gpu.SamplerID]core.SamplerID
	buffers   map[gpu.BufferID]core.BufferID
	layouts   map[gpu.BindGroupLayoutID]core.BindGroupLayoutID
	groups    map[gpu.BindGroupID]core.BindGroupID
	pipelines map[gpu.PipelineID]core.RenderPipelineID
}

// New opens a device on the default high-performance adapter and
// returns a façade ready to create engine resources. Fatal per spec
// §7 ("no GPU adapter") — the caller should log.Fatal on error.
func New(logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}

	instanceID, err := core.CreateInstance(&types.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("wgpu: creating instance: %w", err)
	}

	adapterID, err := core.RequestAdapter(instanceID, &types.RequestAdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: no suitable GPU adapter: %w", err)
	}
	logGPUInfo(logger, adapterID)

	deviceID, err := core.RequestDevice(adapterID, &types.DeviceDescriptor{
		Label:            "scrollwall",
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: creating device: %w", err)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		return nil, fmt.Errorf("wgpu: getting device queue: %w", err)
	}

	limits := types.DefaultLimits()

	return &Device{
		logger:        logger,
		adapterID:     adapterID,
		deviceID:      deviceID,
		queueID:       queueID,
		surfaceFormat: gputypes.TextureFormatBGRA8UnormSrgb,
		maxTexDim:     limits.MaxTextureDimension2D,
		textures:      make(map[gpu.TextureID]core.TextureID),
		views:         make(map[gpu.TextureViewID]core.TextureViewID),
		samplers:      make(map[gpu.SamplerID]core.SamplerID),
		buffers:       make(map[gpu.BufferID]core.BufferID),
		layouts:       make(map[gpu.BindGroupLayoutID]core.BindGroupLayoutID),
		groups:        make(map[gpu.BindGroupID]core.BindGroupID),
		pipelines:     make(map[gpu.PipelineID]core.RenderPipelineID),
	}, nil
}

func logGPUInfo(logger *slog.Logger, adapterID core.AdapterID) {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		logger.Warn("wgpu: failed to query adapter info", "err", err)
		return
	}
	logger.Info("wgpu: selected adapter", "name", info.Name, "backend", info.Backend, "device_type", info.DeviceType)
}

// Device returns the underlying gpucontext.Device, satisfying
// gpucontext.DeviceProvider.
func (d *Device) Device() gpucontext.Device { return d.deviceID }

// Queue returns the underlying gpucontext.Queue, satisfying
// gpucontext.DeviceProvider.
func (d *Device) Queue() gpucontext.Queue { return d.queueID }

// Adapter returns the underlying gpucontext.Adapter, satisfying
// gpucontext.DeviceProvider.
func (d *Device) Adapter() gpucontext.Adapter { return d.adapterID }

func (d *Device) SurfaceFormat() gpu.TextureFormat {
	return toFacadeFormat(d.surfaceFormat)
}

func (d *Device) MaxTextureDimension() uint32 {
	return d.maxTexDim
}

func toFacadeFormat(f gputypes.TextureFormat) gpu.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return gpu.TextureFormatRGBA8UnormSRGB
	default:
		return gpu.TextureFormatBGRA8UnormSRGB
	}
}

func toWgpuFormat(f gpu.TextureFormat) gputypes.TextureFormat {
	switch f {
	case gpu.TextureFormatRGBA8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	default:
		return gputypes.TextureFormatBGRA8UnormSrgb
	}
}

func (d *Device) allocID() uint64 {
	return d.nextID.Add(1)
}

// CreateTexture creates a sampled 2D texture and uploads pixels via
// the device queue.
func (d *Device) CreateTexture(desc gpu.TextureDescriptor, pixels []byte) (gpu.TextureID, error) {
	sampleCount := desc.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}

	texID, err := core.CreateTexture(d.deviceID, &types.TextureDescriptor{
		Label:         desc.Label,
		Size:          types.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     types.TextureDimension2D,
		Format:        toWgpuFormat(desc.Format),
		Usage:         types.TextureUsageTextureBinding | types.TextureUsageCopyDst | types.TextureUsageRenderAttachment,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating texture %q: %w", desc.Label, err)
	}

	if pixels != nil {
		if err := core.WriteTexture(d.queueID, texID, pixels, desc.Width, desc.Height); err != nil {
			return 0, fmt.Errorf("wgpu: uploading texture %q: %w", desc.Label, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.TextureID(d.allocID())
	d.textures[id] = texID
	return id, nil
}

func (d *Device) CreateTextureView(tex gpu.TextureID) (gpu.TextureViewID, error) {
	d.mu.Lock()
	texID, ok := d.textures[tex]
	d.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("wgpu: unknown texture id %d", tex)
	}

	viewID, err := core.CreateTextureView(texID, &types.TextureViewDescriptor{})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating texture view: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.TextureViewID(d.allocID())
	d.views[id] = viewID
	return id, nil
}

func (d *Device) DestroyTexture(tex gpu.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if texID, ok := d.textures[tex]; ok {
		core.DestroyTexture(texID)
		delete(d.textures, tex)
	}
}

func (d *Device) CreateSampler() (gpu.SamplerID, error) {
	samplerID, err := core.CreateSampler(d.deviceID, &types.SamplerDescriptor{
		AddressModeU: types.AddressModeClampToEdge,
		AddressModeV: types.AddressModeClampToEdge,
		MagFilter:    types.FilterModeLinear,
		MinFilter:    types.FilterModeLinear,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating sampler: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.SamplerID(d.allocID())
	d.samplers[id] = samplerID
	return id, nil
}

func (d *Device) CreateBuffer(usage gpu.BufferUsage, size uint64) (gpu.BufferID, error) {
	bufID, err := core.CreateBuffer(d.deviceID, &types.BufferDescriptor{
		Size:  size,
		Usage: toWgpuBufferUsage(usage),
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating buffer: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.BufferID(d.allocID())
	d.buffers[id] = bufID
	return id, nil
}

func toWgpuBufferUsage(usage gpu.BufferUsage) types.BufferUsage {
	var out types.BufferUsage
	if usage&gpu.BufferUsageUniform != 0 {
		out |= types.BufferUsageUniform
	}
	if usage&gpu.BufferUsageIndex != 0 {
		out |= types.BufferUsageIndex
	}
	if usage&gpu.BufferUsageVertex != 0 {
		out |= types.BufferUsageVertex
	}
	if usage&gpu.BufferUsageCopyDst != 0 {
		out |= types.BufferUsageCopyDst
	}
	return out
}

// DestroyBuffer releases a GPU buffer, mirroring DestroyTexture.
func (d *Device) DestroyBuffer(buf gpu.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if bufID, ok := d.buffers[buf]; ok {
		core.DestroyBuffer(bufID)
		delete(d.buffers, buf)
	}
}

func (d *Device) WriteBuffer(buf gpu.BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	bufID, ok := d.buffers[buf]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("wgpu: unknown buffer id %d", buf)
	}
	if err := core.WriteBuffer(d.queueID, bufID, offset, data); err != nil {
		return fmt.Errorf("wgpu: writing buffer: %w", err)
	}
	return nil
}

// CreateRenderPipeline compiles desc.ShaderSource (WGSL) with naga and
// builds a render pipeline matching spec §6's fixed pipeline shape:
// triangle-list, CCW front, no culling, alpha blending on,
// depth-stencil off.
func (d *Device) CreateRenderPipeline(desc gpu.PipelineDescriptor) (gpu.PipelineID, error) {
	spirv, err := naga.Compile(desc.ShaderSource)
	if err != nil {
		return 0, fmt.Errorf("wgpu: compiling shader %q: %w", desc.Label, err)
	}

	shaderID, err := core.CreateShaderModuleSPIRV(d.deviceID, desc.Label, spirv)
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating shader module %q: %w", desc.Label, err)
	}

	d.mu.Lock()
	layoutIDs := make([]core.BindGroupLayoutID, 0, len(desc.BindGroupLayouts))
	for _, l := range desc.BindGroupLayouts {
		layoutIDs = append(layoutIDs, d.layouts[l])
	}
	d.mu.Unlock()

	pipelineLayoutID, err := core.CreatePipelineLayout(d.deviceID, &types.PipelineLayoutDescriptor{
		BindGroupLayouts: layoutIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating pipeline layout for %q: %w", desc.Label, err)
	}

	pipelineID, err := core.CreateRenderPipeline(d.deviceID, &types.RenderPipelineDescriptor{
		Label:          desc.Label,
		Layout:         pipelineLayoutID,
		VertexShader:   shaderID,
		VertexEntry:    desc.VertexEntry,
		FragmentShader: shaderID,
		FragmentEntry:  desc.FragmentEntry,
		ColorFormat:    toWgpuFormat(desc.ColorFormat),
		SampleCount:    desc.SampleCount,
		Topology:       types.PrimitiveTopologyTriangleList,
		FrontFace:      types.FrontFaceCCW,
		CullMode:       types.CullModeNone,
		BlendEnabled:   true,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating render pipeline %q: %w", desc.Label, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.PipelineID(d.allocID())
	d.pipelines[id] = pipelineID
	return id, nil
}

func (d *Device) CreateBindGroupLayout(entries []gpu.BindingKind) (gpu.BindGroupLayoutID, error) {
	wgpuEntries := make([]types.BindGroupLayoutEntry, len(entries))
	for i, e := range entries {
		entry := types.BindGroupLayoutEntry{Binding: uint32(i), Visibility: types.ShaderStageFragment}
		switch e {
		case gpu.BindingTextureView:
			entry.Texture = &types.TextureBindingLayout{SampleType: types.TextureSampleTypeFloat, ViewDimension: types.TextureViewDimension2D}
		case gpu.BindingSampler:
			entry.Sampler = &types.SamplerBindingLayout{Type: types.SamplerBindingTypeFiltering}
		case gpu.BindingBuffer:
			entry.Buffer = &types.BufferBindingLayout{Type: types.BufferBindingTypeUniform}
		}
		wgpuEntries[i] = entry
	}

	layoutID, err := core.CreateBindGroupLayout(d.deviceID, &types.BindGroupLayoutDescriptor{Entries: wgpuEntries})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating bind group layout: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.BindGroupLayoutID(d.allocID())
	d.layouts[id] = layoutID
	return id, nil
}

func (d *Device) CreateBindGroup(layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	d.mu.Lock()
	layoutID, ok := d.layouts[layout]
	d.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("wgpu: unknown bind group layout %d", layout)
	}

	wgpuEntries := make([]types.BindGroupEntry, len(entries))
	for i, e := range entries {
		entry := types.BindGroupEntry{Binding: e.Binding}
		d.mu.Lock()
		switch e.Kind {
		case gpu.BindingTextureView:
			entry.TextureView = d.views[e.Texture]
		case gpu.BindingSampler:
			entry.Sampler = d.samplers[e.Sampler]
		case gpu.BindingBuffer:
			entry.Buffer = d.buffers[e.Buffer]
		}
		d.mu.Unlock()
		wgpuEntries[i] = entry
	}

	groupID, err := core.CreateBindGroup(d.deviceID, &types.BindGroupDescriptor{Layout: layoutID, Entries: wgpuEntries})
	if err != nil {
		return 0, fmt.Errorf("wgpu: creating bind group: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.BindGroupID(d.allocID())
	d.groups[id] = groupID
	return id, nil
}
