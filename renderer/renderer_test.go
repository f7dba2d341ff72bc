package renderer

import (
	"testing"

	"github.com/mossvale/scrollwall/gpu"
	"github.com/mossvale/scrollwall/panel"
	"github.com/mossvale/scrollwall/rect"
)

type fakeDevice struct {
	nextID           uint64
	pipelinesCreated int
	destroyedBuffers []gpu.BufferID
}

func (d *fakeDevice) alloc() uint64 { d.nextID++; return d.nextID }

func (d *fakeDevice) CreateTexture(desc gpu.TextureDescriptor, pixels []byte) (gpu.TextureID, error) {
	return gpu.TextureID(d.alloc()), nil
}
func (d *fakeDevice) CreateTextureView(tex gpu.TextureID) (gpu.TextureViewID, error) {
	return gpu.TextureViewID(d.alloc()), nil
}
func (d *fakeDevice) DestroyTexture(tex gpu.TextureID) {}
func (d *fakeDevice) CreateSampler() (gpu.SamplerID, error) {
	return gpu.SamplerID(d.alloc()), nil
}
func (d *fakeDevice) CreateBuffer(usage gpu.BufferUsage, size uint64) (gpu.BufferID, error) {
	return gpu.BufferID(d.alloc()), nil
}
func (d *fakeDevice) WriteBuffer(buf gpu.BufferID, offset uint64, data []byte) error { return nil }
func (d *fakeDevice) DestroyBuffer(buf gpu.BufferID) {
	d.destroyedBuffers = append(d.destroyedBuffers, buf)
}
func (d *fakeDevice) CreateBindGroupLayout(entries []gpu.BindingKind) (gpu.BindGroupLayoutID, error) {
	return gpu.BindGroupLayoutID(d.alloc()), nil
}
func (d *fakeDevice) CreateBindGroup(layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	return gpu.BindGroupID(d.alloc()), nil
}
func (d *fakeDevice) CreateRenderPipeline(desc gpu.PipelineDescriptor) (gpu.PipelineID, error) {
	d.pipelinesCreated++
	return gpu.PipelineID(d.alloc()), nil
}
func (d *fakeDevice) SurfaceFormat() gpu.TextureFormat { return gpu.TextureFormatRGBA8UnormSRGB }
func (d *fakeDevice) MaxTextureDimension() uint32      { return 8192 }

var _ gpu.Device = (*fakeDevice)(nil)

func TestPipelineCacheReusesEntry(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	before := dev.pipelinesCreated
	id1, err := r.pipelineFor(panel.ShaderFadeBasic, gpu.TextureFormatRGBA8UnormSRGB, 1)
	if err != nil {
		t.Fatalf("pipelineFor failed: %v", err)
	}
	id2, err := r.pipelineFor(panel.ShaderFadeBasic, gpu.TextureFormatRGBA8UnormSRGB, 1)
	if err != nil {
		t.Fatalf("pipelineFor failed: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected cached pipeline id to match: %v != %v", id1, id2)
	}
	if dev.pipelinesCreated != before+1 {
		t.Fatalf("expected exactly 1 pipeline creation, got %d", dev.pipelinesCreated-before)
	}
}

func TestPipelineCacheDistinguishesVariants(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	idBasic, _ := r.pipelineFor(panel.ShaderFadeBasic, gpu.TextureFormatRGBA8UnormSRGB, 1)
	idWhite, _ := r.pipelineFor(panel.ShaderFadeWhite, gpu.TextureFormatRGBA8UnormSRGB, 1)
	if idBasic == idWhite {
		t.Fatal("expected distinct pipelines for distinct shader variants")
	}
}

func TestUniformBufferSurvivesGeometryReallocation(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	display := &panel.Display{Geometries: []rect.Rect{{Width: 100, Height: 100}}}
	p := &panel.Panel{Display: display}
	p.SyncGeometries()
	geom := &p.Geometries[0]

	buf1, err := r.uniformBufferFor(geom, 1, panel.SlotCur)
	if err != nil {
		t.Fatalf("uniformBufferFor failed: %v", err)
	}

	// Growing the display's geometry count forces SyncGeometries to
	// reallocate the backing array; the first geometry keeps its ID.
	display.Geometries = append(display.Geometries, rect.Rect{Width: 50, Height: 50})
	p.SyncGeometries()
	geom = &p.Geometries[0]

	buf2, err := r.uniformBufferFor(geom, 1, panel.SlotCur)
	if err != nil {
		t.Fatalf("uniformBufferFor failed: %v", err)
	}
	if buf1 != buf2 {
		t.Fatalf("uniform buffer changed across reallocation: %v != %v", buf1, buf2)
	}
}

func TestReleaseGeometryDestroysBuffers(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	display := &panel.Display{Geometries: []rect.Rect{{Width: 100, Height: 100}}}
	p := &panel.Panel{Display: display}
	p.SyncGeometries()
	geom := &p.Geometries[0]

	if _, err := r.uniformBufferFor(geom, 1, panel.SlotPrev); err != nil {
		t.Fatalf("uniformBufferFor failed: %v", err)
	}
	if _, err := r.uniformBufferFor(geom, 1, panel.SlotCur); err != nil {
		t.Fatalf("uniformBufferFor failed: %v", err)
	}

	r.ReleaseGeometry(geom.ID)

	if len(dev.destroyedBuffers) != 2 {
		t.Fatalf("expected 2 buffers destroyed, got %d", len(dev.destroyedBuffers))
	}
	if len(r.uniformBuffers) != 0 {
		t.Fatalf("expected uniformBuffers to be empty after release, got %d entries", len(r.uniformBuffers))
	}
}

func TestShaderVariantsDistinct(t *testing.T) {
	if fadeInShader == fadeOutShader {
		t.Fatal("expected fadeInShader and fadeOutShader to have distinct fragment bodies")
	}
	if fadeBasicShader == fadeWhiteShader {
		t.Fatal("expected fadeBasicShader and fadeWhiteShader to have distinct fragment bodies")
	}
}

func TestIntersects(t *testing.T) {
	a := rect.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := rect.Rect{X: 5, Y: 5, Width: 10, Height: 10}
	c := rect.Rect{X: 20, Y: 20, Width: 10, Height: 10}

	if !intersects(a, b) {
		t.Fatal("expected a and b to intersect")
	}
	if intersects(a, c) {
		t.Fatal("expected a and c not to intersect")
	}
}
