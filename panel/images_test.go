package panel

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mossvale/scrollwall/gpu"
	"github.com/mossvale/scrollwall/playlist"
)

// fakeDevice is a minimal in-memory gpu.Device for tests that never
// touch an actual GPU.
type fakeDevice struct {
	nextID uint64
}

func (d *fakeDevice) alloc() uint64 {
	d.nextID++
	return d.nextID
}

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
func (d *fakeDevice) DestroyBuffer(buf gpu.BufferID)                                {}
func (d *fakeDevice) CreateBindGroupLayout(entries []gpu.BindingKind) (gpu.BindGroupLayoutID, error) {
	return gpu.BindGroupLayoutID(d.alloc()), nil
}
func (d *fakeDevice) CreateBindGroup(layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	return gpu.BindGroupID(d.alloc()), nil
}
func (d *fakeDevice) CreateRenderPipeline(desc gpu.PipelineDescriptor) (gpu.PipelineID, error) {
	return gpu.PipelineID(d.alloc()), nil
}
func (d *fakeDevice) SurfaceFormat() gpu.TextureFormat      { return gpu.TextureFormatRGBA8UnormSRGB }
func (d *fakeDevice) MaxTextureDimension() uint32           { return 8192 }

var _ gpu.Device = (*fakeDevice)(nil)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	// Minimal valid 1x1 PNG.
	data := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0xfc, 0xcf, 0xc0, 0xc0,
		0x00, 0x00, 0x00, 0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00,
		0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing test png: %v", err)
	}
	return path
}

func TestImagesSingleInFlight(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png")

	dev := &fakeDevice{}
	layout, _ := dev.CreateBindGroupLayout(nil)
	images, err := NewImages(dev, layout, slog.Default())
	if err != nil {
		t.Fatalf("NewImages failed: %v", err)
	}

	items := []playlist.Item{{Enabled: true, Kind: playlist.KindFile, Path: filepath.Join(dir, "a.png")}}
	player := playlist.NewSeeded(playlist.Playlist{Items: items}, 10, 1, nil)

	images.LoadMissing(player, 8192)
	if got := images.PendingCount(); got != 1 {
		t.Fatalf("expected 1 pending load, got %d", got)
	}

	images.LoadMissing(player, 8192)
	if got := images.PendingCount(); got != 1 {
		t.Fatalf("expected still 1 pending load (single in-flight), got %d", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		images.LoadMissing(player, 8192)
		if images.Cur.Loaded {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !images.Cur.Loaded {
		t.Fatal("expected cur slot to be loaded eventually")
	}
}
