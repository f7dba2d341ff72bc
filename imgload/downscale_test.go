package imgload

import (
	"testing"
)

func TestDownscalerPutThenGet(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDownscaler(dir, 16)
	if err != nil {
		t.Fatalf("NewDownscaler failed: %v", err)
	}

	srcDir := t.TempDir()
	srcPath := writeTestPNG(t, srcDir, "src.png", 400, 200)

	src, err := Load(srcPath, 100000)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, ok := d.Get(srcPath, 100, 50); ok {
		t.Fatal("expected cache miss before Put")
	}

	saved, err := d.Put(srcPath, 100, 50, src.Pixels)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if max(saved.Width(), saved.Height()) > 100 {
		t.Fatalf("downscaled image too large: %dx%d", saved.Width(), saved.Height())
	}

	got, ok := d.Get(srcPath, 100, 50)
	if !ok {
		t.Fatal("expected cache hit after Put")
	}
	if got.Width() != saved.Width() || got.Height() != saved.Height() {
		t.Fatalf("cached dims %dx%d != saved dims %dx%d", got.Width(), got.Height(), saved.Width(), saved.Height())
	}
}

func TestDownscalerMissDifferentSize(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDownscaler(dir, 16)
	if err != nil {
		t.Fatalf("NewDownscaler failed: %v", err)
	}

	if _, ok := d.Get("nonexistent", 10, 10); ok {
		t.Fatal("expected miss for uncached key")
	}

	srcPath := writeTestPNG(t, t.TempDir(), "src.png", 400, 200)
	src, err := Load(srcPath, 100000)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := d.Put(srcPath, 100, 50, src.Pixels); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, ok := d.Get(srcPath, 200, 100); ok {
		t.Fatal("expected miss for a size that was never cached")
	}
}
