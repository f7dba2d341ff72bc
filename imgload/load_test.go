package imgload

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return path
}

func TestLoadSmallImagePassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "small.png", 10, 20)

	img, err := Load(path, 100)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width() != 10 || img.Height() != 20 {
		t.Fatalf("got %dx%d, want 10x20", img.Width(), img.Height())
	}
}

func TestLoadDownscalesOversizedImage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "big.png", 400, 200)

	img, err := Load(path, 100)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if max(img.Width(), img.Height()) != 100 {
		t.Fatalf("got %dx%d, want longer side == 100", img.Width(), img.Height())
	}
	if img.Width() != 100 || img.Height() != 50 {
		t.Fatalf("got %dx%d, want 100x50 (aspect preserved)", img.Width(), img.Height())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"), 100)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var loadErr *LoadError
	if !asLoadError(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
}

func asLoadError(err error, target **LoadError) bool {
	le, ok := err.(*LoadError)
	if ok {
		*target = le
	}
	return ok
}
