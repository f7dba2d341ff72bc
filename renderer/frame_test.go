package renderer

import (
	"testing"

	"github.com/mossvale/scrollwall/panel"
	"github.com/mossvale/scrollwall/rect"
)

func TestSlotTransformAspectFitNoParallax(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s := &panel.State{}
	geomRect := rect.Rect{Width: 100, Height: 100}
	img := panel.Image{Width: 400, Height: 100} // wider than geometry, x slides

	transform := r.slotTransform(s, geomRect, img, 0, 0, 0)
	scaleX, scaleY, offsetX, offsetY := transform[0], transform[1], transform[2], transform[3]

	if scaleY != 1 {
		t.Fatalf("expected y scale 1 for a wider image, got %v", scaleY)
	}
	if scaleX >= 1 {
		t.Fatalf("expected x scale < 1 for a wider image, got %v", scaleX)
	}
	if offsetX != 0 {
		t.Fatalf("expected zero scroll offset at progress 0, got %v", offsetX)
	}
	if offsetY != 0 {
		t.Fatalf("expected no offset on the non-sliding axis, got %v", offsetY)
	}
}

func TestSlotTransformParallaxShrinksAndCenters(t *testing.T) {
	dev := &fakeDevice{}
	r, err := New(dev, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s := &panel.State{
		Parallax: panel.ParallaxConfig{Enabled: true, Ratio: 0.9, Exp: 1},
	}
	geomRect := rect.Rect{Width: 100, Height: 100}
	img := panel.Image{Width: 100, Height: 100}

	// Cursor at the geometry center: no displacement, but the image
	// should still be pre-scaled by parallax_ratio and recentered.
	transform := r.slotTransform(s, geomRect, img, 0, 50, 50)
	scaleX, offsetX := float64(transform[0]), float64(transform[2])

	if diff := scaleX - 0.9; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected parallax pre-scale 0.9, got %v", scaleX)
	}
	wantOffset := (1 - 0.9) / 2
	if diff := offsetX - wantOffset; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected centered offset %v, got %v", wantOffset, offsetX)
	}
}
