package panel

import (
	"testing"

	"github.com/mossvale/scrollwall/rect"
)

func TestPosMatrixOrigin(t *testing.T) {
	geom := rect.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	m := PosMatrix(geom, 200, 200)

	// A geometry half the surface's width and height at the origin maps
	// (0,0)-(1,1) in local space to the top-left quarter of clip space,
	// scale 0.5 on each axis.
	if m[0] != 0.5 {
		t.Fatalf("scale x = %v, want 0.5", m[0])
	}
	if m[5] != -0.5 {
		t.Fatalf("scale y = %v, want -0.5 (flipped)", m[5])
	}
}

func TestImageRatioWiderImage(t *testing.T) {
	rx, ry := ImageRatio(400, 100, 100, 100)
	if ry != 1 {
		t.Fatalf("expected y ratio 1 for wider image, got %v", ry)
	}
	if rx >= 1 {
		t.Fatalf("expected x ratio < 1 for wider image, got %v", rx)
	}
}

func TestImageRatioTallerImage(t *testing.T) {
	rx, ry := ImageRatio(100, 400, 100, 100)
	if rx != 1 {
		t.Fatalf("expected x ratio 1 for taller image, got %v", rx)
	}
	if ry >= 1 {
		t.Fatalf("expected y ratio < 1 for taller image, got %v", ry)
	}
}

func TestScrollOffsetSwapDir(t *testing.T) {
	a := ScrollOffset(0.5, 0.5, false)
	b := ScrollOffset(0.5, 0.5, true)
	if a != -b {
		t.Fatalf("expected swap_dir to negate offset: %v vs %v", a, b)
	}
}
