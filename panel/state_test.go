package panel

import "testing"

func almostEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestFadeAlphaPartition(t *testing.T) {
	for _, f := range []float64{0, 0.05, 0.1, 0.3, 0.5} {
		for i := 0; i < 100; i++ {
			p := float64(i) / 100
			ap, ac, an := SlotAlphas(p, f)
			if ap < 0 || ac < 0 || an < 0 {
				t.Fatalf("f=%v p=%v: negative alpha ap=%v ac=%v an=%v", f, p, ap, ac, an)
			}
			sum := ap + ac + an
			if !almostEqual(sum, 1, 1e-9) {
				t.Fatalf("f=%v p=%v: alphas sum to %v, want 1", f, p, sum)
			}
		}
	}
}

func TestFadeMonotonicitySymmetric(t *testing.T) {
	f := 0.2
	acAt := func(p float64) float64 {
		_, ac, _ := SlotAlphas(p, f)
		return ac
	}

	mid := acAt(0.5)
	for i := 1; i <= 40; i++ {
		delta := float64(i) / 100
		left := acAt(0.5 - delta)
		right := acAt(0.5 + delta)
		if !almostEqual(left, right, 1e-9) {
			t.Fatalf("not symmetric around 0.5: p=%.2f -> %v, p=%.2f -> %v", 0.5-delta, left, 0.5+delta, right)
		}
		if left > mid+1e-9 {
			t.Fatalf("alphaCur at p=%.2f (%v) exceeds value at p=0.5 (%v)", 0.5-delta, left, mid)
		}
	}
}

func TestSlotProgressRange(t *testing.T) {
	f := 0.1
	for i := 0; i < 100; i++ {
		p := float64(i) / 100
		for _, slot := range []Slot{SlotPrev, SlotCur, SlotNext} {
			alpha := 0.0
			ap, ac, an := SlotAlphas(p, f)
			switch slot {
			case SlotPrev:
				alpha = ap
			case SlotCur:
				alpha = ac
			case SlotNext:
				alpha = an
			}
			if alpha <= 0 {
				continue
			}
			sp := SlotProgress(slot, p, f)
			if sp < -1e-9 || sp > 1+1e-9 {
				t.Fatalf("slot %v progress out of range at p=%v f=%v: got %v", slot, p, f, sp)
			}
		}
	}
}

func TestTickClampsWhenSwapFails(t *testing.T) {
	images := &Images{}
	s := NewFadeState(60, 6, ShaderFadeBasic, images, nil)

	// Force StepNext to always fail (no loaded Next slot) by leaving
	// Images zero-valued; progress should clamp at duration-1.
	for i := 0; i < 1000; i++ {
		s.Tick()
	}
	if s.Progress != s.Duration-1 {
		t.Fatalf("progress = %d, want %d (stuck before swap)", s.Progress, s.Duration-1)
	}
}

func TestParallaxClamp(t *testing.T) {
	parallaxRatio := 0.1
	scaleX, scaleY, dx, dy := ParallaxScaleOffset(10000, 10000, 0, 0, 100, 100, 1, 1, parallaxRatio, 1, false)
	maxMag := (1 - parallaxRatio) * 0.5
	if dx > maxMag+1e-9 || dy > maxMag+1e-9 {
		t.Fatalf("parallax offset (%v, %v) exceeds max magnitude %v", dx, dy, maxMag)
	}
	if scaleX != parallaxRatio || scaleY != parallaxRatio {
		t.Fatalf("parallax scale = (%v, %v), want (%v, %v)", scaleX, scaleY, parallaxRatio, parallaxRatio)
	}
}

func TestParallaxReverseNegates(t *testing.T) {
	_, _, dx, dy := ParallaxScaleOffset(10, 10, 0, 0, 100, 100, 1, 1, 0.1, 1, false)
	_, _, rdx, rdy := ParallaxScaleOffset(10, 10, 0, 0, 100, 100, 1, 1, 0.1, 1, true)
	if dx != -rdx || dy != -rdy {
		t.Fatalf("reverse should negate offset: (%v, %v) vs (%v, %v)", dx, dy, rdx, rdy)
	}
}
