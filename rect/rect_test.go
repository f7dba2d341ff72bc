package rect

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Rect
		wantErr bool
	}{
		{"100x200", Rect{0, 0, 100, 200}, false},
		{"100x200+10+20", Rect{10, 20, 100, 200}, false},
		{"100x200+-5+-6", Rect{-5, -6, 100, 200}, false},
		{"100", Rect{}, true},
		{"abcx200", Rect{}, true},
		{"100x200+10", Rect{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, r := range []Rect{{0, 0, 100, 200}, {10, 20, 100, 200}, {-5, -6, 1, 1}} {
		s := r.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", s, err)
		}
		if got != r {
			t.Fatalf("round trip: got %+v, want %+v", got, r)
		}
	}
}

func TestContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Contains(5, 5) {
		t.Fatal("expected (5,5) to be contained")
	}
	if !r.Contains(10, 10) {
		t.Fatal("expected max corner to be inclusive")
	}
	if r.Contains(11, 5) {
		t.Fatal("expected (11,5) to be outside")
	}
}

func TestMerge(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	m := a.Merge(b)
	want := Rect{X: 0, Y: 0, Width: 15, Height: 15}
	if m != want {
		t.Fatalf("Merge = %+v, want %+v", m, want)
	}
}

func TestParseGrid(t *testing.T) {
	rects, err := ParseGrid("2x2@100x100+0+0")
	if err != nil {
		t.Fatalf("ParseGrid failed: %v", err)
	}
	if len(rects) != 4 {
		t.Fatalf("expected 4 rects, got %d", len(rects))
	}
	want := []Rect{
		{0, 0, 50, 50},
		{50, 0, 50, 50},
		{0, 50, 50, 50},
		{50, 50, 50, 50},
	}
	for i, r := range rects {
		if r != want[i] {
			t.Fatalf("rect %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestParseGridUnevenRemainder(t *testing.T) {
	rects, err := ParseGrid("3x1@10x10+0+0")
	if err != nil {
		t.Fatalf("ParseGrid failed: %v", err)
	}
	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	// 10/3 = 3 (rounded toward zero); last column absorbs the remainder.
	want := []uint32{3, 3, 4}
	for i, r := range rects {
		if r.Width != want[i] {
			t.Fatalf("rect %d width = %d, want %d", i, r.Width, want[i])
		}
	}
}
