package metrics

import (
	"testing"
	"time"
)

func TestFrameTimesAverage(t *testing.T) {
	ft := NewFrameTimes(3)
	ft.Record(10 * time.Millisecond)
	ft.Record(20 * time.Millisecond)
	ft.Record(30 * time.Millisecond)

	if got := ft.Average(); got != 20*time.Millisecond {
		t.Fatalf("average = %v, want 20ms", got)
	}
	if got := ft.Max(); got != 30*time.Millisecond {
		t.Fatalf("max = %v, want 30ms", got)
	}
}

func TestFrameTimesWrapsAroundCapacity(t *testing.T) {
	ft := NewFrameTimes(2)
	ft.Record(10 * time.Millisecond)
	ft.Record(20 * time.Millisecond)
	ft.Record(100 * time.Millisecond) // overwrites the 10ms sample

	if ft.Len() != 2 {
		t.Fatalf("len = %d, want 2", ft.Len())
	}
	if got := ft.Average(); got != 60*time.Millisecond {
		t.Fatalf("average = %v, want 60ms", got)
	}
}
