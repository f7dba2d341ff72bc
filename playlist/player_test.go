package playlist

import (
	"path/filepath"
	"testing"
)

func newTestPlayer(paths []string, maxOld int, seed int64) *Player {
	items := make([]Item, len(paths))
	for i, p := range paths {
		items[i] = Item{Enabled: true, Kind: KindFile, Path: p}
	}
	return NewSeeded(Playlist{Items: items}, maxOld, seed, nil)
}

func TestDeckIntegrity(t *testing.T) {
	paths := []string{"a", "b", "c"}
	p := newTestPlayer(paths, 10, 1)

	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		known[abs] = true
	}

	for i := 0; i < 200; i++ {
		p.StepNext()

		for _, item := range p.curItems {
			if !known[item] {
				t.Fatalf("unexpected path %q in deck", item)
			}
		}
		if len(p.curItems) < 0 {
			t.Fatal("deck length went negative")
		}
	}
}

func TestRemovePreservesVisibility(t *testing.T) {
	p := newTestPlayer([]string{"a", "b", "c", "d"}, 10, 2)
	for i := 0; i < 5; i++ {
		p.StepNext()
	}

	before, ok := p.Cur()
	if !ok {
		t.Fatal("expected a current item")
	}

	removeTarget, _ := filepath.Abs("a")
	if before == removeTarget {
		removeTarget, _ = filepath.Abs("b")
	}

	p.Remove(removeTarget)

	after, ok := p.Cur()
	if !ok {
		t.Fatal("expected a current item after remove")
	}
	if after != before {
		t.Fatalf("Cur() changed after removing unrelated path: before=%q after=%q", before, after)
	}
}

func TestRemoveCurrentAdvances(t *testing.T) {
	p := newTestPlayer([]string{"a", "b", "c"}, 10, 3)
	p.StepNext()

	cur, _ := p.Cur()
	p.Remove(cur)

	if _, ok := p.allItems[cur]; ok {
		t.Fatalf("expected %q removed from allItems", cur)
	}
}

func TestStepPrevAtStart(t *testing.T) {
	p := newTestPlayer([]string{"a"}, 10, 4)
	if err := p.StepPrev(); err != ErrAtStart {
		t.Fatalf("StepPrev at start: got %v, want ErrAtStart", err)
	}
}

func TestStepPrevAfterNext(t *testing.T) {
	p := newTestPlayer([]string{"a", "b"}, 10, 5)
	p.StepNext()
	p.StepNext()

	if err := p.StepPrev(); err != nil {
		t.Fatalf("StepPrev: unexpected error %v", err)
	}
}

func TestBoundedHistory(t *testing.T) {
	maxOld := 3
	p := newTestPlayer([]string{"a", "b", "c"}, maxOld, 6)

	for i := 0; i < 500; i++ {
		p.StepNext()
		if p.curPos > maxOld+len(p.allItems) {
			t.Fatalf("curPos=%d exceeds bound maxOld(%d)+allItems(%d)", p.curPos, maxOld, len(p.allItems))
		}
	}
}

func TestEmptyPlaylistNoPanic(t *testing.T) {
	p := newTestPlayer(nil, 10, 7)

	for i := 0; i < 100; i++ {
		p.StepNext()
	}
	if _, ok := p.Cur(); ok {
		t.Fatal("expected no current item for empty playlist")
	}
}
