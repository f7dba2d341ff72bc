package panel

import (
	"sync/atomic"

	"github.com/mossvale/scrollwall/rect"
)

// geometryIDSeq allocates the process-lifetime-unique IDs that key a
// Geometry's per-window uniform buffers (spec.md:76) across
// SyncGeometries reallocations.
var geometryIDSeq uint64

func nextGeometryID() uint64 {
	return atomic.AddUint64(&geometryIDSeq, 1)
}

// Display is a named logical collection of geometries, typically
// mirroring a physical monitor layout; multiple panels can reference
// the same display.
type Display struct {
	Name      string
	Geometries []rect.Rect
}

// Geometry pairs one of a Display's rectangles with the stable ID a
// renderer uses to key its per-window uniform buffers (spec §3
// "Panel"; spec.md:76), resized lazily to track Display.Geometries. ID
// is assigned once and survives SyncGeometries' backing-array
// reallocation, so a renderer's buffers for this geometry stay valid
// (and reclaimable) across display changes.
type Geometry struct {
	ID   uint64
	Rect rect.Rect
}

// Panel is the unit of animation: a geometry set plus a state machine
// plus (transitively, via State) a playlist player.
type Panel struct {
	Name       string
	Display    *Display
	State      *State
	Geometries []Geometry
}

// SyncGeometries resizes Geometries to match the current Display
// geometry count, preserving existing entries by index (spec §3:
// "geometries... resized lazily").
func (p *Panel) SyncGeometries() {
	want := len(p.Display.Geometries)
	if len(p.Geometries) == want {
		return
	}
	resized := make([]Geometry, want)
	copy(resized, p.Geometries)
	for i := len(p.Geometries); i < want; i++ {
		resized[i] = Geometry{ID: nextGeometryID(), Rect: p.Display.Geometries[i]}
	}
	p.Geometries = resized
}

// GeometryIDs returns the stable IDs of every current geometry, used
// to release a displaced panel's per-window uniform buffers (spec
// §4.6).
func (p *Panel) GeometryIDs() []uint64 {
	ids := make([]uint64, len(p.Geometries))
	for i, g := range p.Geometries {
		ids[i] = g.ID
	}
	return ids
}
