package group

import (
	"log/slog"
	"sync"

	"github.com/mossvale/scrollwall/panel"
)

// Group is a Vec of panels, guarded by a single async mutex per spec
// §5 ("The panels group is the central mutable state; guarded by a
// single async mutex"). It owns iteration order and applies profiles.
type Group struct {
	mu     sync.Mutex
	panels []*panel.Panel
}

// New creates an empty group.
func New() *Group {
	return &Group{}
}

// Lock acquires the group's mutex; callers must always call Unlock.
// Lock order is panels-group -> pipeline-cache, with no further locks
// held across an awaited I/O operation (spec §5).
func (g *Group) Lock() {
	g.mu.Lock()
}

// Unlock releases the group's mutex.
func (g *Group) Unlock() {
	g.mu.Unlock()
}

// Panels returns the live slice of panels. Callers must hold Lock.
func (g *Group) Panels() []*panel.Panel {
	return g.panels
}

// Apply replaces the group's panels atomically (spec §4.6 step 3).
// Previously-owned panels are returned so the caller can release their
// GPU resources at the end of the current frame (spec §4.6: "Replace
// the panels group's vector atomically. Previously-owned textures and
// tasks are dropped at the end of the current frame.").
func (g *Group) Apply(newPanels []*panel.Panel) []*panel.Panel {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.panels
	g.panels = newPanels
	return old
}

// GeometryReleaser is implemented by a renderer: it destroys the
// per-window uniform buffers it holds for a geometry ID once that
// geometry's panel has been displaced (spec §4.6, spec.md:76).
type GeometryReleaser interface {
	ReleaseGeometry(geomID uint64)
}

// Release destroys the GPU resources owned by a displaced panel set —
// each panel's image ring, plus its geometries' uniform buffers on
// every renderer that might hold one — called by the caller of Apply
// once it is safe to do so (end of frame, per spec §4.6).
func Release(panels []*panel.Panel, renderers []GeometryReleaser, logger *slog.Logger) {
	for _, p := range panels {
		if logger != nil {
			logger.Debug("group: releasing displaced panel", "panel", p.Name)
		}
		for _, geomID := range p.GeometryIDs() {
			for _, r := range renderers {
				r.ReleaseGeometry(geomID)
			}
		}
		if p.State == nil || p.State.Kind != panel.StateFade || p.State.Images == nil {
			continue
		}
		p.State.Images.Destroy()
	}
}
