// Package overlay implements the settings-overlay contract (spec §1,
// §5 "Egui Painter task"): a read/write view onto panel state, the
// playlist player, and shader selection, painted by an immediate-mode
// GUI each frame. The concrete widget layout is out of scope (spec §1
// names the overlay only as an external collaborator); this package
// is the adapter boundary a real settings window would be built on,
// grounded on noisetorch-NoiseTorch's nucular.MasterWindow usage.
package overlay

import (
	"fmt"
	"image"
	"time"

	"github.com/aarzilli/nucular"

	"github.com/mossvale/scrollwall/group"
	"github.com/mossvale/scrollwall/internal/metrics"
	"github.com/mossvale/scrollwall/panel"
)

// PanelSummary is the read-only projection of one panel's state shown
// in the overlay, including the frame-time and shuffle metrics
// supplemented from original_source/zsw/src/menu (SPEC_FULL.md §12).
type PanelSummary struct {
	Name                   string
	Paused                 bool
	Shader                 panel.ShaderVariant
	RemainingUntilShuffle  int
	CurrentPath            string
}

// Contract is the read/write surface the overlay paints against and
// mutates on user input (spec §1: "exposes read/write access to panel
// state, playlist player state, shader selection").
type Contract interface {
	// Summaries returns one PanelSummary per panel in the current
	// group, in group order. The implementation takes the group lock
	// itself, so callers must not already hold it.
	Summaries() []PanelSummary

	// SetPaused toggles pause on the named panel.
	SetPaused(panelName string, paused bool)

	// SetShader changes the named panel's shader variant.
	SetShader(panelName string, shader panel.ShaderVariant)

	// Skip forces the named panel to advance one image immediately.
	Skip(panelName string)

	// FrameTimes returns the rolling frame-time metrics for the
	// renderer driving the overlay's own surface.
	FrameTimes() *metrics.FrameTimes
}

// groupContract implements Contract against a live *group.Group.
type groupContract struct {
	g      *group.Group
	frames *metrics.FrameTimes
}

// NewContract builds the overlay's data contract over g, recording
// frame times into frames (shared with the surface's renderer loop).
func NewContract(g *group.Group, frames *metrics.FrameTimes) Contract {
	return &groupContract{g: g, frames: frames}
}

func (c *groupContract) Summaries() []PanelSummary {
	c.g.Lock()
	defer c.g.Unlock()

	panels := c.g.Panels()
	out := make([]PanelSummary, 0, len(panels))
	for _, p := range panels {
		s := PanelSummary{Name: p.Name}
		if p.State != nil && p.State.Kind == panel.StateFade {
			s.Paused = p.State.Paused
			s.Shader = p.State.Shader
			if p.State.Player != nil {
				s.RemainingUntilShuffle = p.State.Player.RemainingUntilShuffle()
				if path, ok := p.State.Player.Cur(); ok {
					s.CurrentPath = path
				}
			}
		}
		out = append(out, s)
	}
	return out
}

func (c *groupContract) SetPaused(panelName string, paused bool) {
	c.g.Lock()
	defer c.g.Unlock()
	if p := c.findLocked(panelName); p != nil && p.State != nil {
		p.State.Pause(paused)
	}
}

func (c *groupContract) SetShader(panelName string, shader panel.ShaderVariant) {
	c.g.Lock()
	defer c.g.Unlock()
	if p := c.findLocked(panelName); p != nil && p.State != nil && p.State.Kind == panel.StateFade {
		p.State.Shader = shader
	}
}

func (c *groupContract) Skip(panelName string) {
	c.g.Lock()
	defer c.g.Unlock()
	if p := c.findLocked(panelName); p != nil && p.State != nil {
		p.State.Skip()
	}
}

func (c *groupContract) FrameTimes() *metrics.FrameTimes {
	return c.frames
}

func (c *groupContract) findLocked(name string) *panel.Panel {
	for _, p := range c.g.Panels() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Adapter wraps a nucular.MasterWindow and paints Contract's state
// each frame, translating widget interaction back into Contract
// mutations.
type Adapter struct {
	contract Contract
	window   nucular.MasterWindow
}

// NewAdapter creates a settings window bound to contract. The window
// is shown once Run starts its event loop; OpenAt only requests a
// repaint and does not move the window to the cursor.
func NewAdapter(contract Contract) *Adapter {
	a := &Adapter{contract: contract}
	a.window = nucular.NewMasterWindowSize(nucular.WindowNoScrollbar, "scrollwall settings", image.Point{X: 420, Y: 320}, a.paint)
	return a
}

// Run starts the overlay's blocking event loop; call it from the
// dedicated Overlay Painter task (spec §5).
func (a *Adapter) Run() {
	a.window.Main()
}

// OpenAt requests a repaint of the overlay window. x and y are not
// used: the window is not positioned at the given point.
func (a *Adapter) OpenAt(x, y int) {
	a.window.Changed()
}

// Close requests the overlay stop painting.
func (a *Adapter) Close() {
	a.window.Close()
}

func (a *Adapter) paint(w *nucular.Window) {
	summaries := a.contract.Summaries()
	ft := a.contract.FrameTimes()

	w.Row(20).Dynamic(1)
	if ft != nil && ft.Len() > 0 {
		w.Label(fmt.Sprintf("frame avg %v max %v", ft.Average().Round(time.Millisecond), ft.Max().Round(time.Millisecond)), "LC")
	}

	for _, s := range summaries {
		w.Row(20).Dynamic(1)
		w.Label(fmt.Sprintf("%s: %s (remaining %d)", s.Name, s.CurrentPath, s.RemainingUntilShuffle), "LC")

		w.Row(20).Dynamic(2)
		pauseLabel := "pause"
		if s.Paused {
			pauseLabel = "resume"
		}
		if w.ButtonText(pauseLabel) {
			a.contract.SetPaused(s.Name, !s.Paused)
		}
		if w.ButtonText("skip") {
			a.contract.Skip(s.Name)
		}
	}
}
