package app

import (
	"github.com/mossvale/scrollwall/group"
	"github.com/mossvale/scrollwall/overlay"
	"github.com/mossvale/scrollwall/panel"
	"github.com/mossvale/scrollwall/window"
)

// defaultWheelStepDivisor configures the mouse-wheel-to-frame-step
// ratio (SPEC_FULL.md §1 Open Question resolution: "step = duration /
// wheel_step_divisor * (-delta), rounding toward zero").
const defaultWheelStepDivisor = 1000

// InputRouter translates window.Events into panel state mutations and
// overlay visibility changes, implementing spec §6's "key/mouse input
// contract".
type InputRouter struct {
	Group            *group.Group
	Adapter          *overlay.Adapter
	WheelStepDivisor int64

	// Surfaces maps a surface ID to the runner tracking its cursor
	// position, so EventCursorMoved can feed the parallax transform
	// (spec §4.4.3) without the renderer needing its own input path.
	Surfaces map[uint64]*SurfaceRunner
}

// NewInputRouter builds a router over g, optionally opening adapter on
// right-click.
func NewInputRouter(g *group.Group, adapter *overlay.Adapter) *InputRouter {
	return &InputRouter{
		Group:            g,
		Adapter:          adapter,
		WheelStepDivisor: defaultWheelStepDivisor,
		Surfaces:         make(map[uint64]*SurfaceRunner),
	}
}

// Handle dispatches one window event.
func (ir *InputRouter) Handle(ev window.Event) {
	switch ev.Kind {
	case window.EventCursorMoved:
		if sr, ok := ir.Surfaces[ev.Surface]; ok {
			sr.SetCursor(ev.X, ev.Y)
		}
	case window.EventMouseButton:
		ir.handleMouseButton(ev)
	case window.EventMouseWheel:
		ir.handleWheel(ev)
	}
}

func (ir *InputRouter) handleMouseButton(ev window.Event) {
	if !ev.Pressed {
		return
	}

	if ev.Button == window.MouseButtonRight {
		if ir.Adapter != nil {
			ir.Adapter.OpenAt(int(ev.X), int(ev.Y))
		}
		return
	}

	ir.Group.Lock()
	defer ir.Group.Unlock()
	p := findPanelAtLocked(ir.Group, ev.X, ev.Y)
	if p == nil || p.State == nil {
		return
	}

	switch {
	case ev.Button == window.MouseButtonLeft && ev.DoubleClick:
		p.State.Pause(!p.State.Paused)
	case ev.Button == window.MouseButtonMiddle, ev.Button == window.MouseButtonLeft && ev.ModCtrl:
		p.State.Skip()
	}
}

func (ir *InputRouter) handleWheel(ev window.Event) {
	ir.Group.Lock()
	defer ir.Group.Unlock()
	p := findPanelAtLocked(ir.Group, ev.X, ev.Y)
	if p == nil || p.State == nil || p.State.Kind != panel.StateFade {
		return
	}

	divisor := ir.WheelStepDivisor
	if divisor <= 0 {
		divisor = defaultWheelStepDivisor
	}
	frames := (p.State.Duration / divisor) * int64(-ev.WheelDY)
	p.State.Step(frames)
}

// findPanelAtLocked returns the first panel (in group iteration order)
// whose current geometry contains (x, y). Callers must hold g's lock.
func findPanelAtLocked(g *group.Group, x, y float64) *panel.Panel {
	px, py := int32(x), int32(y)
	for _, p := range g.Panels() {
		for _, geom := range p.Geometries {
			if geom.Rect.Contains(px, py) {
				return p
			}
		}
	}
	return nil
}
