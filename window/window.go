// Package window defines the contract the engine expects from its
// window/event-loop collaborator (spec §1: "The window/event-loop
// layer (provides a surface handle, physical size, cursor position,
// and resize events)" and §6: "the engine receives a window handle
// plus its current physical size and scale factor; it registers for
// Resized, CursorMoved, and mouse-button events"). This package holds
// only the interface and event types; a concrete windowing toolkit
// binding lives outside this module.
package window

import "github.com/mossvale/scrollwall/gpu"

// Surface is a single OS window's presentable surface, as seen by the
// engine.
type Surface interface {
	// ID uniquely identifies this surface for the lifetime of the
	// process (used to key per-window uniform buffers, spec §3
	// "PanelGeometry").
	ID() uint64

	// PhysicalSize returns the surface's current pixel dimensions.
	PhysicalSize() (width, height uint32)

	// ScaleFactor returns the display scale factor (DPI scaling).
	ScaleFactor() float64

	// GPUSurface exposes the underlying presentable GPU surface.
	GPUSurface() gpu.Surface
}

// EventKind discriminates the input/lifecycle events the engine
// consumes per spec §6's "key/mouse input contract".
type EventKind int

const (
	// EventResized reports a physical size change for a surface.
	EventResized EventKind = iota
	// EventCursorMoved reports the cursor's current surface-relative
	// position.
	EventCursorMoved
	// EventMouseButton reports a button press or release.
	EventMouseButton
	// EventMouseWheel reports a scroll delta.
	EventMouseWheel
	// EventCloseRequested reports the surface's close button/shortcut.
	EventCloseRequested
)

// MouseButton identifies which physical button an EventMouseButton
// carries.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Event is one input or lifecycle notification for a surface.
type Event struct {
	Kind     EventKind
	Surface  uint64
	Width    uint32 // EventResized
	Height   uint32 // EventResized
	X, Y     float64 // EventCursorMoved
	Button   MouseButton // EventMouseButton
	Pressed  bool        // EventMouseButton
	DoubleClick bool     // EventMouseButton: a second press within the double-click interval
	ModCtrl  bool        // EventMouseButton
	WheelDY  float64     // EventMouseWheel
}

// EventSource delivers Events from the host windowing toolkit. Next
// blocks until an event is available or the source is closed, in
// which case ok is false.
type EventSource interface {
	Next() (Event, bool)
}
