// Package app wires the engine's four long-lived tasks (spec §5):
// the Updater, one Renderer per surface, the Overlay Painter, and the
// one-shot default-profile loader. The Updater and the Renderers are
// coordinated through a meet-up barrier.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mossvale/scrollwall/group"
	"github.com/mossvale/scrollwall/internal/metrics"
	"github.com/mossvale/scrollwall/overlay"
	"github.com/mossvale/scrollwall/renderer"
	"github.com/mossvale/scrollwall/rect"
	"github.com/mossvale/scrollwall/syncutil"
	"github.com/mossvale/scrollwall/window"
)

// OverlayPrimitive is the element type of the engine's overlay
// rendezvous channel. No task sends on or receives from that channel:
// RunOverlayPainter does not produce primitives and RunRenderer does
// not composite any.
type OverlayPrimitive = any

// Engine owns the panels group, the resolved renderer per surface, and
// the coordination primitives tying every task together.
type Engine struct {
	Group    *group.Group
	Resolver *group.Resolver
	Logger   *slog.Logger

	DecodeMaxDimension int

	master *syncutil.MasterBarrier
	slots  []*syncutil.InactiveSlaveBarrier

	overlayFeed syncutil.Meetup[OverlayPrimitive]

	renderers []group.GeometryReleaser
}

// NewEngine creates an engine ready to have surfaces attached via
// AttachSurface before Run is called. surfaceCount bounds how many
// slave barrier slots are pre-allocated (spec §5: "A newly-added
// surface re-registers its slave").
func NewEngine(g *group.Group, resolver *group.Resolver, surfaceCount int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	master, slots := syncutil.NewBarrier(surfaceCount)
	return &Engine{
		Group:              g,
		Resolver:           resolver,
		Logger:             logger,
		DecodeMaxDimension: 4096,
		master:             master,
		slots:              slots,
		overlayFeed:        syncutil.NewMeetup[OverlayPrimitive](),
	}
}

// SurfaceRunner binds one window.Surface to a renderer and a slave
// barrier slot.
type SurfaceRunner struct {
	surface    window.Surface
	renderer   *renderer.Renderer
	slave      *syncutil.SlaveBarrier
	frames     *metrics.FrameTimes
	windowRect rect.Rect
	msaa       uint32

	cursorMu         sync.Mutex
	cursorX, cursorY float64
}

// AttachSurface claims one of the engine's pre-allocated slave slots
// for a new surface, binding it to r (the shared renderer for the
// device that owns this surface — the renderer's shared buffers and
// pipeline cache are reused across every surface on that device).
func (e *Engine) AttachSurface(surface window.Surface, r *renderer.Renderer, windowRect rect.Rect, msaa uint32) (*SurfaceRunner, error) {
	if len(e.slots) == 0 {
		return nil, fmt.Errorf("app: no free slave barrier slots for surface %d", surface.ID())
	}
	slot := e.slots[0]
	e.slots = e.slots[1:]
	e.renderers = append(e.renderers, r)

	return &SurfaceRunner{
		surface:    surface,
		renderer:   r,
		slave:      slot.Activate(),
		frames:     metrics.NewFrameTimes(120),
		windowRect: windowRect,
		msaa:       msaa,
	}, nil
}

// FrameTimes exposes the runner's rolling frame-time metrics, shared
// with the overlay contract (SPEC_FULL.md §12).
func (sr *SurfaceRunner) FrameTimes() *metrics.FrameTimes {
	return sr.frames
}

// SetCursor records the cursor's current surface-relative position,
// fed to the renderer each frame as the parallax cursor (spec §4.4.3).
// Safe to call from the input-handling goroutine while the renderer
// goroutine reads it via Cursor.
func (sr *SurfaceRunner) SetCursor(x, y float64) {
	sr.cursorMu.Lock()
	sr.cursorX, sr.cursorY = x, y
	sr.cursorMu.Unlock()
}

// Cursor returns the last position recorded by SetCursor.
func (sr *SurfaceRunner) Cursor() (float64, float64) {
	sr.cursorMu.Lock()
	defer sr.cursorMu.Unlock()
	return sr.cursorX, sr.cursorY
}

// ID returns the underlying surface's identifier, used to key
// per-window uniform buffers (spec.md:76) and to route cursor events.
func (sr *SurfaceRunner) ID() uint64 {
	return sr.surface.ID()
}

// Release detaches the runner from the barrier, e.g. when its surface
// is closed (spec §5: "a removed surface drops it, decrementing the
// count").
func (sr *SurfaceRunner) Release() {
	sr.slave.Release()
}

// RunUpdater is the Updater task (spec §5 item 1): locks the group,
// ticks every panel's state machine and polls/schedules image loads,
// releases the lock, then meets up with every active renderer.
func (e *Engine) RunUpdater(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e.Group.Lock()
		for _, p := range e.Group.Panels() {
			if p.State == nil {
				continue
			}
			p.State.Tick()
			if p.State.Images != nil {
				p.State.Images.LoadMissing(p.State.Player, e.DecodeMaxDimension)
			}
		}
		e.Group.Unlock()

		e.master.MeetupAll()
	}
}

// RunRenderer is one surface's Renderer task (spec §5 item 2):
// acquires a frame, renders the group under the group lock, presents,
// and meets up with the updater.
func (sr *SurfaceRunner) RunRenderer(ctx context.Context, g *group.Group) error {
	gpuSurface := sr.surface.GPUSurface()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()

		target, err := gpuSurface.AcquireFrame()
		if err != nil {
			return fmt.Errorf("app: acquiring frame for surface %d: %w", sr.surface.ID(), err)
		}

		g.Lock()
		w, h := sr.surface.PhysicalSize()
		cursorX, cursorY := sr.Cursor()
		err = sr.renderer.Render(target, g.Panels(), sr.ID(), w, h, sr.windowRect, sr.msaa, cursorX, cursorY)
		g.Unlock()
		if err != nil {
			return fmt.Errorf("app: rendering surface %d: %w", sr.surface.ID(), err)
		}

		if sr.frames != nil {
			sr.frames.Record(time.Since(start))
		}

		sr.slave.Meetup()
	}
}

// RunOverlayPainter is the Overlay Painter task (spec §5 item 3): it
// runs the adapter's immediate-mode settings window, which reads and
// mutates panel state, until the window closes or ctx is cancelled.
// The window paints itself; no clipped primitives are handed to a
// surface's renderer.
func (e *Engine) RunOverlayPainter(ctx context.Context, adapter *overlay.Adapter) error {
	done := make(chan struct{})
	go func() {
		adapter.Run()
		close(done)
	}()

	select {
	case <-ctx.Done():
		adapter.Close()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

// RunDefaultProfileLoader is the one-shot Default-profile Loader task
// (spec §5 item 4): resolves the named profile against the given
// displays and installs it into the group, releasing whatever panels
// it displaced.
func (e *Engine) RunDefaultProfileLoader(profileName string, displays group.Displays) error {
	panels, err := e.Resolver.LoadProfile(profileName, displays)
	if err != nil {
		return fmt.Errorf("app: loading default profile %q: %w", profileName, err)
	}
	old := e.Group.Apply(panels)
	group.Release(old, e.renderers, e.Logger)
	return nil
}

// Run starts the updater and default-profile loader under an
// errgroup, returning once any task errors or ctx is cancelled.
// Surface renderer tasks are started separately via SurfaceRunner.RunRenderer
// since surfaces are attached dynamically (spec §5: "A newly-added
// surface re-registers its slave").
func Run(ctx context.Context, e *Engine, profileName string, displays group.Displays) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.RunDefaultProfileLoader(profileName, displays)
	})
	g.Go(func() error {
		return e.RunUpdater(ctx)
	})

	return g.Wait()
}
