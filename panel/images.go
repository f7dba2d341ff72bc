// Package panel implements the per-region image lifecycle: the
// three-slot (prev/cur/next) GPU texture ring (spec §4.3), the fade
// progress state machine (spec §4.4), and the per-geometry UV
// transform (spec §4.4.3).
package panel

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mossvale/scrollwall/gpu"
	"github.com/mossvale/scrollwall/imgload"
	"github.com/mossvale/scrollwall/playlist"
)

// ErrSlotEmpty is returned by StepNext/StepPrev when the target slot
// has no image loaded yet.
var ErrSlotEmpty = errors.New("panel: target slot is empty")

// Slot identifies one of the three positions in a panel's image ring.
type Slot int

const (
	SlotPrev Slot = iota
	SlotCur
	SlotNext
)

// Image is one ring slot: either empty, or a loaded GPU texture plus
// its randomized swap direction.
type Image struct {
	Loaded   bool
	Path     string
	Texture  gpu.TextureID
	View     gpu.TextureViewID
	Width    uint32
	Height   uint32
	SwapDir  bool
	queuePos int // captured playlist_pos at load time; internal use only
}

// loadResult is the outcome of one background decode, carrying the
// relative playlist position it was requested for (-1 prev, 0 cur,
// 1 next). applyLoaded matches the result back to a slot by path, not
// by this position, since the playlist may have moved while decoding.
type loadResult struct {
	path         string
	playlistPos  int
	image        *imgload.Image
	err          error
}

// Images is the three-slot prev/cur/next ring described in spec §4.3:
// a texture sampler shared across slots, one bind group regenerated
// whenever any slot's view changes, and a single in-flight decode task
// per ring, enforced by hasPending (schedule only fires when no decode
// is outstanding).
type Images struct {
	device  gpu.Device
	logger  *slog.Logger
	sampler gpu.SamplerID
	layout  gpu.BindGroupLayoutID

	Prev, Cur, Next Image

	bindGroup   gpu.BindGroupID
	bindGroupOK bool
	rng         *rand.Rand
	pending     chan loadResult
	hasPending  bool
	pendingPath string
	pendingPos  int
}

// NewImages creates an empty ring bound to layout (a bind group layout
// with three texture-view bindings plus one sampler binding).
func NewImages(device gpu.Device, layout gpu.BindGroupLayoutID, logger *slog.Logger) (*Images, error) {
	sampler, err := device.CreateSampler()
	if err != nil {
		return nil, fmt.Errorf("panel: creating sampler: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Images{
		device:  device,
		logger:  logger,
		sampler: sampler,
		layout:  layout,
		rng:     rand.New(rand.NewSource(0)),
		pending: make(chan loadResult, 1),
	}, nil
}

// IsEmpty reports whether all three slots are empty.
func (im *Images) IsEmpty() bool {
	return !im.Prev.Loaded && !im.Cur.Loaded && !im.Next.Loaded
}

// StepNext shifts prev←cur, cur←next, next←Empty. Fails with
// ErrSlotEmpty if next has no image loaded.
func (im *Images) StepNext() error {
	if !im.Next.Loaded {
		return ErrSlotEmpty
	}
	im.destroySlot(&im.Prev)
	im.Prev = im.Cur
	im.Cur = im.Next
	im.Next = Image{}
	im.invalidateBindGroup()
	return nil
}

// StepPrev shifts next←cur, cur←prev, prev←Empty. Fails with
// ErrSlotEmpty if prev has no image loaded.
func (im *Images) StepPrev() error {
	if !im.Prev.Loaded {
		return ErrSlotEmpty
	}
	im.destroySlot(&im.Next)
	im.Next = im.Cur
	im.Cur = im.Prev
	im.Prev = Image{}
	im.invalidateBindGroup()
	return nil
}

func (im *Images) destroySlot(slot *Image) {
	if slot.Loaded {
		im.device.DestroyTexture(slot.Texture)
	}
}

func (im *Images) invalidateBindGroup() {
	im.bindGroupOK = false
}

// LoadMissing polls the in-flight decode (if any), reconciles its
// result against the player's current prev/cur/next positions, and
// schedules a new load for the first empty slot in priority order
// (cur, next, prev) if nothing is in-flight. maxDimension bounds the
// decoded image size (spec §4.2).
func (im *Images) LoadMissing(player *playlist.Player, maxDimension int) {
	im.pollPending(player)

	if im.hasPending {
		return
	}

	if slot, path, pos, ok := im.firstEmptySlotTarget(player); ok {
		im.schedule(slot, path, pos, maxDimension)
	}
}

// firstEmptySlotTarget returns which slot to fill next, in the
// priority order cur, next, prev, and the path/position the player
// currently reports for it.
func (im *Images) firstEmptySlotTarget(player *playlist.Player) (Slot, string, int, bool) {
	if !im.Cur.Loaded {
		if path, ok := player.Cur(); ok {
			return SlotCur, path, 0, true
		}
	}
	if !im.Next.Loaded {
		if path, ok := player.Next(); ok {
			return SlotNext, path, 1, true
		}
	}
	if !im.Prev.Loaded {
		if path, ok := player.Prev(); ok {
			return SlotPrev, path, -1, true
		}
	}
	return 0, "", 0, false
}

func (im *Images) schedule(slot Slot, path string, relPos int, maxDimension int) {
	im.hasPending = true
	im.pendingPath = path
	im.pendingPos = relPos

	go func() {
		img, err := imgload.Load(path, maxDimension)
		im.pending <- loadResult{path: path, playlistPos: relPos, image: img, err: err}
	}()
}

// pollPending drains a completed decode, if any, without blocking.
func (im *Images) pollPending(player *playlist.Player) {
	if !im.hasPending {
		return
	}

	select {
	case res := <-im.pending:
		im.hasPending = false

		if res.err != nil || res.image == nil {
			im.logger.Warn("panel: image load failed, removing from playlist", "path", res.path, "err", res.err)
			player.Remove(res.path)
			return
		}

		im.applyLoaded(res, player)
	default:
	}
}

// applyLoaded determines which slot the loaded image belongs in by
// re-checking the player's current prev/cur/next paths against the
// loaded path (spec §4.3 step 2) — the captured relative position is
// only a hint; the playlist may have moved while decoding.
func (im *Images) applyLoaded(res loadResult, player *playlist.Player) {
	curPath, curOK := player.Cur()
	nextPath, nextOK := player.Next()
	prevPath, prevOK := player.Prev()

	switch {
	case curOK && curPath == res.path && !im.Cur.Loaded:
		im.setSlot(&im.Cur, res)
	case nextOK && nextPath == res.path && !im.Next.Loaded:
		im.setSlot(&im.Next, res)
	case prevOK && prevPath == res.path && !im.Prev.Loaded:
		im.setSlot(&im.Prev, res)
	default:
		im.logger.Debug("panel: discarding stale image load", "path", res.path)
	}
}

func (im *Images) setSlot(slot *Image, res loadResult) {
	tex, err := im.device.CreateTexture(gpu.TextureDescriptor{
		Label:  res.path,
		Width:  uint32(res.image.Width()),
		Height: uint32(res.image.Height()),
		Format: gpu.TextureFormatRGBA8UnormSRGB,
	}, res.image.Pixels.Pix)
	if err != nil {
		im.logger.Warn("panel: failed to upload texture", "path", res.path, "err", err)
		return
	}
	view, err := im.device.CreateTextureView(tex)
	if err != nil {
		im.logger.Warn("panel: failed to create texture view", "path", res.path, "err", err)
		im.device.DestroyTexture(tex)
		return
	}

	*slot = Image{
		Loaded:   true,
		Path:     res.path,
		Texture:  tex,
		View:     view,
		Width:    uint32(res.image.Width()),
		Height:   uint32(res.image.Height()),
		SwapDir:  im.rng.Intn(2) == 1,
		queuePos: res.playlistPos,
	}
	im.invalidateBindGroup()
}

// BindGroup returns the ring's bind group, regenerating it if any slot
// view changed since the last call (spec §4.3: "regenerated exactly
// when any of the three views changes").
func (im *Images) BindGroup() (gpu.BindGroupID, error) {
	if im.bindGroupOK {
		return im.bindGroup, nil
	}

	entries := []gpu.BindGroupEntry{
		{Binding: 0, Kind: gpu.BindingTextureView, Texture: im.Prev.View},
		{Binding: 1, Kind: gpu.BindingTextureView, Texture: im.Cur.View},
		{Binding: 2, Kind: gpu.BindingTextureView, Texture: im.Next.View},
		{Binding: 3, Kind: gpu.BindingSampler, Sampler: im.sampler},
	}

	group, err := im.device.CreateBindGroup(im.layout, entries)
	if err != nil {
		return 0, fmt.Errorf("panel: creating bind group: %w", err)
	}
	im.bindGroup = group
	im.bindGroupOK = true
	return group, nil
}

// PendingCount reports 0 or 1 in-flight decodes, for the "single
// in-flight" testable property (spec §8).
func (im *Images) PendingCount() int {
	if im.hasPending {
		return 1
	}
	return 0
}

// Destroy releases every GPU texture still held by the ring. Called
// when a panel is displaced by a profile swap (spec §4.6: "Previously-
// owned textures and tasks are dropped at the end of the current
// frame."). A decode still in flight is allowed to finish and is
// discarded by the garbage-collector once its result channel has no
// reader; Images itself is not reused afterward.
func (im *Images) Destroy() {
	im.destroySlot(&im.Prev)
	im.destroySlot(&im.Cur)
	im.destroySlot(&im.Next)
	im.Prev = Image{}
	im.Cur = Image{}
	im.Next = Image{}
	im.invalidateBindGroup()
}
