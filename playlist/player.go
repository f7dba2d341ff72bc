package playlist

import (
	"errors"
	"io/fs"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"
)

// ErrAtStart is returned by Player.StepPrev when the player is already
// at the first position in its deck.
var ErrAtStart = errors.New("playlist: already at first item")

// Player is a per-panel playlist player. It owns the unique set of
// source paths (allItems) and a shuffled deck (curItems) with a cursor
// (curPos) into it; curPos may be stepped forward or backward, and the
// deck is refilled with a fresh shuffle as it's exhausted ahead of the
// cursor while retaining a bounded amount of history behind it.
//
// A Player is not safe for concurrent use; callers serialize access to
// a panel's Player under the panels group lock (see spec §5).
type Player struct {
	allItems    map[string]struct{}
	curItems    []string
	curPos      int
	maxOldItems int
	rng         *rand.Rand
}

// New builds a player from a playlist: directory entries are walked
// (max_depth=0 when non-recursive, unlimited when recursive, following
// symlinks, skipping unreadable entries with a logged warning) and file
// entries are added as-is. Disabled entries are skipped. The returned
// player starts with an empty deck.
func New(pl Playlist, maxOldItems int, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Player{
		allItems:    make(map[string]struct{}),
		maxOldItems: maxOldItems,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, item := range pl.Items {
		if !item.Enabled {
			continue
		}
		switch item.Kind {
		case KindFile:
			abs, err := filepath.Abs(item.Path)
			if err != nil {
				logger.Warn("playlist: cannot canonicalize file path", "path", item.Path, "err", err)
				continue
			}
			p.allItems[abs] = struct{}{}
		case KindDirectory:
			p.walkDirectory(item, logger)
		}
	}

	return p
}

// NewSeeded is New with an explicit RNG seed, used by tests that need a
// deterministic shuffle order.
func NewSeeded(pl Playlist, maxOldItems int, seed int64, logger *slog.Logger) *Player {
	p := New(pl, maxOldItems, logger)
	p.rng = rand.New(rand.NewSource(seed))
	return p
}

func (p *Player) walkDirectory(item Item, logger *slog.Logger) {
	root := item.Path
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("playlist: skipping unreadable directory entry", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			if path != root && !item.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			logger.Warn("playlist: cannot canonicalize file path", "path", path, "err", err)
			return nil
		}
		p.allItems[abs] = struct{}{}
		return nil
	})
	if err != nil {
		logger.Warn("playlist: directory walk failed", "path", root, "err", err)
	}
}

// AllItems returns the set of all known paths, in unspecified order.
func (p *Player) AllItems() []string {
	items := make([]string, 0, len(p.allItems))
	for path := range p.allItems {
		items = append(items, path)
	}
	return items
}

// RemainingUntilShuffle returns the number of deck entries at or ahead
// of the cursor before a refill is triggered.
func (p *Player) RemainingUntilShuffle() int {
	return len(p.curItems) - p.curPos
}

// refill appends a freshly shuffled copy of allItems after curPos, then
// drops history further back than maxOldItems entries before curPos.
// No-op when allItems is empty.
func (p *Player) refill() {
	if len(p.allItems) == 0 {
		return
	}

	fresh := make([]string, 0, len(p.allItems))
	for path := range p.allItems {
		fresh = append(fresh, path)
	}
	p.rng.Shuffle(len(fresh), func(i, j int) { fresh[i], fresh[j] = fresh[j], fresh[i] })

	p.curItems = append(p.curItems[:len(p.curItems):len(p.curItems)], fresh...)

	if trim := p.curPos - p.maxOldItems; trim > 0 {
		p.curItems = p.curItems[trim:]
		p.curPos -= trim
	}
}

// StepNext advances the cursor by one. If fewer than 2 deck entries
// remain at or ahead of the cursor after advancing, a refill is
// triggered.
func (p *Player) StepNext() {
	p.curPos++
	if p.curPos >= len(p.curItems) {
		p.refill()
	}
	if len(p.curItems)-p.curPos < 2 {
		p.refill()
	}
}

// StepPrev decrements the cursor, failing with ErrAtStart when already
// at position 0.
func (p *Player) StepPrev() error {
	if p.curPos == 0 {
		return ErrAtStart
	}
	p.curPos--
	return nil
}

// at returns the path at curPos+offset, refilling if that position
// isn't materialized yet.
func (p *Player) at(offset int) (string, bool) {
	idx := p.curPos + offset
	for idx >= len(p.curItems) {
		before := len(p.curItems)
		p.refill()
		if len(p.curItems) == before {
			return "", false
		}
	}
	if idx < 0 || idx >= len(p.curItems) {
		return "", false
	}
	return p.curItems[idx], true
}

// Prev returns the path one position behind the cursor, if any.
func (p *Player) Prev() (string, bool) {
	if p.curPos == 0 {
		return "", false
	}
	return p.at(-1)
}

// Cur returns the path at the cursor, implicitly refilling the deck if
// needed.
func (p *Player) Cur() (string, bool) {
	return p.at(0)
}

// Next returns the path one position ahead of the cursor, implicitly
// refilling the deck if needed.
func (p *Player) Next() (string, bool) {
	return p.at(1)
}

// Remove deletes every occurrence of path from both the item set and
// the deck. If any removed deck entry was before the cursor, the
// cursor is decremented by that count so the currently-visible entry
// is preserved.
func (p *Player) Remove(path string) {
	delete(p.allItems, path)

	removedBeforeCursor := 0
	filtered := p.curItems[:0:0]
	for i, item := range p.curItems {
		if item == path {
			if i < p.curPos {
				removedBeforeCursor++
			}
			continue
		}
		filtered = append(filtered, item)
	}
	p.curItems = filtered
	p.curPos -= removedBeforeCursor
	if p.curPos < 0 {
		p.curPos = 0
	}
}
