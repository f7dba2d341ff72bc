// Package group implements the Panels Group (spec §4.6): the ordered
// collection of panels, profile application, and the lazily-loaded,
// process-lifetime-cached Playlists manager.
package group

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mossvale/scrollwall/config"
	"github.com/mossvale/scrollwall/playlist"
)

// Playlists lazily loads and caches named playlist documents for the
// process lifetime (spec §6: "Loaded lazily by name, cached for the
// process lifetime").
type Playlists struct {
	dir string

	mu    sync.Mutex
	cache map[string]playlist.Playlist
}

// NewPlaylists creates a manager that resolves playlist names to files
// under dir.
func NewPlaylists(dir string) *Playlists {
	return &Playlists{dir: dir, cache: make(map[string]playlist.Playlist)}
}

// Get returns the named playlist, loading and caching it on first
// access. Per spec §9's open question, each call that builds a new
// Player from this Playlist gets an independent random sequence — the
// Playlist value itself is shared and read-only once loaded.
func (p *Playlists) Get(name string) (playlist.Playlist, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pl, ok := p.cache[name]; ok {
		return pl, nil
	}

	pl, err := config.LoadPlaylist(p.dir, name)
	if err != nil {
		return playlist.Playlist{}, fmt.Errorf("group: loading playlist %q: %w", name, err)
	}
	p.cache[name] = pl
	return pl, nil
}

// NewPlayer builds a fresh, independent Player for name.
func (p *Playlists) NewPlayer(name string, maxOldItems int, logger *slog.Logger) (*playlist.Player, error) {
	pl, err := p.Get(name)
	if err != nil {
		return nil, err
	}
	return playlist.New(pl, maxOldItems, logger), nil
}
