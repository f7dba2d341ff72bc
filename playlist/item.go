// Package playlist implements the playlist data model and the
// per-panel playlist player: a random-order, replayable, editable
// stream of image paths with a bounded backlog that survives
// forward/backward stepping.
package playlist

// ItemKind distinguishes a single file entry from a directory entry
// that is expanded by walking the filesystem.
type ItemKind int

const (
	// KindFile references a single image file.
	KindFile ItemKind = iota
	// KindDirectory references a directory of images, optionally
	// walked recursively.
	KindDirectory
)

// Item is one entry of a playlist document. Directory entries are
// materialized into individual file paths when a Playlist is built;
// Enabled=false entries are parsed but skipped during that expansion.
type Item struct {
	Enabled   bool
	Kind      ItemKind
	Path      string
	Recursive bool // only meaningful when Kind == KindDirectory
}

// Playlist is an ordered list of items, as parsed from an on-disk TOML
// playlist document (see config.LoadPlaylist).
type Playlist struct {
	Name  string
	Items []Item
}
