package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mossvale/scrollwall/playlist"
)

// playlistDoc is the on-disk TOML shape of a playlist document (spec
// §6: "one playlist file listing enabled/disabled directory or file
// entries").
type playlistDoc struct {
	Items []playlistItemDoc `toml:"items"`
}

type playlistItemDoc struct {
	Enabled   bool   `toml:"enabled"`
	Type      string `toml:"type"` // "file" or "directory"
	Path      string `toml:"path"`
	Recursive bool   `toml:"recursive"`
}

// LoadPlaylist reads the playlist document named name from dir (the
// file is expected at dir/name.toml).
func LoadPlaylist(dir, name string) (playlist.Playlist, error) {
	path := filepath.Join(dir, name+".toml")

	var doc playlistDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return playlist.Playlist{}, fmt.Errorf("config: loading playlist %q: %w", path, err)
	}

	items := make([]playlist.Item, 0, len(doc.Items))
	for _, it := range doc.Items {
		kind := playlist.KindFile
		if it.Type == "directory" {
			kind = playlist.KindDirectory
		}
		items = append(items, playlist.Item{
			Enabled:   it.Enabled,
			Kind:      kind,
			Path:      it.Path,
			Recursive: it.Recursive,
		})
	}

	return playlist.Playlist{Name: name, Items: items}, nil
}

// SavePlaylist writes pl to dir/pl.Name.toml.
func SavePlaylist(dir string, pl playlist.Playlist) error {
	doc := playlistDoc{Items: make([]playlistItemDoc, 0, len(pl.Items))}
	for _, it := range pl.Items {
		typeName := "file"
		if it.Kind == playlist.KindDirectory {
			typeName = "directory"
		}
		doc.Items = append(doc.Items, playlistItemDoc{
			Enabled:   it.Enabled,
			Type:      typeName,
			Path:      it.Path,
			Recursive: it.Recursive,
		})
	}

	path := filepath.Join(dir, pl.Name+".toml")
	return writeTOML(path, doc)
}
