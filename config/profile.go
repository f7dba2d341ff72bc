package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProfileDoc is the on-disk TOML shape of a profile: an ordered list of
// panel entries, each naming a panel document, the display it binds
// to, and the playlist(s) it draws from (spec §6, §4.6).
type ProfileDoc struct {
	Panels []ProfilePanelDoc `toml:"panel"`
}

// ProfilePanelDoc is one profile entry.
type ProfilePanelDoc struct {
	Name     string `toml:"name"`
	Panel    string `toml:"panel"`
	Display  string `toml:"display"`
	Playlist string `toml:"playlist"`
}

// LoadProfile reads the profile document named name from dir.
func LoadProfile(dir, name string) (ProfileDoc, error) {
	path := filepath.Join(dir, name+".toml")

	var doc ProfileDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return ProfileDoc{}, fmt.Errorf("config: loading profile %q: %w", path, err)
	}
	return doc, nil
}

// SaveProfile writes doc to dir/name.toml.
func SaveProfile(dir, name string, doc ProfileDoc) error {
	return writeTOML(filepath.Join(dir, name+".toml"), doc)
}
