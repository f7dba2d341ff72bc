package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// PanelDoc is the on-disk TOML shape of a single panel file (spec §6:
// "one panel file per panel"): geometry plus fade timing and shader
// choice. Display/playlist wiring is resolved by the caller (profile
// application), since the same panel document can be reused against
// different displays.
type PanelDoc struct {
	Shader          string     `toml:"shader"`
	DurationFrames  int64      `toml:"duration_frames"`
	FadeFrames      int64      `toml:"fade_frames"`
	BackgroundColor [4]float32 `toml:"background_color"`
	FadeStrength    float64    `toml:"fade_strength"`

	ParallaxEnabled bool    `toml:"parallax_enabled"`
	ParallaxRatio   float64 `toml:"parallax_ratio"`
	ParallaxExp     float64 `toml:"parallax_exp"`
	ParallaxReverse bool    `toml:"parallax_reverse"`
}

// LoadPanel reads the panel document named name from dir (the file is
// expected at dir/name.toml).
func LoadPanel(dir, name string) (PanelDoc, error) {
	path := filepath.Join(dir, name+".toml")

	var doc PanelDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return PanelDoc{}, fmt.Errorf("config: loading panel %q: %w", path, err)
	}
	return doc, nil
}

// SavePanel writes doc to dir/name.toml.
func SavePanel(dir, name string, doc PanelDoc) error {
	return writeTOML(filepath.Join(dir, name+".toml"), doc)
}
