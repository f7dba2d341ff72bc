// Package config implements the ambient configuration, profile, panel,
// and playlist TOML document formats (spec §6: "Panel/profile/playlist
// on-disk format: TOML documents").
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config mirrors original_source/zsw/src/config.rs's Config: process
// sizing knobs plus the default profile's panel list.
type Config struct {
	DecodeWorkers   int      `toml:"decode_workers"`
	LogFile         string   `toml:"log_file"`
	UpscaleCacheDir string   `toml:"upscale_cache_dir"`
	UpscaleCmd      string   `toml:"upscale_cmd"`
	UpscaleExclude  []string `toml:"upscale_exclude"`
	Default         Default  `toml:"default"`
}

// Default is the config's embedded default profile.
type Default struct {
	Panels []PanelRef `toml:"panels"`
}

// PanelRef names a panel document plus the playlist it references,
// mirroring original_source/zsw/src/config.rs's ConfigPanel.
type PanelRef struct {
	Panel    string `toml:"panel"`
	Playlist string `toml:"playlist"`
}

// defaultConfig is returned by GetOrCreateDefault when no config file
// exists yet.
func defaultConfig() Config {
	return Config{DecodeWorkers: 4}
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: loading %q: %w", path, err)
	}
	return cfg, nil
}

// Write serializes cfg to path as TOML.
func Write(path string, cfg Config) error {
	return writeTOML(path, cfg)
}

// writeTOML serializes any TOML-taggable value to path, creating or
// truncating the file. Shared by Write and the playlist/panel/profile
// document writers.
func writeTOML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: creating %q: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("config: writing %q: %w", path, err)
	}
	return nil
}

// GetOrCreateDefault loads the config at path, or falls back to a
// default config if the file is missing or malformed
// (original_source/zsw/src/config.rs: "get_or_create_default"). The
// default is written to path only when the file is missing; a
// malformed file is left as it is.
func GetOrCreateDefault(path string, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := Load(path)
	if err == nil {
		return cfg
	}
	logger.Warn("config: unable to load, using default", "path", path, "err", err)

	cfg = defaultConfig()
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := Write(path, cfg); err != nil {
			logger.Warn("config: unable to write default config", "path", path, "err", err)
		}
	}
	return cfg
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/scrollwall/config.toml
// (or the OS equivalent via os.UserConfigDir).
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "scrollwall", "config.toml"), nil
}
