package group

import (
	"fmt"
	"log/slog"

	"github.com/mossvale/scrollwall/config"
	"github.com/mossvale/scrollwall/gpu"
	"github.com/mossvale/scrollwall/panel"
)

// Displays resolves named displays (typically one per connected
// monitor) to their current geometry set. Supplied by the window
// collaborator at startup and on monitor hotplug.
type Displays map[string]*panel.Display

// Resolver builds fresh Panel values from on-disk profile/panel/
// playlist documents, wiring each panel's image ring to device and
// layout (spec §4.6: "resolve playlist names... construct fresh
// PanelState+Panel per entry with a fresh PlaylistPlayer").
type Resolver struct {
	dir         string
	device      gpu.Device
	imageLayout gpu.BindGroupLayoutID
	playlists   *Playlists
	maxOldItems int
	logger      *slog.Logger
}

// NewResolver creates a profile resolver rooted at dir. Profile, panel,
// and playlist documents are all read directly from dir as
// dir/<name>.toml; there are no per-kind subdirectories.
func NewResolver(dir string, device gpu.Device, imageLayout gpu.BindGroupLayoutID, maxOldItems int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		dir:         dir,
		device:      device,
		imageLayout: imageLayout,
		playlists:   NewPlaylists(dir),
		maxOldItems: maxOldItems,
		logger:      logger,
	}
}

// LoadProfile resolves the named profile document into a fresh set of
// Panel values, ready to pass to Group.Apply.
func (r *Resolver) LoadProfile(name string, displays Displays) ([]*panel.Panel, error) {
	doc, err := config.LoadProfile(r.dir, name)
	if err != nil {
		return nil, fmt.Errorf("group: loading profile %q: %w", name, err)
	}

	panels := make([]*panel.Panel, 0, len(doc.Panels))
	for _, entry := range doc.Panels {
		p, err := r.buildPanel(entry, displays)
		if err != nil {
			return nil, fmt.Errorf("group: building panel %q: %w", entry.Name, err)
		}
		panels = append(panels, p)
	}
	return panels, nil
}

func (r *Resolver) buildPanel(entry config.ProfilePanelDoc, displays Displays) (*panel.Panel, error) {
	display, ok := displays[entry.Display]
	if !ok {
		return nil, fmt.Errorf("unknown display %q", entry.Display)
	}

	panelDoc, err := config.LoadPanel(r.dir, entry.Panel)
	if err != nil {
		return nil, err
	}

	if panelDoc.Shader == "none" {
		state := panel.NewNoneState(panel.RGBA{
			R: panelDoc.BackgroundColor[0],
			G: panelDoc.BackgroundColor[1],
			B: panelDoc.BackgroundColor[2],
			A: panelDoc.BackgroundColor[3],
		})
		return &panel.Panel{Name: entry.Name, Display: display, State: state}, nil
	}

	player, err := r.playlists.NewPlayer(entry.Playlist, r.maxOldItems, r.logger)
	if err != nil {
		return nil, err
	}

	images, err := panel.NewImages(r.device, r.imageLayout, r.logger)
	if err != nil {
		return nil, fmt.Errorf("creating image ring: %w", err)
	}

	shader := shaderFromName(panelDoc.Shader)
	state := panel.NewFadeState(panelDoc.DurationFrames, panelDoc.FadeFrames, shader, images, player)
	if panelDoc.FadeStrength > 0 {
		state.FadeStrength = panelDoc.FadeStrength
	}
	state.Parallax = panel.ParallaxConfig{
		Enabled: panelDoc.ParallaxEnabled,
		Ratio:   panelDoc.ParallaxRatio,
		Exp:     panelDoc.ParallaxExp,
		Reverse: panelDoc.ParallaxReverse,
	}

	return &panel.Panel{Name: entry.Name, Display: display, State: state}, nil
}

func shaderFromName(name string) panel.ShaderVariant {
	switch name {
	case "fade_basic":
		return panel.ShaderFadeBasic
	case "fade_white":
		return panel.ShaderFadeWhite
	case "fade_out":
		return panel.ShaderFadeOut
	case "fade_in":
		return panel.ShaderFadeIn
	case "slide_basic":
		return panel.ShaderSlideBasic
	default:
		return panel.ShaderFadeBasic
	}
}
