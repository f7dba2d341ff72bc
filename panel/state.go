package panel

import (
	"math"

	"github.com/mossvale/scrollwall/playlist"
)

// ShaderVariant selects the fragment program used to composite a
// panel's slots (spec §4.5).
type ShaderVariant int

const (
	ShaderNone ShaderVariant = iota
	ShaderFadeBasic
	ShaderFadeWhite
	ShaderFadeOut
	ShaderFadeIn
	ShaderSlideBasic
)

// RGBA is a straightforward 4-component color, used by the None state.
type RGBA struct {
	R, G, B, A float32
}

// StateKind discriminates the PanelState union (spec §3).
type StateKind int

const (
	StateNone StateKind = iota
	StateFade
)

// ParallaxConfig holds the optional cursor-driven parallax transform
// (spec §4.4.3), disabled by default (the zero value has Enabled ==
// false).
type ParallaxConfig struct {
	Enabled bool
	Ratio   float64 // parallax_ratio: image pre-scale and offset cap
	Exp     float64 // parallax_exp: signed-exponent falloff near center
	Reverse bool
}

// State is the per-panel state machine (spec §3, §4.4). Exactly one of
// the Fade-specific fields is meaningful, selected by Kind.
type State struct {
	Kind StateKind

	// StateNone
	BackgroundColor RGBA

	// StateFade
	Duration     int64
	FadeDuration int64
	Progress     int64
	Shader       ShaderVariant
	FadeStrength float64
	Parallax     ParallaxConfig
	Paused       bool
	Images       *Images
	Player       *playlist.Player
}

// NewNoneState builds a solid-color panel state.
func NewNoneState(color RGBA) *State {
	return &State{Kind: StateNone, BackgroundColor: color}
}

// NewFadeState builds a fading image panel state. duration must be >
// 0; fadeDuration must be in [0, duration/2] (spec §3 invariants).
func NewFadeState(duration, fadeDuration int64, shader ShaderVariant, images *Images, player *playlist.Player) *State {
	return &State{
		Kind:         StateFade,
		Duration:     duration,
		FadeDuration: fadeDuration,
		Shader:       shader,
		FadeStrength: 1,
		Images:       images,
		Player:       player,
	}
}

// Pause halts ticking without clearing state.
func (s *State) Pause(paused bool) {
	s.Paused = paused
}

// Skip forces a swap regardless of progress, using Next if loaded,
// else a no-op.
func (s *State) Skip() {
	if s.Kind != StateFade {
		return
	}
	if err := s.Images.StepNext(); err == nil {
		s.Progress = 0
	}
}

// Step applies frames worth of ticks; negative values step backward
// and call Images.StepPrev on underflow.
func (s *State) Step(frames int64) {
	if s.Kind != StateFade || s.Paused {
		return
	}
	if frames >= 0 {
		for i := int64(0); i < frames; i++ {
			s.Tick()
		}
		return
	}
	for i := int64(0); i < -frames; i++ {
		if s.Progress > 0 {
			s.Progress--
			continue
		}
		if err := s.Images.StepPrev(); err == nil {
			s.Progress = s.Duration - 1
		}
	}
}

// Tick advances progress by one frame (spec §4.4.1). On reaching
// Duration, a swap is attempted; if the next slot isn't loaded yet,
// progress clamps to Duration-1 and the tick is retried next frame.
func (s *State) Tick() {
	if s.Kind != StateFade || s.Paused {
		return
	}

	s.Progress++
	if s.Progress < s.Duration {
		return
	}

	if err := s.Images.StepNext(); err == nil {
		s.Progress--
	} else {
		s.Progress = s.Duration - 1
	}
}

// NormalizedProgress returns p = progress / duration ∈ [0, 1).
func (s *State) NormalizedProgress() float64 {
	return float64(s.Progress) / float64(s.Duration)
}

// NormalizedFadeWindow returns f = fade_duration / duration ∈ [0, 0.5].
func (s *State) NormalizedFadeWindow() float64 {
	return float64(s.FadeDuration) / float64(s.Duration)
}

// SlotDuration returns d = 1 + 2f, the total on-screen life of a
// single image including both fade halves.
func SlotDuration(f float64) float64 {
	return 1 + 2*f
}

// SlotProgress returns the per-slot scroll parameter (spec §4.4.1).
func SlotProgress(slot Slot, p, f float64) float64 {
	d := SlotDuration(f)
	switch slot {
	case SlotPrev:
		return 1 - math.Max((f-p)/d, 0)
	case SlotCur:
		return (p + f) / d
	case SlotNext:
		return math.Max((p-1+f)/d, 0)
	default:
		return 0
	}
}

// clamp01 restricts x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// SlotAlphas returns (alphaPrev, alphaCur, alphaNext); they sum to 1
// for any p (spec §4.4.1, §8 "Fade alpha partition").
func SlotAlphas(p, f float64) (float64, float64, float64) {
	if f == 0 {
		// f=0 degenerates to an instantaneous cut; avoid dividing by
		// zero and keep the invariant alphaPrev+alphaCur+alphaNext=1.
		return 0, 1, 0
	}
	alphaPrev := 0.5 * clamp01(1-p/f)
	alphaNext := 0.5 * clamp01(1-(1-p)/f)
	alphaCur := 1 - math.Max(alphaPrev, alphaNext)
	return alphaPrev, alphaCur, alphaNext
}
