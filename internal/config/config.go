// Package config holds the tunable timing and geometry constants with their
// documented defaults, optionally overridden from a yaml file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reelsmith/reelsmith/internal/domain/captions"
	"github.com/reelsmith/reelsmith/internal/domain/sequence"
	"github.com/reelsmith/reelsmith/internal/types"
)

type Config struct {
	Captions Captions `yaml:"captions"`
	Sequence Sequence `yaml:"sequence"`
}

type Captions struct {
	TargetWords int     `yaml:"target_words"`
	PauseGapSec float64 `yaml:"pause_gap_sec"`
	MaxSpanSec  float64 `yaml:"max_span_sec"`
}

type Sequence struct {
	MaxClipSec  float64 `yaml:"max_clip_sec"`
	FadeInSec   float64 `yaml:"fade_in_sec"`
	FadeOutSec  float64 `yaml:"fade_out_sec"`
	FrameWidth  int     `yaml:"frame_width"`
	FrameHeight int     `yaml:"frame_height"`
}

func Default() Config {
	return Config{
		Captions: Captions{
			TargetWords: 5,
			PauseGapSec: 0.7,
			MaxSpanSec:  4.0,
		},
		Sequence: Sequence{
			MaxClipSec:  5.0,
			FadeInSec:   1.2,
			FadeOutSec:  1.2,
			FrameWidth:  1080,
			FrameHeight: 1920,
		},
	}
}

// Load reads a yaml file over the defaults, so a config file only needs the
// keys it changes.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Captions.TargetWords <= 0 {
		return fmt.Errorf("captions.target_words must be > 0")
	}
	if c.Captions.PauseGapSec <= 0 {
		return fmt.Errorf("captions.pause_gap_sec must be > 0")
	}
	if c.Captions.MaxSpanSec <= 0 {
		return fmt.Errorf("captions.max_span_sec must be > 0")
	}
	if c.Sequence.MaxClipSec <= 0 {
		return fmt.Errorf("sequence.max_clip_sec must be > 0")
	}
	if c.Sequence.FadeInSec < 0 || c.Sequence.FadeOutSec < 0 {
		return fmt.Errorf("sequence fades must be >= 0")
	}
	if c.Sequence.FrameWidth <= 0 || c.Sequence.FrameHeight <= 0 {
		return fmt.Errorf("sequence frame size must be > 0")
	}
	return nil
}

func (c Captions) Domain() captions.Config {
	return captions.Config{
		TargetWords: c.TargetWords,
		PauseGap:    dur(c.PauseGapSec),
		MaxSpan:     dur(c.MaxSpanSec),
	}
}

func (c Sequence) Domain() sequence.Config {
	return sequence.Config{
		MaxClip: dur(c.MaxClipSec),
		FadeIn:  dur(c.FadeInSec),
		FadeOut: dur(c.FadeOutSec),
		Frame:   types.FrameSize{Width: c.FrameWidth, Height: c.FrameHeight},
	}
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
