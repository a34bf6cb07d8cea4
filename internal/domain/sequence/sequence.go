// Package sequence assembles an ordered clip plan that covers a target
// duration exactly, trimming and geometrically normalizing each source clip.
package sequence

import (
	"errors"
	"fmt"
	"time"

	"github.com/reelsmith/reelsmith/internal/types"
)

const (
	defaultMaxClip = 5 * time.Second
	defaultFade    = 1200 * time.Millisecond
)

var defaultFrame = types.FrameSize{Width: 1080, Height: 1920}

// ErrInsufficientClips reports that the pool was exhausted before the
// accumulated clip durations reached the target.
var ErrInsufficientClips = errors.New("insufficient clips")

type InsufficientClipsError struct {
	Target time.Duration
	Got    time.Duration
}

func (e *InsufficientClipsError) Error() string {
	return fmt.Sprintf("insufficient clips: pool covers %s of %s", e.Got, e.Target)
}

func (e *InsufficientClipsError) Unwrap() error { return ErrInsufficientClips }

type Config struct {
	// MaxClip caps how much of each source clip is used, from its start.
	MaxClip time.Duration
	FadeIn  time.Duration
	FadeOut time.Duration
	// Frame is the output frame the crop rectangle must fill.
	Frame types.FrameSize
}

func DefaultConfig() Config {
	return Config{
		MaxClip: defaultMaxClip,
		FadeIn:  defaultFade,
		FadeOut: defaultFade,
		Frame:   defaultFrame,
	}
}

// Build consumes the pool in the order given until the accumulated trimmed
// durations reach target, then shortens the final entry so the total equals
// target exactly. Pool entries carrying a probe error are skipped and counted.
// Callers own any shuffling: the build is deterministic over its input order.
func Build(pool []types.ClipProbe, target time.Duration, cfg Config) (types.SequencePlan, error) {
	if target <= 0 {
		return types.SequencePlan{}, fmt.Errorf("target duration must be > 0, got %s", target)
	}
	if cfg.MaxClip <= 0 {
		cfg.MaxClip = defaultMaxClip
	}
	if cfg.Frame.Width <= 0 || cfg.Frame.Height <= 0 {
		cfg.Frame = defaultFrame
	}

	var plan types.SequencePlan
	for _, p := range pool {
		if p.Err != nil {
			plan.Skipped++
			continue
		}
		entry, err := normalize(p.Source, cfg)
		if err != nil {
			plan.Skipped++
			continue
		}
		plan.Entries = append(plan.Entries, entry)
		plan.Total += entry.Duration()
		if plan.Total >= target {
			break
		}
	}

	if plan.Total < target {
		return types.SequencePlan{}, &InsufficientClipsError{Target: target, Got: plan.Total}
	}
	if excess := plan.Total - target; excess > 0 {
		last := &plan.Entries[len(plan.Entries)-1]
		last.TrimEnd -= excess
		plan.Total = target
	}
	return plan, nil
}

// normalize trims a probed clip to the per-clip cap and computes its crop
// geometry and fade metadata. Descriptors without a usable duration or frame
// size count as unreadable.
func normalize(src types.ClipDescriptor, cfg Config) (types.ClipPlanEntry, error) {
	if src.Duration <= 0 {
		return types.ClipPlanEntry{}, fmt.Errorf("clip %s: non-positive duration", src.Path)
	}
	if src.Width <= 0 || src.Height <= 0 {
		return types.ClipPlanEntry{}, fmt.Errorf("clip %s: missing frame dimensions", src.Path)
	}
	trim := src.Duration
	if trim > cfg.MaxClip {
		trim = cfg.MaxClip
	}
	scale, crop := FitFrame(src.Width, src.Height, cfg.Frame)
	return types.ClipPlanEntry{
		Source:    src,
		TrimStart: 0,
		TrimEnd:   trim,
		Scale:     scale,
		Crop:      crop,
		FadeIn:    cfg.FadeIn,
		FadeOut:   cfg.FadeOut,
	}, nil
}
