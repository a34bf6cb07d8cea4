package ports

import (
	"context"
	"time"

	"github.com/reelsmith/reelsmith/internal/types"
)

type MediaProber interface {
	// ProbeClip reads duration and frame dimensions of a video asset.
	ProbeClip(ctx context.Context, path string) (types.ClipDescriptor, error)
	// ProbeDuration reads the duration of an audio file.
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

type ASR interface {
	Transcribe(ctx context.Context, audioPath, cacheDir string) (types.Transcript, error)
}

type Renderer interface {
	// Render applies the plan's trims, crops, and fades verbatim, concatenates
	// the entries in order, burns the caption phrases, and muxes the narration.
	Render(ctx context.Context, plan types.SequencePlan, phrases []types.CaptionPhrase, audioPath, outPath string) error
}
