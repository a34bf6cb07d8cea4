package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/reelsmith/reelsmith/internal/domain/captions"
	"github.com/reelsmith/reelsmith/internal/domain/sequence"
	"github.com/reelsmith/reelsmith/internal/ports"
	"github.com/reelsmith/reelsmith/internal/types"
)

const outputFile = "video.mp4"

type Deps struct {
	Prober   ports.MediaProber
	ASR      ports.ASR
	Renderer ports.Renderer
	Log      *zap.SugaredLogger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	return Usecase{d: d}
}

type Input struct {
	AudioPath string
	// VideoPaths is the candidate pool in selection order; any shuffling has
	// already happened on the caller's side.
	VideoPaths []string
	CacheDir   string
	OutDir     string
	Captions   captions.Config
	Sequence   sequence.Config
	Render     bool
}

type Result struct {
	Manifest types.Manifest
}

// Run assembles one narrated short: the audio's duration becomes the target
// length, its transcript becomes caption phrases, and the candidate pool
// becomes a clip plan trimmed to exactly that length.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	target, err := u.d.Prober.ProbeDuration(ctx, in.AudioPath)
	if err != nil {
		return Result{}, fmt.Errorf("probe audio: %w", err)
	}
	if target <= 0 {
		return Result{}, fmt.Errorf("audio %s has no duration", in.AudioPath)
	}
	u.d.Log.Infow("audio probed", "path", in.AudioPath, "target", target)

	tr, err := u.d.ASR.Transcribe(ctx, in.AudioPath, in.CacheDir)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return Result{}, fmt.Errorf("malformed transcript: %w", err)
	}
	words := tr.Words()
	phrases := captions.Group(words, in.Captions)
	u.d.Log.Infow("captions grouped", "words", len(words), "phrases", len(phrases))

	pool := u.probePool(ctx, candidatePaths(in.VideoPaths, target, in.Sequence.MaxClip))
	plan, err := sequence.Build(pool, target, in.Sequence)
	if err != nil {
		return Result{}, err
	}
	u.d.Log.Infow("sequence built", "clips", len(plan.Entries), "skipped", plan.Skipped, "total", plan.Total)

	m := buildManifest(in.AudioPath, target, in.Sequence.Frame, phrases, plan)
	if in.Render {
		outPath := filepath.Join(in.OutDir, outputFile)
		if err := u.d.Renderer.Render(ctx, plan, phrases, in.AudioPath, outPath); err != nil {
			return Result{}, fmt.Errorf("render: %w", err)
		}
		m.Output = outputFile
		u.d.Log.Infow("video rendered", "path", outPath)
	}
	return Result{Manifest: m}, nil
}

func (u Usecase) probePool(ctx context.Context, paths []string) []types.ClipProbe {
	pool := make([]types.ClipProbe, 0, len(paths))
	for _, p := range paths {
		desc, err := u.d.Prober.ProbeClip(ctx, p)
		if err != nil {
			u.d.Log.Warnw("skipping unreadable clip", "path", p, "err", err)
			pool = append(pool, types.ClipProbe{Source: types.ClipDescriptor{Path: p}, Err: err})
			continue
		}
		pool = append(pool, types.ClipProbe{Source: desc})
	}
	return pool
}

// candidatePaths bounds how many clips are probed: enough capped clips to
// cover the target, doubled as slack for short or unreadable files.
func candidatePaths(paths []string, target, maxClip time.Duration) []string {
	if maxClip <= 0 {
		return paths
	}
	needed := int(target/maxClip) + 1
	if limit := needed * 2; len(paths) > limit {
		return paths[:limit]
	}
	return paths
}

func buildManifest(audioPath string, target time.Duration, frame types.FrameSize, phrases []types.CaptionPhrase, plan types.SequencePlan) types.Manifest {
	m := types.Manifest{
		Audio:     audioPath,
		TargetSec: target.Seconds(),
		Frame:     frame,
		Skipped:   plan.Skipped,
	}
	for _, p := range phrases {
		m.Phrases = append(m.Phrases, types.ManifestPhrase{
			Text:     p.Text,
			StartSec: p.Start.Seconds(),
			EndSec:   p.End.Seconds(),
		})
	}
	for _, e := range plan.Entries {
		m.Clips = append(m.Clips, types.ManifestClip{
			File:         e.Source.Path,
			TrimStartSec: e.TrimStart.Seconds(),
			TrimEndSec:   e.TrimEnd.Seconds(),
			Scale:        e.Scale,
			Crop:         e.Crop,
			FadeInSec:    e.FadeIn.Seconds(),
			FadeOutSec:   e.FadeOut.Seconds(),
		})
	}
	return m
}
