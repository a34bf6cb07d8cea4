package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelsmith/reelsmith/internal/domain/captions"
	"github.com/reelsmith/reelsmith/internal/domain/sequence"
	"github.com/reelsmith/reelsmith/internal/types"
)

func TestRun_ManifestOnly(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		audioDur: 8 * time.Second,
		clips: map[string]types.ClipDescriptor{
			"a.mp4": {Path: "a.mp4", Duration: 7 * time.Second, Width: 1920, Height: 1080},
			"b.mp4": {Path: "b.mp4", Duration: 6 * time.Second, Width: 1280, Height: 720},
		},
	}
	renderer := &fakeRenderer{}
	uc := New(Deps{
		Prober:   prober,
		ASR:      fakeASR{tr: testTranscript()},
		Renderer: renderer,
	})

	res, err := uc.Run(context.Background(), Input{
		AudioPath:  "speech.mp3",
		VideoPaths: []string{"a.mp4", "b.mp4"},
		Captions:   captions.DefaultConfig(),
		Sequence:   sequence.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if renderer.calls != 0 {
		t.Fatalf("renderer invoked %d times without Render set", renderer.calls)
	}

	m := res.Manifest
	if m.TargetSec != 8 {
		t.Fatalf("target_sec = %v, want 8", m.TargetSec)
	}
	if len(m.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(m.Clips))
	}
	// 5s cap on the first clip, second truncated to land exactly on target.
	if m.Clips[0].TrimEndSec != 5 || m.Clips[1].TrimEndSec != 3 {
		t.Fatalf("unexpected trims: %v / %v", m.Clips[0].TrimEndSec, m.Clips[1].TrimEndSec)
	}
	if len(m.Phrases) == 0 {
		t.Fatalf("expected caption phrases in manifest")
	}
	if m.Output != "" {
		t.Fatalf("expected no output file, got %q", m.Output)
	}
}

func TestRun_RenderInvokesRenderer(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		audioDur: 4 * time.Second,
		clips: map[string]types.ClipDescriptor{
			"a.mp4": {Path: "a.mp4", Duration: 5 * time.Second, Width: 1920, Height: 1080},
		},
	}
	renderer := &fakeRenderer{}
	uc := New(Deps{Prober: prober, ASR: fakeASR{tr: testTranscript()}, Renderer: renderer})

	outDir := t.TempDir()
	res, err := uc.Run(context.Background(), Input{
		AudioPath:  "speech.mp3",
		VideoPaths: []string{"a.mp4"},
		OutDir:     outDir,
		Captions:   captions.DefaultConfig(),
		Sequence:   sequence.DefaultConfig(),
		Render:     true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer invoked %d times, want 1", renderer.calls)
	}
	if renderer.lastOut != filepath.Join(outDir, "video.mp4") {
		t.Fatalf("unexpected output path: %s", renderer.lastOut)
	}
	if res.Manifest.Output != "video.mp4" {
		t.Fatalf("manifest output = %q", res.Manifest.Output)
	}
	if renderer.lastPlan.Total != 4*time.Second {
		t.Fatalf("rendered plan total %v, want 4s", renderer.lastPlan.Total)
	}
}

func TestRun_UnreadableClipIsSoftFailure(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		audioDur: 8 * time.Second,
		clips: map[string]types.ClipDescriptor{
			"a.mp4": {Path: "a.mp4", Duration: 5 * time.Second, Width: 1920, Height: 1080},
			"c.mp4": {Path: "c.mp4", Duration: 5 * time.Second, Width: 1920, Height: 1080},
		},
	}
	uc := New(Deps{Prober: prober, ASR: fakeASR{tr: testTranscript()}, Renderer: &fakeRenderer{}})

	res, err := uc.Run(context.Background(), Input{
		AudioPath:  "speech.mp3",
		VideoPaths: []string{"a.mp4", "broken.mp4", "c.mp4"},
		Captions:   captions.DefaultConfig(),
		Sequence:   sequence.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Manifest.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Manifest.Skipped)
	}
	if len(res.Manifest.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(res.Manifest.Clips))
	}
}

func TestRun_InsufficientClipsIsFatal(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		audioDur: 60 * time.Second,
		clips: map[string]types.ClipDescriptor{
			"a.mp4": {Path: "a.mp4", Duration: 5 * time.Second, Width: 1920, Height: 1080},
		},
	}
	uc := New(Deps{Prober: prober, ASR: fakeASR{tr: testTranscript()}, Renderer: &fakeRenderer{}})

	_, err := uc.Run(context.Background(), Input{
		AudioPath:  "speech.mp3",
		VideoPaths: []string{"a.mp4"},
		Captions:   captions.DefaultConfig(),
		Sequence:   sequence.DefaultConfig(),
	})
	if !errors.Is(err, sequence.ErrInsufficientClips) {
		t.Fatalf("expected ErrInsufficientClips, got %v", err)
	}
}

func TestRun_MalformedTranscriptIsFatal(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		audioDur: 4 * time.Second,
		clips: map[string]types.ClipDescriptor{
			"a.mp4": {Path: "a.mp4", Duration: 5 * time.Second, Width: 1920, Height: 1080},
		},
	}
	bad := types.Transcript{Segments: []types.Segment{
		{Words: []types.Word{{Word: "oops", Start: 2, End: 1}}},
	}}
	uc := New(Deps{Prober: prober, ASR: fakeASR{tr: bad}, Renderer: &fakeRenderer{}})

	_, err := uc.Run(context.Background(), Input{
		AudioPath:  "speech.mp3",
		VideoPaths: []string{"a.mp4"},
		Captions:   captions.DefaultConfig(),
		Sequence:   sequence.DefaultConfig(),
	})
	if err == nil {
		t.Fatalf("expected error for malformed transcript")
	}
}

type fakeProber struct {
	audioDur time.Duration
	clips    map[string]types.ClipDescriptor
}

func (f *fakeProber) ProbeClip(_ context.Context, path string) (types.ClipDescriptor, error) {
	desc, ok := f.clips[path]
	if !ok {
		return types.ClipDescriptor{}, fmt.Errorf("probe %s: moov atom not found", path)
	}
	return desc, nil
}

func (f *fakeProber) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return f.audioDur, nil
}

type fakeASR struct {
	tr types.Transcript
}

func (f fakeASR) Transcribe(_ context.Context, _, _ string) (types.Transcript, error) {
	return f.tr, nil
}

type fakeRenderer struct {
	calls    int
	lastPlan types.SequencePlan
	lastOut  string
}

func (f *fakeRenderer) Render(_ context.Context, plan types.SequencePlan, _ []types.CaptionPhrase, _ string, outPath string) error {
	f.calls++
	f.lastPlan = plan
	f.lastOut = outPath
	return nil
}

func testTranscript() types.Transcript {
	return types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 2.1, Text: "hello there from the test", Words: []types.Word{
			{Word: "hello", Start: 0.0, End: 0.4},
			{Word: "there", Start: 0.5, End: 0.8},
			{Word: "from", Start: 0.9, End: 1.2},
			{Word: "the", Start: 1.3, End: 1.5},
			{Word: "test", Start: 1.6, End: 2.1},
		}},
	}}
}
