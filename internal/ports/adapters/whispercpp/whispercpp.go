// Package whispercpp transcribes narration audio with a local whisper.cpp
// binary, requesting word-level timestamps.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/reelsmith/reelsmith/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
		"-ml", "1", // one token per segment so word timings survive the JSON output
		"-sow",
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}

	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, err
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
		for j := range tr.Segments[i].Words {
			tr.Segments[i].Words[j].Word = strings.TrimSpace(tr.Segments[i].Words[j].Word)
		}
	}
	return liftWords(tr), nil
}

// liftWords turns one-token-per-segment output (the -ml 1 mode) into a single
// segment carrying word timestamps, which is what the phrase grouping
// consumes. Output that already has word arrays passes through untouched.
func liftWords(tr types.Transcript) types.Transcript {
	if len(tr.Segments) == 0 {
		return tr
	}
	for _, s := range tr.Segments {
		if len(s.Words) > 0 {
			return tr
		}
	}

	words := make([]types.Word, 0, len(tr.Segments))
	parts := make([]string, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		if s.Text == "" {
			continue
		}
		words = append(words, types.Word{Start: s.Start, End: s.End, Word: s.Text})
		parts = append(parts, s.Text)
	}
	if len(words) == 0 {
		return tr
	}
	return types.Transcript{Segments: []types.Segment{{
		Start: words[0].Start,
		End:   words[len(words)-1].End,
		Text:  strings.Join(parts, " "),
		Words: words,
	}}}
}
