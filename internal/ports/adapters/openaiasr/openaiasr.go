// Package openaiasr transcribes narration audio through the hosted OpenAI
// Whisper API with word-level timestamp granularity.
package openaiasr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reelsmith/reelsmith/internal/types"
)

const cacheFile = "transcript.json"

type Adapter struct {
	client *openai.Client
	model  string
}

func New(apiKey, model string) *Adapter {
	if model == "" {
		model = openai.Whisper1
	}
	return &Adapter{client: openai.NewClient(apiKey), model: model}
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, cacheDir string) (types.Transcript, error) {
	if tr, ok := readCache(cacheDir); ok {
		return tr, nil
	}

	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    a.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
	})
	if err != nil {
		return types.Transcript{}, fmt.Errorf("openai transcription: %w", err)
	}

	tr := fromResponse(resp)
	writeCache(cacheDir, tr)
	return tr, nil
}

// fromResponse maps the verbose-JSON response into the transcript schema.
// Word granularity returns a flat word list, so all words land in one
// synthetic segment; downstream consumers flatten segments anyway.
func fromResponse(resp openai.AudioResponse) types.Transcript {
	words := make([]types.Word, 0, len(resp.Words))
	for _, w := range resp.Words {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		words = append(words, types.Word{Start: w.Start, End: w.End, Word: text})
	}
	if len(words) == 0 {
		var segs []types.Segment
		for _, s := range resp.Segments {
			segs = append(segs, types.Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
		}
		return types.Transcript{Segments: segs}
	}
	return types.Transcript{Segments: []types.Segment{{
		Start: words[0].Start,
		End:   words[len(words)-1].End,
		Text:  strings.TrimSpace(resp.Text),
		Words: words,
	}}}
}

func readCache(cacheDir string) (types.Transcript, bool) {
	if cacheDir == "" {
		return types.Transcript{}, false
	}
	b, err := os.ReadFile(filepath.Join(cacheDir, cacheFile))
	if err != nil {
		return types.Transcript{}, false
	}
	var tr types.Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return types.Transcript{}, false
	}
	return tr, true
}

func writeCache(cacheDir string, tr types.Transcript) {
	if cacheDir == "" {
		return
	}
	b, err := json.Marshal(tr)
	if err != nil {
		return
	}
	// Cache is best-effort: a failed write just means re-transcribing next run.
	_ = os.WriteFile(filepath.Join(cacheDir, cacheFile), b, 0o644)
}
