// Package captions groups timestamped words into readable caption phrases.
package captions

import (
	"strings"
	"time"

	"github.com/reelsmith/reelsmith/internal/types"
)

const (
	defaultTargetWords = 5
	defaultPauseGap    = 700 * time.Millisecond
	defaultMaxSpan     = 4 * time.Second
)

type Config struct {
	// TargetWords is the word count at which a phrase is closed.
	TargetWords int
	// PauseGap is the silence between two words that forces a new phrase.
	PauseGap time.Duration
	// MaxSpan is the longest a phrase may stay on screen.
	MaxSpan time.Duration
}

func DefaultConfig() Config {
	return Config{
		TargetWords: defaultTargetWords,
		PauseGap:    defaultPauseGap,
		MaxSpan:     defaultMaxSpan,
	}
}

// Group segments a chronological word stream into caption phrases. Before
// appending each incoming word, the current accumulation is flushed when it
// already holds TargetWords words, when the gap since the last accumulated
// word exceeds PauseGap, or when the phrase span would exceed MaxSpan. Every
// word lands in exactly one phrase, in input order. An empty input yields an
// empty output.
//
// A single word whose own span exceeds MaxSpan is emitted whole: the span rule
// compares against the previous accumulation, so a lone word never closes a
// phrase against itself.
func Group(words []types.Word, cfg Config) []types.CaptionPhrase {
	// Guardrails keep callers safe from zero-valued config.
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = defaultTargetWords
	}
	if cfg.PauseGap <= 0 {
		cfg.PauseGap = defaultPauseGap
	}
	if cfg.MaxSpan <= 0 {
		cfg.MaxSpan = defaultMaxSpan
	}

	var out []types.CaptionPhrase
	var cur []types.Word
	var curStart time.Duration

	flush := func() {
		parts := make([]string, 0, len(cur))
		for _, w := range cur {
			parts = append(parts, strings.TrimSpace(w.Word))
		}
		out = append(out, types.CaptionPhrase{
			Text:  strings.Join(parts, " "),
			Start: dur(cur[0].Start),
			End:   dur(cur[len(cur)-1].End),
		})
	}

	for _, w := range words {
		ws := dur(w.Start)
		we := dur(w.End)

		if len(cur) == 0 ||
			len(cur) >= cfg.TargetWords ||
			ws-dur(cur[len(cur)-1].End) > cfg.PauseGap ||
			we-curStart > cfg.MaxSpan {
			if len(cur) > 0 {
				flush()
			}
			cur = nil
			curStart = ws
		}
		cur = append(cur, w)
	}
	if len(cur) > 0 {
		flush()
	}
	return out
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
