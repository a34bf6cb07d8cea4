package types

import (
	"fmt"
	"strings"
	"time"
)

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Validate rejects malformed timestamps before they enter the domain:
// negative times, inverted word spans, or words out of chronological order.
func (tr Transcript) Validate() error {
	var prevEnd float64
	for i, s := range tr.Segments {
		for j, w := range s.Words {
			if w.Start < 0 || w.End < 0 {
				return fmt.Errorf("segment %d word %d: negative timestamp", i, j)
			}
			if w.Start > w.End {
				return fmt.Errorf("segment %d word %d: start %.3f after end %.3f", i, j, w.Start, w.End)
			}
			if w.Start < prevEnd {
				return fmt.Errorf("segment %d word %d: starts %.3f before previous word ends %.3f", i, j, w.Start, prevEnd)
			}
			prevEnd = w.End
		}
	}
	return nil
}

// Words flattens all segment words into a single chronological stream.
// Segment boundaries are irrelevant once flattened. Empty words are dropped.
func (tr Transcript) Words() []Word {
	var out []Word
	for _, s := range tr.Segments {
		for _, w := range s.Words {
			if strings.TrimSpace(w.Word) == "" {
				continue
			}
			out = append(out, w)
		}
	}
	return out
}

// CaptionPhrase is one renderable caption unit: a contiguous run of words
// shown on screen for [Start, End].
type CaptionPhrase struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// ClipDescriptor references a probed source video asset.
type ClipDescriptor struct {
	Path     string
	Duration time.Duration
	Width    int
	Height   int
}

// ClipProbe carries the outcome of probing one pool candidate. Entries with a
// non-nil Err are soft failures: the sequence builder skips them and counts
// them instead of aborting the build.
type ClipProbe struct {
	Source ClipDescriptor
	Err    error
}

type FrameSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropRect is the centered sub-region of the scaled source frame that exactly
// fills the target frame. Coordinates are pixels in the scaled frame.
type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ClipPlanEntry is one clip placed into the output sequence. The renderer
// applies Scale, Crop, trims, and fades verbatim.
type ClipPlanEntry struct {
	Source    ClipDescriptor
	TrimStart time.Duration
	TrimEnd   time.Duration
	Scale     FrameSize
	Crop      CropRect
	FadeIn    time.Duration
	FadeOut   time.Duration
}

func (e ClipPlanEntry) Duration() time.Duration { return e.TrimEnd - e.TrimStart }

// SequencePlan is the finalized, ordered clip sequence. Total equals the
// requested target duration exactly once the build succeeds.
type SequencePlan struct {
	Entries []ClipPlanEntry
	Total   time.Duration
	Skipped int
}

type Manifest struct {
	Audio     string           `json:"audio"`
	TargetSec float64          `json:"target_sec"`
	Frame     FrameSize        `json:"frame"`
	Phrases   []ManifestPhrase `json:"phrases"`
	Clips     []ManifestClip   `json:"clips"`
	Skipped   int              `json:"skipped_clips"`
	Output    string           `json:"output,omitempty"`
}

type ManifestPhrase struct {
	Text     string  `json:"text"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

type ManifestClip struct {
	File         string    `json:"file"`
	TrimStartSec float64   `json:"trim_start_sec"`
	TrimEndSec   float64   `json:"trim_end_sec"`
	Scale        FrameSize `json:"scale"`
	Crop         CropRect  `json:"crop"`
	FadeInSec    float64   `json:"fade_in_sec"`
	FadeOutSec   float64   `json:"fade_out_sec"`
}
