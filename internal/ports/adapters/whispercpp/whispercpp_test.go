package whispercpp

import (
	"testing"

	"github.com/reelsmith/reelsmith/internal/types"
)

func TestLiftWords_OneTokenSegments(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0.0, End: 0.4, Text: "hello"},
		{Start: 0.5, End: 0.9, Text: "world"},
		{Start: 1.0, End: 1.1, Text: ""},
		{Start: 1.2, End: 1.6, Text: "again"},
	}}

	got := liftWords(tr)
	if len(got.Segments) != 1 {
		t.Fatalf("expected 1 lifted segment, got %d", len(got.Segments))
	}
	seg := got.Segments[0]
	if len(seg.Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(seg.Words))
	}
	if seg.Text != "hello world again" {
		t.Fatalf("unexpected text: %q", seg.Text)
	}
	if seg.Start != 0.0 || seg.End != 1.6 {
		t.Fatalf("unexpected span: %v..%v", seg.Start, seg.End)
	}
}

func TestLiftWords_KeepsExistingWordArrays(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 1, Text: "hello world", Words: []types.Word{
			{Word: "hello", Start: 0, End: 0.4},
			{Word: "world", Start: 0.5, End: 1},
		}},
	}}
	got := liftWords(tr)
	if len(got.Segments) != 1 || len(got.Segments[0].Words) != 2 {
		t.Fatalf("transcript with words should pass through, got %+v", got)
	}
}

func TestLiftWords_Empty(t *testing.T) {
	if got := liftWords(types.Transcript{}); len(got.Segments) != 0 {
		t.Fatalf("expected empty transcript, got %+v", got)
	}
}
