package types

import (
	"testing"
)

func TestTranscriptValidate(t *testing.T) {
	cases := []struct {
		name    string
		tr      Transcript
		wantErr bool
	}{
		{
			name: "well formed",
			tr: Transcript{Segments: []Segment{
				{Words: []Word{{Word: "a", Start: 0, End: 0.5}, {Word: "b", Start: 0.6, End: 1.0}}},
				{Words: []Word{{Word: "c", Start: 1.1, End: 1.4}}},
			}},
		},
		{
			name: "negative timestamp",
			tr: Transcript{Segments: []Segment{
				{Words: []Word{{Word: "a", Start: -0.1, End: 0.5}}},
			}},
			wantErr: true,
		},
		{
			name: "inverted span",
			tr: Transcript{Segments: []Segment{
				{Words: []Word{{Word: "a", Start: 1.0, End: 0.5}}},
			}},
			wantErr: true,
		},
		{
			name: "non-monotonic across segments",
			tr: Transcript{Segments: []Segment{
				{Words: []Word{{Word: "a", Start: 2.0, End: 2.5}}},
				{Words: []Word{{Word: "b", Start: 1.0, End: 1.5}}},
			}},
			wantErr: true,
		},
		{
			name: "empty",
			tr:   Transcript{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tr.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTranscriptWords_FlattensAndDropsEmpty(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{Words: []Word{{Word: "one", Start: 0, End: 0.2}, {Word: "  ", Start: 0.3, End: 0.4}}},
		{Words: []Word{{Word: "two", Start: 0.5, End: 0.7}}},
	}}
	words := tr.Words()
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Word != "one" || words[1].Word != "two" {
		t.Fatalf("unexpected words: %+v", words)
	}
}
