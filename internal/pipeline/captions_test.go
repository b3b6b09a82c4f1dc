package pipeline

import (
	"math"
	"strings"
	"testing"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

func TestGenerateSegmentCaptions_TilesWithoutGaps(t *testing.T) {
	words := GenerateSegmentCaptions("The quick brown fox jumps, over the lazy dog.", 4.5)
	if len(words) != 9 {
		t.Fatalf("got %d words, want 9", len(words))
	}
	if words[0].StartTime != 0 {
		t.Fatalf("first word starts at %v, want 0", words[0].StartTime)
	}
	for i := 1; i < len(words); i++ {
		if words[i].StartTime != words[i-1].EndTime {
			t.Fatalf("gap between word %d and %d: %v != %v",
				i-1, i, words[i-1].EndTime, words[i].StartTime)
		}
	}
	if words[len(words)-1].EndTime != 4.5 {
		t.Fatalf("last word ends at %v, want 4.5", words[len(words)-1].EndTime)
	}
}

func TestGenerateSegmentCaptions_PunctuationExtendsWindow(t *testing.T) {
	words := GenerateSegmentCaptions("abc abc. abc, abc", 4)
	plain := words[0].EndTime - words[0].StartTime
	sentence := words[1].EndTime - words[1].StartTime
	clause := words[2].EndTime - words[2].StartTime
	if sentence <= clause || clause <= plain {
		t.Fatalf("want sentence > clause > plain window, got %v, %v, %v",
			sentence, clause, plain)
	}
}

func TestGenerateSegmentCaptions_Empty(t *testing.T) {
	if got := GenerateSegmentCaptions("", 5); got != nil {
		t.Fatalf("empty script should yield nil, got %v", got)
	}
	if got := GenerateSegmentCaptions("   ", 5); got != nil {
		t.Fatalf("blank script should yield nil, got %v", got)
	}
	if got := GenerateSegmentCaptions("hello", 0); got != nil {
		t.Fatalf("zero duration should yield nil, got %v", got)
	}
}

func TestGenerateCaptions_OffsetsByPriorSegments(t *testing.T) {
	segments := []models.ScriptSegment{
		{ID: "seg-1", Script: "First segment here."},
		{ID: "seg-2", Script: "And the second one."},
	}
	durations := []float64{2.0, 3.0}

	all := GenerateCaptions(segments, durations)
	if len(all) != 7 {
		t.Fatalf("got %d words, want 7", len(all))
	}
	// Fourth word opens the second segment at its cumulative offset.
	if math.Abs(all[3].StartTime-2.0) > 1e-9 {
		t.Fatalf("second segment starts at %v, want 2.0", all[3].StartTime)
	}
	if math.Abs(all[len(all)-1].EndTime-5.0) > 1e-9 {
		t.Fatalf("timeline ends at %v, want 5.0", all[len(all)-1].EndTime)
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartTime < all[i-1].StartTime {
			t.Fatalf("caption timeline not monotonic at word %d", i)
		}
	}
}

func TestRenderSRT(t *testing.T) {
	words := []models.CaptionWord{
		{Text: "Hello", StartTime: 0, EndTime: 0.5},
		{Text: "world", StartTime: 0.5, EndTime: 1.25},
	}
	srt := RenderSRT(words)
	want := "1\n00:00:00,000 --> 00:00:00,500\nHello\n\n2\n00:00:00,500 --> 00:00:01,250\nworld\n\n"
	if srt != want {
		t.Fatalf("srt mismatch:\n%q\nwant\n%q", srt, want)
	}
	if !strings.HasSuffix(srt, "\n\n") {
		t.Fatal("srt must end with a blank line")
	}
}

func TestSRTTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.001, "00:01:01,001"},
		{3661.25, "01:01:01,250"},
		{-2, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := srtTimestamp(tc.seconds); got != tc.want {
			t.Fatalf("srtTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
