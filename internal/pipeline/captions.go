package pipeline

import (
	"fmt"
	"strings"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

const (
	sentencePauseWeight = 3.0
	clausePauseWeight   = 1.5
)

// wordWeight is the relative share of speaking time a word takes: its
// character count plus a pause bonus for trailing punctuation.
func wordWeight(word string) float64 {
	weight := float64(len(word))
	switch {
	case strings.HasSuffix(word, "."), strings.HasSuffix(word, "!"), strings.HasSuffix(word, "?"):
		weight += sentencePauseWeight
	case strings.HasSuffix(word, ","), strings.HasSuffix(word, ";"), strings.HasSuffix(word, ":"):
		weight += clausePauseWeight
	}
	return weight
}

// GenerateSegmentCaptions assigns each word of the script a window inside
// [0, duration) proportional to its weight. Windows tile the segment with no
// gaps or overlaps and the final word's end is forced to the exact boundary
// to absorb rounding.
func GenerateSegmentCaptions(script string, duration float64) []models.CaptionWord {
	fields := strings.Fields(script)
	if len(fields) == 0 || duration <= 0 {
		return nil
	}

	var totalWeight float64
	for _, w := range fields {
		totalWeight += wordWeight(w)
	}

	words := make([]models.CaptionWord, 0, len(fields))
	cursor := 0.0
	for i, w := range fields {
		end := cursor + duration*wordWeight(w)/totalWeight
		if i == len(fields)-1 {
			end = duration
		}
		words = append(words, models.CaptionWord{
			Text:      w,
			StartTime: cursor,
			EndTime:   end,
		})
		cursor = end
	}
	return words
}

// GenerateCaptions builds the global caption timeline: each segment's word
// windows offset by the cumulative duration of all prior segments.
func GenerateCaptions(segments []models.ScriptSegment, durations []float64) []models.CaptionWord {
	var all []models.CaptionWord
	offset := 0.0
	for i, seg := range segments {
		if i >= len(durations) {
			break
		}
		for _, w := range GenerateSegmentCaptions(seg.Script, durations[i]) {
			all = append(all, models.CaptionWord{
				Text:      w.Text,
				StartTime: offset + w.StartTime,
				EndTime:   offset + w.EndTime,
			})
		}
		offset += durations[i]
	}
	return all
}

// RenderSRT formats caption words as an SRT document, one cue per word.
func RenderSRT(words []models.CaptionWord) string {
	var b strings.Builder
	for i, w := range words {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(w.StartTime), srtTimestamp(w.EndTime), w.Text)
	}
	return b.String()
}

func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
