package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp turns a human timestamp ("90", "1:30" or "0:01:30") into
// seconds. Fractional seconds are allowed in the last field.
func ParseTimestamp(ts string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}
	var total float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil || val < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		total = total*60 + val
	}
	return total, nil
}

// FormatTimestamp renders seconds as "m:ss" or "h:mm:ss".
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

const (
	wordsPerSecond = 2.5
	sentencePause  = 0.35
)

// EstimateSpeechDuration predicts how long synthesized narration of text will
// run, in seconds. Used only for the informational runtime estimate on job
// creation; the pipeline always measures real durations.
func EstimateSpeechDuration(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	dur := float64(len(words)) / wordsPerSecond
	for _, w := range words {
		switch {
		case strings.HasSuffix(w, "."), strings.HasSuffix(w, "!"), strings.HasSuffix(w, "?"):
			dur += sentencePause
		}
	}
	if dur < 1 {
		dur = 1
	}
	return dur
}
