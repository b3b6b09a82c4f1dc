package utils

import (
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"90", 90, false},
		{"1:30", 90, false},
		{"0:01:30", 90, false},
		{"2:15.5", 135.5, false},
		{"1:02:03", 3723, false},
		{"", 0, true},
		{"1:2:3:4", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{90, "1:30"},
		{3723, "1:02:03"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEstimateSpeechDuration(t *testing.T) {
	if got := EstimateSpeechDuration(""); got != 0 {
		t.Errorf("empty text should estimate 0, got %v", got)
	}
	short := EstimateSpeechDuration("Hi")
	if short < 1 {
		t.Errorf("estimate should be floored at 1s, got %v", short)
	}
	plain := EstimateSpeechDuration("one two three four five")
	punct := EstimateSpeechDuration("one two three. four five.")
	if punct <= plain {
		t.Errorf("sentence punctuation should add pause time: %v <= %v", punct, plain)
	}
}
