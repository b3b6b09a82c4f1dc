package pipeline

import (
	"testing"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

func TestProgressFor_StageOrdering(t *testing.T) {
	order := []models.JobStage{
		models.StageQueued,
		models.StageLoading,
		models.StageTTS,
		models.StageExtracting,
		models.StageStitching,
		models.StageComplete,
	}
	prev := -1.0
	for _, stage := range order {
		start := progressFor(stage, 0)
		if start < prev {
			t.Fatalf("stage %s starts at %v, below previous stage end %v", stage, start, prev)
		}
		end := progressFor(stage, 1)
		if end < start {
			t.Fatalf("stage %s span inverted: %v..%v", stage, start, end)
		}
		prev = end
	}
	if progressFor(models.StageComplete, 1) != 100 {
		t.Fatal("complete stage must report 100")
	}
}

func TestProgressFor_ClampsFraction(t *testing.T) {
	if got := progressFor(models.StageTTS, -0.5); got != 8 {
		t.Fatalf("negative fraction should clamp to span start, got %v", got)
	}
	if got := progressFor(models.StageTTS, 1.5); got != 30 {
		t.Fatalf("excess fraction should clamp to span end, got %v", got)
	}
}

func TestSegmentFraction(t *testing.T) {
	if got := segmentFraction(0, 4, 0); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := segmentFraction(2, 4, 0.5); got != 0.625 {
		t.Fatalf("got %v, want 0.625", got)
	}
	if got := segmentFraction(0, 0, 0.5); got != 0 {
		t.Fatalf("zero total should yield 0, got %v", got)
	}
	// Later segments always sit deeper in the span.
	prev := -1.0
	for i := 0; i < 5; i++ {
		f := segmentFraction(i, 5, 0.3)
		if f <= prev {
			t.Fatalf("segment fractions not increasing at %d", i)
		}
		prev = f
	}
}
