package pipeline

import "github.com/amankumarsingh77/shortform-backend/internal/models"

// Each stage owns a fixed slice of the global progress percentage. The three
// per-segment media stages share one span and advance through it by segment
// index, so reported progress only ever moves forward.
type stageSpan struct {
	start float64
	end   float64
}

var stageSpans = map[models.JobStage]stageSpan{
	models.StageQueued:     {0, 0},
	models.StageLoading:    {0, 8},
	models.StageTTS:        {8, 30},
	models.StageExtracting: {30, 80},
	models.StageDetecting:  {30, 80},
	models.StageCropping:   {30, 80},
	models.StageStitching:  {80, 97},
	models.StageComplete:   {100, 100},
}

func progressFor(stage models.JobStage, fraction float64) float64 {
	span := stageSpans[stage]
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return span.start + (span.end-span.start)*fraction
}

// segmentFraction positions segment index (plus a sub-stage offset in [0,1))
// inside a stage span.
func segmentFraction(index, total int, sub float64) float64 {
	if total <= 0 {
		return 0
	}
	return (float64(index) + sub) / float64(total)
}
