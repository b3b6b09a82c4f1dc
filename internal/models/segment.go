package models

// ScriptSegment is one narrated beat of the output short. Segments are
// processed and stitched in slice order; that order defines the output.
// SourceTimecode is an optional human form ("1:30") resolved into
// SourceTimestamp at submission.
type ScriptSegment struct {
	ID                string  `json:"id" redis:"id" validate:"required"`
	OutputTime        float64 `json:"output_time" redis:"output_time" validate:"gte=0"`
	Script            string  `json:"script" redis:"script" validate:"required"`
	SourceTimestamp   float64 `json:"source_timestamp" redis:"source_timestamp" validate:"gte=0"`
	SourceTimecode    string  `json:"source_timecode,omitempty" redis:"source_timecode"`
	SourceDescription string  `json:"source_description,omitempty" redis:"source_description"`
}

// CaptionWord is one display-caption word with its timing window, in seconds
// relative to the start of the stitched output.
type CaptionWord struct {
	Text      string  `json:"text" redis:"text"`
	StartTime float64 `json:"start_time" redis:"start_time"`
	EndTime   float64 `json:"end_time" redis:"end_time"`
}

// CropRegion is an axis-aligned rectangle in source-pixel coordinates.
// A valid region lies fully inside the source frame and matches the 9:16
// output aspect within one pixel of rounding.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
