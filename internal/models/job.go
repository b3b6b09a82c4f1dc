package models

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
	JobStatusError      JobStatus = "error"
)

// Terminal reports whether a status can never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusError
}

type JobStage string

const (
	StageQueued     JobStage = "queued"
	StageLoading    JobStage = "loading"
	StageTTS        JobStage = "tts"
	StageExtracting JobStage = "extracting"
	StageDetecting  JobStage = "detecting"
	StageCropping   JobStage = "cropping"
	StageStitching  JobStage = "stitching"
	StageComplete   JobStage = "complete"
)

// ProcessingJob is the full job record persisted by the job tracker. The
// orchestrator is its only writer after creation.
type ProcessingJob struct {
	JobID          string    `json:"job_id" redis:"job_id" validate:"omitempty"`
	Status         JobStatus `json:"status" redis:"status" validate:"required"`
	Stage          JobStage  `json:"stage" redis:"stage" validate:"omitempty"`
	Progress       float64   `json:"progress" redis:"progress" validate:"gte=0,lte=100"`
	CurrentSegment int       `json:"current_segment" redis:"current_segment"`
	TotalSegments  int       `json:"total_segments" redis:"total_segments"`
	Message        string    `json:"message" redis:"message"`
	Error          string    `json:"error,omitempty" redis:"error"`

	VideoURL    string          `json:"video_url" redis:"video_url" validate:"required"`
	Segments    []ScriptSegment `json:"segments" redis:"segments" validate:"required,min=1,dive"`
	VoiceID     string          `json:"voice_id" redis:"voice_id" validate:"required"`
	MusicID     string          `json:"music_id,omitempty" redis:"music_id"`
	MusicVolume float64         `json:"music_volume" redis:"music_volume" validate:"gte=0,lte=1"`
	Captions    bool            `json:"captions" redis:"captions"`

	OutputKey         string        `json:"output_key,omitempty" redis:"output_key"`
	OutputURL         string        `json:"output_url,omitempty" redis:"output_url"`
	CaptionWords      []CaptionWord `json:"caption_words,omitempty" redis:"caption_words"`
	EstimatedDuration float64       `json:"estimated_duration,omitempty" redis:"estimated_duration"`

	CreatedAt   time.Time  `json:"created_at" redis:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" redis:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" redis:"completed_at"`
}

// JobUpdate is a partial update applied by the tracker. Nil fields are left
// untouched so progress writes never clobber concurrent reads of other fields.
type JobUpdate struct {
	Status         *JobStatus
	Stage          *JobStage
	Progress       *float64
	CurrentSegment *int
	Message        *string
	Error          *string
	OutputKey      *string
	OutputURL      *string
	CaptionWords   []CaptionWord
	CompletedAt    *time.Time
}

// CreateShortInput is the job submission payload. It is validated before any
// job record is created. MusicVolume is a pointer so an explicit zero gain is
// distinguishable from the field being omitted.
type CreateShortInput struct {
	VideoURL    string          `json:"video_url" validate:"required"`
	Segments    []ScriptSegment `json:"segments" validate:"required,min=1,dive"`
	VoiceID     string          `json:"voice_id" validate:"required"`
	MusicID     string          `json:"music_id" validate:"omitempty"`
	MusicVolume *float64        `json:"music_volume,omitempty" validate:"omitempty,gte=0,lte=1"`
	Captions    bool            `json:"captions"`
}
