package models

// Voice is a named synthesis profile. Model assets live in S3 and are pulled
// lazily by the synthesizer the first time the voice is used.
type Voice struct {
	VoiceID     string `json:"voice_id" db:"voice_id" validate:"required"`
	Name        string `json:"name" db:"name" validate:"required,lte=255"`
	Language    string `json:"language" db:"language" validate:"required,lte=20"`
	Gender      string `json:"gender" db:"gender" validate:"omitempty,lte=20"`
	ModelS3Key  string `json:"model_s3_key" db:"model_s3_key" validate:"required,lte=255"`
	ConfigS3Key string `json:"config_s3_key" db:"config_s3_key" validate:"required,lte=255"`
}

type MusicTrack struct {
	TrackID  string  `json:"track_id" db:"track_id" validate:"required"`
	Name     string  `json:"name" db:"name" validate:"required,lte=255"`
	Category string  `json:"category" db:"category" validate:"omitempty,lte=50"`
	Duration float64 `json:"duration" db:"duration" validate:"gte=0"`
	S3Key    string  `json:"s3_key" db:"s3_key" validate:"required,lte=255"`
}
