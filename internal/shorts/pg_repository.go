package shorts

import (
	"context"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

// Repository serves the voice and music catalogs.
type Repository interface {
	GetVoiceByID(ctx context.Context, voiceID string) (*models.Voice, error)
	ListVoices(ctx context.Context) ([]*models.Voice, error)
	GetTrackByID(ctx context.Context, trackID string) (*models.MusicTrack, error)
	ListTracks(ctx context.Context) ([]*models.MusicTrack, error)
}
