package shorts

import "github.com/pkg/errors"

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrVoiceNotFound = errors.New("voice not found")
	ErrTrackNotFound = errors.New("music track not found")
)
