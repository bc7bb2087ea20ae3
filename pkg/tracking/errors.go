package tracking

import "errors"

var (
	// ErrUnknownTrack is returned when an operation names a track id that
	// does not exist (or was already evicted).
	ErrUnknownTrack = errors.New("tracking: unknown track")

	// ErrNotActive is returned when holding a track that is not currently
	// active.
	ErrNotActive = errors.New("tracking: track is not active")
)
