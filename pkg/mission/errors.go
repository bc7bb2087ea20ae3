package mission

import "errors"

var (
	// ErrInvalidTarget is returned when a mission starts against a target
	// that is not currently an active track.
	ErrInvalidTarget = errors.New("mission: target is not an active track")

	// ErrUnmappedColor is returned when the target color has no drop zone.
	ErrUnmappedColor = errors.New("mission: no drop zone configured for color")

	// ErrBusy is returned when a mission starts while the single simulated
	// arm is still running another one.
	ErrBusy = errors.New("mission: arm is busy")

	// ErrInvalidZone is returned for drop zone layouts that fall outside
	// the arm workspace.
	ErrInvalidZone = errors.New("mission: invalid drop zone")
)
