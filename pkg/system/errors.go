package system

import "errors"

var (
	// ErrQueueFull is returned when the command queue cannot accept
	// another command this tick.
	ErrQueueFull = errors.New("system: command queue full")

	// ErrSourceClosed is returned when the frame source has no more
	// frames to deliver.
	ErrSourceClosed = errors.New("system: frame source closed")
)
