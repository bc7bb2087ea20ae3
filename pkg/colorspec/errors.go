package colorspec

import "errors"

var (
	// ErrInvalidRange is returned when an HSV range is malformed.
	ErrInvalidRange = errors.New("colorspec: invalid HSV range")

	// ErrEmptyDataset is returned when a dataset file contains no entries.
	ErrEmptyDataset = errors.New("colorspec: dataset contains no colors")
)
