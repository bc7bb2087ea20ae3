package segment

import (
	"fmt"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
)

// Config holds the tunable parameters of the segmentation pipeline.
type Config struct {
	// MinArea filters out contours smaller than this (square pixels).
	MinArea float64

	// MinSolidity rejects concave contours: contour area divided by its
	// convex hull area must be at least this.
	MinSolidity float64

	// BlurKernel is the Gaussian blur kernel size (odd, pixels).
	BlurKernel int

	// MorphKernel is the open/close/dilate kernel size (pixels).
	MorphKernel int

	// Ranges are the HSV detection ranges, one entry per color.
	Ranges []colorspec.ColorRange

	// VerifyColor re-classifies each blob's sampled mean color and drops
	// blobs whose classification disagrees with their range label.
	VerifyColor bool
}

// DefaultConfig returns the recommended segmentation parameters.
func DefaultConfig() Config {
	return Config{
		MinArea:     1000,
		MinSolidity: 0.7,
		BlurKernel:  5,
		MorphKernel: 5,
		Ranges:      colorspec.DefaultRanges(),
		VerifyColor: true,
	}
}

// Validate checks the config values are usable.
func (c Config) Validate() error {
	if c.MinArea <= 0 {
		return fmt.Errorf("segment: min area must be positive, got %v", c.MinArea)
	}
	if c.MinSolidity <= 0 || c.MinSolidity > 1 {
		return fmt.Errorf("segment: min solidity must be in (0,1], got %v", c.MinSolidity)
	}
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		return fmt.Errorf("segment: blur kernel must be a positive odd number, got %d", c.BlurKernel)
	}
	if c.MorphKernel < 1 {
		return fmt.Errorf("segment: morph kernel must be positive, got %d", c.MorphKernel)
	}
	if len(c.Ranges) == 0 {
		return fmt.Errorf("segment: at least one color range is required")
	}
	return colorspec.ValidateRanges(c.Ranges)
}
