// Package colorspec defines the color vocabulary of the sorting system:
// HSV threshold ranges per color and pixel-level classification.
package colorspec

import "fmt"

// Color is a discrete color label produced by segmentation.
type Color string

// Colors the default pipeline knows how to sort.
const (
	Red   Color = "Red"
	Green Color = "Green"
	Blue  Color = "Blue"
	Other Color = "Other"
)

// HSV is a color in OpenCV's HSV encoding: hue 0-180, saturation and
// value 0-255.
type HSV struct {
	H uint8
	S uint8
	V uint8
}

// HSVRange is an inclusive lower/upper bound pair in HSV space.
type HSVRange struct {
	Lo HSV
	Hi HSV
}

// ColorRange binds a color label to one or more HSV ranges. Colors that
// wrap around the hue axis (red) need multiple disjoint ranges.
type ColorRange struct {
	Color  Color
	Ranges []HSVRange
}

// Validate checks that every range is a valid HSV interval.
func (cr ColorRange) Validate() error {
	if cr.Color == "" {
		return fmt.Errorf("%w: empty color label", ErrInvalidRange)
	}
	if len(cr.Ranges) == 0 {
		return fmt.Errorf("%w: %s has no HSV ranges", ErrInvalidRange, cr.Color)
	}
	for _, r := range cr.Ranges {
		if r.Lo.H > 180 || r.Hi.H > 180 {
			return fmt.Errorf("%w: %s hue out of 0-180", ErrInvalidRange, cr.Color)
		}
		if r.Lo.H > r.Hi.H || r.Lo.S > r.Hi.S || r.Lo.V > r.Hi.V {
			return fmt.Errorf("%w: %s lower bound above upper bound", ErrInvalidRange, cr.Color)
		}
	}
	return nil
}

// DefaultRanges returns the stock detection ranges. Red is split across
// the hue wrap-around.
func DefaultRanges() []ColorRange {
	return []ColorRange{
		{
			Color: Red,
			Ranges: []HSVRange{
				{Lo: HSV{0, 100, 100}, Hi: HSV{10, 255, 255}},
				{Lo: HSV{160, 100, 100}, Hi: HSV{180, 255, 255}},
			},
		},
		{
			Color:  Green,
			Ranges: []HSVRange{{Lo: HSV{35, 50, 50}, Hi: HSV{90, 255, 255}}},
		},
		{
			Color:  Blue,
			Ranges: []HSVRange{{Lo: HSV{95, 50, 50}, Hi: HSV{135, 255, 255}}},
		},
	}
}

// ValidateRanges validates a full range set and rejects duplicate labels.
func ValidateRanges(ranges []ColorRange) error {
	seen := make(map[Color]struct{}, len(ranges))
	for _, cr := range ranges {
		if err := cr.Validate(); err != nil {
			return err
		}
		if _, dup := seen[cr.Color]; dup {
			return fmt.Errorf("%w: duplicate ranges for %s", ErrInvalidRange, cr.Color)
		}
		seen[cr.Color] = struct{}{}
	}
	return nil
}
