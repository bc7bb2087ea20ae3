package mission

import (
	"fmt"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/segment"
)

// DropZone is a destination location in arm workspace coordinates.
type DropZone struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// DropZoneMap maps a color label to its destination zone. Immutable
// during a run.
type DropZoneMap map[colorspec.Color]DropZone

// DefaultDropZones returns the stock three-bin layout along the bottom of
// the workspace.
func DefaultDropZones() DropZoneMap {
	return DropZoneMap{
		colorspec.Red:   {Name: "red-bin", X: 100, Y: 350, Z: 50},
		colorspec.Green: {Name: "green-bin", X: 300, Y: 350, Z: 50},
		colorspec.Blue:  {Name: "blue-bin", X: 500, Y: 350, Z: 50},
	}
}

// Validate checks that every zone lies inside the arm workspace.
func (m DropZoneMap) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("%w: no zones configured", ErrInvalidZone)
	}
	for color, zone := range m {
		if zone.Name == "" {
			return fmt.Errorf("%w: %s zone has no name", ErrInvalidZone, color)
		}
		if zone.X < 0 || zone.X > segment.WorkspaceWidth ||
			zone.Y < 0 || zone.Y > segment.WorkspaceHeight {
			return fmt.Errorf("%w: %s zone outside workspace", ErrInvalidZone, color)
		}
		if zone.Z < 0 {
			return fmt.Errorf("%w: %s zone below table", ErrInvalidZone, color)
		}
	}
	return nil
}
