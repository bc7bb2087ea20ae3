// Package tracking maintains stable object identities across frames from
// noisy per-frame blob detections.
package tracking

import (
	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/segment"
)

// State is the lifecycle state of a tracked object.
type State int

const (
	// StateProvisional is a new track that has not yet survived enough
	// consecutive frames to be trusted.
	StateProvisional State = iota

	// StateActive is a confirmed track matched in the latest frame.
	StateActive

	// StateHeld is an active track reserved by an in-flight mission. Held
	// tracks do not participate in association and do not age.
	StateHeld

	// StateStale is a confirmed track unmatched in recent frames but not
	// yet evicted.
	StateStale

	// StateRemoved marks a track evicted after exceeding the miss budget.
	// Removed tracks never appear in tracker output.
	StateRemoved
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateProvisional:
		return "provisional"
	case StateActive:
		return "active"
	case StateHeld:
		return "held"
	case StateStale:
		return "stale"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// TrackedObject is a snapshot of one persistent object identity.
type TrackedObject struct {
	ID         uuid.UUID
	Color      colorspec.Color
	Center     segment.Point
	BBox       segment.Rect
	Area       float64
	MeanBGR    [3]float64
	State      State
	FirstFrame int
	LastSeen   int
	Hits       int
	Misses     int
}

// track is the tracker-owned mutable record behind a TrackedObject.
type track struct {
	TrackedObject
	smoother smoother
}

func (t *track) snapshot() TrackedObject {
	return t.TrackedObject
}
