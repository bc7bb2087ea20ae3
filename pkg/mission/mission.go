package mission

import (
	"time"

	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/segment"
)

// Mission is one simulated pick-and-place attempt for one tracked object.
// Owned by the Controller; callers treat it as read-only and drive it via
// Advance and Abort.
type Mission struct {
	ID       uuid.UUID
	TargetID uuid.UUID
	Color    colorspec.Color

	// Source is the target centroid (pixels) at mission start.
	Source segment.Point

	// Zone is the destination derived from the target color.
	Zone DropZone

	Phase   Phase
	Outcome Outcome
	Reason  Reason

	// Steps counts Advance calls so far.
	Steps int

	StartedAt time.Time
	EndedAt   time.Time

	recorded bool
}

// Terminal reports whether the mission has finished.
func (m *Mission) Terminal() bool {
	return m.Phase.Terminal()
}

// Progress returns completion as a percentage of the full step budget.
// Terminal missions always report 100.
func (m *Mission) Progress(stepsPerPhase int) float64 {
	if m.Terminal() {
		return 100
	}
	total := movingPhases * stepsPerPhase
	if total <= 0 {
		return 0
	}
	pct := float64(m.Steps) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Duration returns the wall-clock length of a finished mission.
func (m *Mission) Duration() time.Duration {
	if m.EndedAt.IsZero() {
		return 0
	}
	return m.EndedAt.Sub(m.StartedAt)
}
