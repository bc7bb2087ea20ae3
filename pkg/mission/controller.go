package mission

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/internal/log"
	"github.com/sortarm/go-sortarm/pkg/tracking"
)

// TrackSource is the tracker surface the controller needs: snapshot
// lookup plus reserving, releasing and evicting targets.
type TrackSource interface {
	Get(id uuid.UUID) (tracking.TrackedObject, bool)
	Hold(id uuid.UUID) error
	Release(id uuid.UUID) error
	Evict(id uuid.UUID) error
}

// Recorder receives terminal missions for aggregation.
type Recorder interface {
	Record(m *Mission) error
}

// Controller runs pick-and-place missions, one at a time, against the
// single simulated arm. Not safe for concurrent use.
type Controller struct {
	cfg     Config
	tracks  TrackSource
	rec     Recorder
	rng     *rand.Rand
	current *Mission
}

// NewController creates a mission controller. The recorder may be nil
// when no stats aggregation is wanted.
func NewController(cfg Config, tracks TrackSource, rec Recorder) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Controller{
		cfg:    cfg,
		tracks: tracks,
		rec:    rec,
		rng:    rng,
	}, nil
}

// StepsPerPhase returns the configured phase length, for progress
// reporting.
func (c *Controller) StepsPerPhase() int {
	return c.cfg.StepsPerPhase
}

// Zones returns the configured drop zone layout.
func (c *Controller) Zones() DropZoneMap {
	return c.cfg.Zones
}

// Current returns the in-flight mission, or nil when the arm is idle.
// A terminal mission counts as idle.
func (c *Controller) Current() *Mission {
	if c.current != nil && !c.current.Terminal() {
		return c.current
	}
	return nil
}

// Start validates the target and begins a mission in the approaching
// phase. Validation happens at call time: a target that went stale or was
// removed since selection fails with ErrInvalidTarget, a color with no
// drop zone fails with ErrUnmappedColor. The target track is held for the
// duration of the mission.
func (c *Controller) Start(targetID uuid.UUID) (*Mission, error) {
	if c.Current() != nil {
		return nil, ErrBusy
	}

	obj, ok := c.tracks.Get(targetID)
	if !ok || obj.State != tracking.StateActive {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, targetID)
	}

	zone, ok := c.cfg.Zones[obj.Color]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnmappedColor, obj.Color)
	}

	if err := c.tracks.Hold(targetID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, targetID)
	}

	m := &Mission{
		ID:        uuid.New(),
		TargetID:  targetID,
		Color:     obj.Color,
		Source:    obj.Center,
		Zone:      zone,
		Phase:     PhaseApproaching,
		Outcome:   OutcomePending,
		StartedAt: time.Now(),
	}
	c.current = m

	log.Info("mission started", "mission", m.ID, "color", m.Color, "zone", zone.Name)
	return m, nil
}

// Advance runs one simulation step. Phases complete after the configured
// step count; completing the grip phase rolls the simulated failure
// chance, and completing the release phase finishes the mission. Terminal
// missions are reported to the recorder exactly once. Advancing a
// terminal mission is a no-op.
func (c *Controller) Advance(m *Mission) *Mission {
	if m == nil || m.Terminal() {
		return m
	}

	m.Steps++
	if m.Steps%c.cfg.StepsPerPhase != 0 {
		return m
	}

	switch m.Phase {
	case PhaseGripping:
		if c.rng.Float64() < c.cfg.GripFailureProb {
			c.finishAborted(m, ReasonGripFailed)
			return m
		}
		m.Phase = m.Phase.next()
	case PhaseReleasing:
		c.finishDone(m)
	default:
		m.Phase = m.Phase.next()
	}
	return m
}

// Abort ends a mission from any non-terminal phase and synchronously
// releases the target back to active tracking. Always safe to call;
// aborting a terminal mission is a no-op.
func (c *Controller) Abort(m *Mission, reason Reason) {
	if m == nil || m.Terminal() {
		return
	}
	c.finishAborted(m, reason)
}

func (c *Controller) finishDone(m *Mission) {
	m.Phase = PhaseDone
	m.Outcome = OutcomeSuccess
	m.EndedAt = time.Now()
	// The object left the workspace; its track must not linger.
	if err := c.tracks.Evict(m.TargetID); err != nil && !errors.Is(err, tracking.ErrUnknownTrack) {
		log.Warn("evicting placed target", "target", m.TargetID, "error", err)
	}
	c.record(m)
	log.Info("mission done", "mission", m.ID, "color", m.Color, "zone", m.Zone.Name)
}

func (c *Controller) finishAborted(m *Mission, reason Reason) {
	m.Phase = PhaseAborted
	m.Outcome = OutcomeAborted
	m.Reason = reason
	m.EndedAt = time.Now()
	// No partial state may leak into the tracker: the target goes back
	// to active status.
	if err := c.tracks.Release(m.TargetID); err != nil && !errors.Is(err, tracking.ErrUnknownTrack) {
		log.Warn("releasing aborted target", "target", m.TargetID, "error", err)
	}
	c.record(m)
	log.Info("mission aborted", "mission", m.ID, "reason", reason)
}

// record reports a terminal mission to the recorder exactly once.
func (c *Controller) record(m *Mission) {
	if c.rec == nil || m.recorded {
		return
	}
	m.recorded = true
	if err := c.rec.Record(m); err != nil {
		log.Warn("recording mission", "mission", m.ID, "error", err)
	}
}

// RunBatch runs missions for the given targets strictly in input order,
// one at a time. A target that fails to start yields an aborted outcome
// for that slot rather than an error, so mixed batches report fully.
// With StopOnFailure set, the batch stops after the first non-success.
func (c *Controller) RunBatch(targets []uuid.UUID) []*Mission {
	outcomes := make([]*Mission, 0, len(targets))
	for _, target := range targets {
		m, err := c.Start(target)
		if err != nil {
			m = c.startFailure(target, err)
		} else {
			for !m.Terminal() {
				c.Advance(m)
			}
		}
		outcomes = append(outcomes, m)
		if c.cfg.StopOnFailure && m.Outcome != OutcomeSuccess {
			break
		}
	}
	return outcomes
}

// startFailure synthesizes a terminal mission for a target that could not
// start, so batch reports keep one outcome per input.
func (c *Controller) startFailure(target uuid.UUID, err error) *Mission {
	reason := ReasonTargetLost
	if errors.Is(err, ErrUnmappedColor) {
		reason = ReasonNoDropZone
	}
	m := &Mission{
		ID:        uuid.New(),
		TargetID:  target,
		Phase:     PhaseAborted,
		Outcome:   OutcomeAborted,
		Reason:    reason,
		StartedAt: time.Now(),
		EndedAt:   time.Now(),
	}
	if obj, ok := c.tracks.Get(target); ok {
		m.Color = obj.Color
		m.Source = obj.Center
	}
	c.record(m)
	log.Warn("batch target skipped", "target", target, "reason", reason)
	return m
}
