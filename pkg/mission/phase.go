// Package mission simulates the robotic arm's pick-and-place sequence as
// an explicit state machine driven by simulation steps.
package mission

// Phase is the arm's position in the pick-and-place sequence.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseApproaching
	PhaseGripping
	PhaseLifting
	PhaseTransporting
	PhaseReleasing
	PhaseDone
	PhaseAborted
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseApproaching:
		return "approaching"
	case PhaseGripping:
		return "gripping"
	case PhaseLifting:
		return "lifting"
	case PhaseTransporting:
		return "transporting"
	case PhaseReleasing:
		return "releasing"
	case PhaseDone:
		return "done"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends a mission.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseAborted
}

// next returns the phase that follows p in a successful run.
func (p Phase) next() Phase {
	switch p {
	case PhaseApproaching:
		return PhaseGripping
	case PhaseGripping:
		return PhaseLifting
	case PhaseLifting:
		return PhaseTransporting
	case PhaseTransporting:
		return PhaseReleasing
	case PhaseReleasing:
		return PhaseDone
	default:
		return p
	}
}

// movingPhases is the number of non-terminal phases a successful mission
// passes through, used for progress reporting.
const movingPhases = 5

// Outcome is the recorded result of a mission.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeAborted
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Reason explains a non-success outcome.
type Reason string

const (
	// ReasonGripFailed is a simulated gripper failure during the grip phase.
	ReasonGripFailed Reason = "grip_failed"

	// ReasonOperatorAbort is an explicit abort command.
	ReasonOperatorAbort Reason = "operator_abort"

	// ReasonTargetLost means the target was no longer an active track when
	// the mission tried to start.
	ReasonTargetLost Reason = "target_lost"

	// ReasonNoDropZone means the target color has no configured drop zone.
	ReasonNoDropZone Reason = "no_drop_zone"
)
