package system

import (
	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
)

// CommandKind identifies an operator action queued to the driver loop.
type CommandKind int

const (
	// CommandSelect marks a track as the current target.
	CommandSelect CommandKind = iota
	// CommandClear drops the current selection.
	CommandClear
	// CommandPick starts a mission for the selected (or named) target.
	CommandPick
	// CommandBatch queues missions for every matching object.
	CommandBatch
	// CommandAbort cancels the in-flight mission.
	CommandAbort
	// CommandResetStats zeroes the statistics recorder.
	CommandResetStats
)

func (k CommandKind) String() string {
	switch k {
	case CommandSelect:
		return "select"
	case CommandClear:
		return "clear"
	case CommandPick:
		return "pick"
	case CommandBatch:
		return "batch"
	case CommandAbort:
		return "abort"
	case CommandResetStats:
		return "reset-stats"
	default:
		return "unknown"
	}
}

// Command is one operator action. Handlers queue commands; the driver
// loop executes them between frames, so the core stays single-threaded.
type Command struct {
	Kind CommandKind

	// Target is the track id for select and pick commands.
	Target uuid.UUID

	// Color restricts a batch to one color. Empty means all objects.
	Color colorspec.Color
}
