package mission

import (
	"fmt"
	"math/rand"
)

// Config holds the tunable parameters of the mission simulation.
type Config struct {
	// StepsPerPhase is how many Advance calls each phase takes.
	StepsPerPhase int

	// GripFailureProb is the simulated probability of a gripping failure
	// (0-1). Zero means grips always succeed.
	GripFailureProb float64

	// StopOnFailure stops a batch after the first non-success outcome.
	StopOnFailure bool

	// Zones maps colors to their destination drop zones.
	Zones DropZoneMap

	// Rand is the source for failure rolls. Left nil, the controller
	// seeds one from the wall clock; tests inject a fixed seed.
	Rand *rand.Rand
}

// DefaultConfig returns the recommended simulation parameters.
func DefaultConfig() Config {
	return Config{
		StepsPerPhase:   5,
		GripFailureProb: 0,
		StopOnFailure:   false,
		Zones:           DefaultDropZones(),
	}
}

// Validate checks the config values are usable.
func (c Config) Validate() error {
	if c.StepsPerPhase < 1 {
		return fmt.Errorf("mission: steps per phase must be at least 1, got %d", c.StepsPerPhase)
	}
	if c.GripFailureProb < 0 || c.GripFailureProb > 1 {
		return fmt.Errorf("mission: grip failure probability must be in [0,1], got %v", c.GripFailureProb)
	}
	return c.Zones.Validate()
}
