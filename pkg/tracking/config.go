package tracking

import "fmt"

// SmootherKind selects the centroid smoothing filter.
type SmootherKind int

const (
	// SmootherEWMA blends new observations with the previous centroid
	// using an exponential moving average.
	SmootherEWMA SmootherKind = iota

	// SmootherKalman smooths centroids with a 2D Kalman filter.
	SmootherKalman
)

// Matching selects the blob-to-track assignment algorithm.
type Matching int

const (
	// MatchingGreedy assigns blobs to their nearest track in ascending
	// distance order. Deterministic and the default.
	MatchingGreedy Matching = iota

	// MatchingHungarian computes an optimal assignment (Kuhn-Munkres).
	MatchingHungarian
)

// Config holds all tunable parameters for object tracking.
type Config struct {
	// MatchDistance is the maximum centroid distance (pixels) for a blob
	// to associate with an existing track.
	MatchDistance float64

	// MaxMisses is how many consecutive unmatched frames a confirmed
	// track survives before eviction.
	MaxMisses int

	// ConfirmFrames is how many consecutive frames a new track must be
	// seen before it becomes active.
	ConfirmFrames int

	// Smoothing is the EWMA weight of the new observation (0-1, higher =
	// more responsive).
	Smoothing float64

	// Smoother selects the centroid filter.
	Smoother SmootherKind

	// Matching selects the association algorithm.
	Matching Matching
}

// DefaultConfig returns the recommended tracking parameters, tuned for
// palm-sized objects in a 640x480 frame.
func DefaultConfig() Config {
	return Config{
		MatchDistance: 40,
		MaxMisses:     15,
		ConfirmFrames: 3,
		Smoothing:     0.6,
		Smoother:      SmootherEWMA,
		Matching:      MatchingGreedy,
	}
}

// ResponsiveConfig returns a configuration that confirms and follows
// objects faster at the cost of more jitter.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.MatchDistance = 60
	cfg.ConfirmFrames = 2
	cfg.Smoothing = 0.8
	return cfg
}

// Validate checks the config values are usable.
func (c Config) Validate() error {
	if c.MatchDistance <= 0 {
		return fmt.Errorf("tracking: match distance must be positive, got %v", c.MatchDistance)
	}
	if c.MaxMisses < 1 {
		return fmt.Errorf("tracking: max misses must be at least 1, got %d", c.MaxMisses)
	}
	if c.ConfirmFrames < 1 {
		return fmt.Errorf("tracking: confirm frames must be at least 1, got %d", c.ConfirmFrames)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("tracking: smoothing must be in (0,1], got %v", c.Smoothing)
	}
	return nil
}
