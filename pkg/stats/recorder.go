// Package stats aggregates terminal mission outcomes into per-run
// sorting statistics.
package stats

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/mission"
)

// ErrNotTerminal is returned when a mission is recorded before it
// finished.
var ErrNotTerminal = errors.New("stats: mission is not terminal")

// defaultHistory caps how many finished missions are kept for replay in
// the dashboard.
const defaultHistory = 100

// ColorStats is the per-color attempt breakdown.
type ColorStats struct {
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Entry is one finished mission as kept in the history ring.
type Entry struct {
	MissionID uuid.UUID       `json:"mission_id"`
	TargetID  uuid.UUID       `json:"target_id"`
	Color     colorspec.Color `json:"color"`
	Outcome   string          `json:"outcome"`
	Reason    string          `json:"reason,omitempty"`
	Duration  time.Duration   `json:"duration"`
	EndedAt   time.Time       `json:"ended_at"`
}

// Snapshot is a point-in-time view of the aggregated counters.
type Snapshot struct {
	Attempts    int     `json:"attempts"`
	Successes   int     `json:"successes"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"success_rate"`

	ByColor map[colorspec.Color]ColorStats `json:"by_color"`

	// Durations of successful missions, in seconds.
	MeanDuration   float64 `json:"mean_duration_s"`
	StdDevDuration float64 `json:"stddev_duration_s"`

	Uptime time.Duration `json:"uptime"`
}

// Recorder accumulates mission outcomes. Safe for concurrent use; the
// mission loop writes while dashboard handlers read.
type Recorder struct {
	mu        sync.RWMutex
	seen      map[uuid.UUID]struct{}
	attempts  int
	successes int
	failures  int
	byColor   map[colorspec.Color]*ColorStats
	durations []float64
	history   []Entry
	maxHist   int
	started   time.Time
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		seen:    make(map[uuid.UUID]struct{}),
		byColor: make(map[colorspec.Color]*ColorStats),
		maxHist: defaultHistory,
		started: time.Now(),
	}
}

// Record folds a terminal mission into the counters. Recording the same
// mission twice is a no-op, so retries never inflate the totals.
func (r *Recorder) Record(m *mission.Mission) error {
	if !m.Terminal() {
		return ErrNotTerminal
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[m.ID]; ok {
		return nil
	}
	r.seen[m.ID] = struct{}{}

	r.attempts++
	cs, ok := r.byColor[m.Color]
	if !ok {
		cs = &ColorStats{}
		r.byColor[m.Color] = cs
	}
	cs.Attempts++

	if m.Outcome == mission.OutcomeSuccess {
		r.successes++
		cs.Successes++
		r.durations = append(r.durations, m.Duration().Seconds())
	} else {
		r.failures++
		cs.Failures++
	}

	r.history = append(r.history, Entry{
		MissionID: m.ID,
		TargetID:  m.TargetID,
		Color:     m.Color,
		Outcome:   m.Outcome.String(),
		Reason:    string(m.Reason),
		Duration:  m.Duration(),
		EndedAt:   m.EndedAt,
	})
	if len(r.history) > r.maxHist {
		r.history = r.history[len(r.history)-r.maxHist:]
	}
	return nil
}

// Snapshot returns a copy of the current counters.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Attempts:  r.attempts,
		Successes: r.successes,
		Failures:  r.failures,
		ByColor:   make(map[colorspec.Color]ColorStats, len(r.byColor)),
		Uptime:    time.Since(r.started),
	}
	for color, cs := range r.byColor {
		s.ByColor[color] = *cs
	}
	if r.attempts > 0 {
		s.SuccessRate = float64(r.successes) / float64(r.attempts)
	}
	if len(r.durations) > 0 {
		s.MeanDuration = stat.Mean(r.durations, nil)
	}
	if len(r.durations) > 1 {
		s.StdDevDuration = stat.StdDev(r.durations, nil)
	}
	return s
}

// History returns up to n finished missions, most recent first. n <= 0
// returns the full retained history.
func (r *Recorder) History(n int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || n > len(r.history) {
		n = len(r.history)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = r.history[len(r.history)-1-i]
	}
	return out
}

// Reset clears all counters and history and restarts the uptime clock.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen = make(map[uuid.UUID]struct{})
	r.attempts = 0
	r.successes = 0
	r.failures = 0
	r.byColor = make(map[colorspec.Color]*ColorStats)
	r.durations = nil
	r.history = nil
	r.started = time.Now()
}
