// Package system runs the frame-to-mission driver loop: capture,
// segmentation, tracking, mission advancement and status publication,
// all on a single goroutine.
package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/sortarm/go-sortarm/internal/log"
	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/mission"
	"github.com/sortarm/go-sortarm/pkg/segment"
	"github.com/sortarm/go-sortarm/pkg/stats"
	"github.com/sortarm/go-sortarm/pkg/tracking"
)

// FrameSource delivers BGR frames to the loop. Read reports false when
// no more frames are available.
type FrameSource interface {
	Read(dst *gocv.Mat) bool
	Close() error
}

// Segmenter turns a frame into color blobs.
type Segmenter interface {
	Segment(img gocv.Mat, frame int) ([]segment.Blob, error)
}

// Publisher receives the per-tick status snapshot, the annotated camera
// frame and operator-facing event lines. Implementations must not block.
type Publisher interface {
	PublishStatus(s StatusSnapshot)
	PublishFrame(jpeg []byte)
	PublishLog(logType, message string)
}

// ObjectStatus is the wire form of a tracked object.
type ObjectStatus struct {
	ID     uuid.UUID       `json:"id"`
	Color  colorspec.Color `json:"color"`
	State  string          `json:"state"`
	Center segment.Point   `json:"center"`
	Area   float64         `json:"area"`
	Hits   int             `json:"hits"`
	Misses int             `json:"misses"`

	// Workspace is the arm-frame position of the object.
	Workspace [3]float64 `json:"workspace"`

	// Label is the nearest named color from the loaded dataset, when one
	// is configured.
	Label string `json:"label,omitempty"`
}

// MissionStatus is the wire form of the in-flight mission.
type MissionStatus struct {
	ID       uuid.UUID       `json:"id"`
	TargetID uuid.UUID       `json:"target_id"`
	Color    colorspec.Color `json:"color"`
	Phase    string          `json:"phase"`
	Zone     string          `json:"zone"`
	Progress float64         `json:"progress"`
}

// StatusSnapshot is the full dashboard state published each tick.
type StatusSnapshot struct {
	Frame    int            `json:"frame"`
	Time     time.Time      `json:"time"`
	Objects  []ObjectStatus `json:"objects"`
	Selected *uuid.UUID     `json:"selected,omitempty"`
	Mission  *MissionStatus `json:"mission,omitempty"`
	Stats    stats.Snapshot `json:"stats"`
}

// Config holds the driver loop parameters.
type Config struct {
	// TickInterval is the target frame cadence.
	TickInterval time.Duration

	// Annotate draws detections and drop zones on published frames.
	Annotate bool

	// QueueSize bounds the operator command queue.
	QueueSize int
}

// DefaultConfig returns a 30fps loop with annotation on.
func DefaultConfig() Config {
	return Config{
		TickInterval: 33 * time.Millisecond,
		Annotate:     true,
		QueueSize:    32,
	}
}

// Validate checks the config values are usable.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("system: tick interval must be positive, got %v", c.TickInterval)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("system: queue size must be at least 1, got %d", c.QueueSize)
	}
	return nil
}

// System owns the sorting core. All state is mutated from Step, which
// callers must drive from a single goroutine; concurrent surfaces
// (dashboard handlers) talk to it only through Enqueue and the
// published snapshots.
type System struct {
	cfg      Config
	source   FrameSource
	seg      Segmenter
	tracker  *tracking.Tracker
	selector *tracking.Selector
	ctrl     *mission.Controller
	rec      *stats.Recorder
	pub      Publisher

	cmds    chan Command
	pending []uuid.UUID
	current *mission.Mission
	frame   int
	mat     gocv.Mat
	dataset *colorspec.Dataset
}

// New wires the sorting core together. The publisher may be nil for
// headless runs.
func New(cfg Config, source FrameSource, seg Segmenter, tracker *tracking.Tracker,
	ctrl *mission.Controller, rec *stats.Recorder, pub Publisher) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &System{
		cfg:      cfg,
		source:   source,
		seg:      seg,
		tracker:  tracker,
		selector: tracking.NewSelector(),
		ctrl:     ctrl,
		rec:      rec,
		pub:      pub,
		cmds:     make(chan Command, cfg.QueueSize),
		mat:      gocv.NewMat(),
	}, nil
}

// SetPublisher attaches the publisher after construction. The dashboard
// server needs the system as its command sink, so the two are wired in
// two steps. Call before Run.
func (s *System) SetPublisher(pub Publisher) {
	s.pub = pub
}

// SetDataset attaches a color-name dataset; objects in published
// snapshots then carry the nearest named color of their sampled mean.
func (s *System) SetDataset(ds *colorspec.Dataset) {
	s.dataset = ds
}

// Enqueue queues an operator command for the next tick. Never blocks.
func (s *System) Enqueue(cmd Command) error {
	select {
	case s.cmds <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Step processes one frame end to end: capture, segment, track, apply
// queued commands, advance the in-flight mission, publish.
func (s *System) Step() error {
	if ok := s.source.Read(&s.mat); !ok || s.mat.Empty() {
		return ErrSourceClosed
	}
	s.frame++

	blobs, err := s.seg.Segment(s.mat, s.frame)
	if err != nil {
		return fmt.Errorf("segmenting frame %d: %w", s.frame, err)
	}
	s.tracker.Update(blobs, s.frame)
	s.selector.Refresh(s.tracker.Objects())

	s.drainCommands()
	s.advanceMission()
	s.publish()
	return nil
}

// Run drives Step at the configured cadence until the context is
// cancelled or the frame source runs out.
func (s *System) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Step(); err != nil {
				if errors.Is(err, ErrSourceClosed) {
					return err
				}
				log.Error("step failed", "frame", s.frame, "error", err)
			}
		}
	}
}

// Close releases the capture buffer and the frame source.
func (s *System) Close() error {
	err := s.source.Close()
	s.mat.Close()
	return err
}

// drainCommands applies every queued operator command.
func (s *System) drainCommands() {
	for {
		select {
		case cmd := <-s.cmds:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *System) apply(cmd Command) {
	log.Debug("applying command", "kind", cmd.Kind, "frame", s.frame)

	switch cmd.Kind {
	case CommandSelect:
		if _, ok := s.tracker.Get(cmd.Target); !ok {
			log.Warn("select ignored, unknown track", "target", cmd.Target)
			return
		}
		s.selector.Select(cmd.Target)

	case CommandClear:
		s.selector.Clear()

	case CommandPick:
		target := cmd.Target
		if target == uuid.Nil {
			id, ok := s.selector.Selected()
			if !ok {
				log.Warn("pick ignored, nothing selected")
				return
			}
			target = id
		}
		s.pending = append(s.pending, target)

	case CommandBatch:
		objects := s.tracker.ActiveObjects()
		if cmd.Color != "" {
			objects = mission.FilterColor(objects, cmd.Color)
		}
		targets := mission.BatchTargets(objects)
		s.pending = append(s.pending, targets...)
		log.Info("batch queued", "targets", len(targets), "color", cmd.Color)
		s.logEvent("batch", "queued %d targets", len(targets))

	case CommandAbort:
		if s.current != nil {
			s.ctrl.Abort(s.current, mission.ReasonOperatorAbort)
		}
		s.pending = nil

	case CommandResetStats:
		s.rec.Reset()
	}
}

// advanceMission moves the in-flight mission one step, starting the
// next pending target when the arm is idle.
func (s *System) advanceMission() {
	if s.current != nil && s.current.Terminal() {
		s.current = nil
	}

	if s.current == nil {
		for len(s.pending) > 0 {
			target := s.pending[0]
			s.pending = s.pending[1:]
			m, err := s.ctrl.Start(target)
			if err != nil {
				log.Warn("skipping target", "target", target, "error", err)
				continue
			}
			s.current = m
			s.logEvent("mission", "picking %s %s -> %s",
				m.Color, shortID(m.TargetID.String()), m.Zone.Name)
			break
		}
	}

	if s.current != nil {
		s.ctrl.Advance(s.current)
		if s.current.Terminal() {
			if s.current.Outcome == mission.OutcomeSuccess {
				s.logEvent("mission", "placed %s in %s (%.1fs)",
					s.current.Color, s.current.Zone.Name, s.current.Duration().Seconds())
			} else {
				s.logEvent("mission", "aborted %s pick: %s",
					s.current.Color, s.current.Reason)
			}
		}
	}
}

// logEvent pushes an operator-facing line to the dashboard log feed.
func (s *System) logEvent(logType, format string, args ...interface{}) {
	if s.pub == nil {
		return
	}
	s.pub.PublishLog(logType, fmt.Sprintf(format, args...))
}

// Snapshot builds the current status view.
func (s *System) Snapshot() StatusSnapshot {
	cols := s.mat.Cols()
	rows := s.mat.Rows()

	objects := s.tracker.Objects()
	out := make([]ObjectStatus, 0, len(objects))
	for _, obj := range objects {
		b := segment.Blob{Color: obj.Color, Center: obj.Center, BBox: obj.BBox, Area: obj.Area}
		wx, wy, wz := b.WorkspacePosition(cols, rows)
		status := ObjectStatus{
			ID:        obj.ID,
			Color:     obj.Color,
			State:     obj.State.String(),
			Center:    obj.Center,
			Area:      obj.Area,
			Hits:      obj.Hits,
			Misses:    obj.Misses,
			Workspace: [3]float64{wx, wy, wz},
		}
		if s.dataset != nil {
			// MeanBGR is sampled in OpenCV's BGR order.
			entry := s.dataset.Nearest(uint8(obj.MeanBGR[2]), uint8(obj.MeanBGR[1]), uint8(obj.MeanBGR[0]))
			status.Label = entry.Name
		}
		out = append(out, status)
	}

	snap := StatusSnapshot{
		Frame:   s.frame,
		Time:    time.Now(),
		Objects: out,
		Stats:   s.rec.Snapshot(),
	}
	if id, ok := s.selector.Selected(); ok {
		snap.Selected = &id
	}
	if s.current != nil && !s.current.Terminal() {
		snap.Mission = &MissionStatus{
			ID:       s.current.ID,
			TargetID: s.current.TargetID,
			Color:    s.current.Color,
			Phase:    s.current.Phase.String(),
			Zone:     s.current.Zone.Name,
			Progress: s.current.Progress(s.ctrl.StepsPerPhase()),
		}
	}
	return snap
}

func (s *System) publish() {
	if s.pub == nil {
		return
	}
	s.pub.PublishStatus(s.Snapshot())

	if s.cfg.Annotate {
		jpeg, err := s.annotatedFrame()
		if err != nil {
			log.Warn("frame annotation failed", "error", err)
			return
		}
		s.pub.PublishFrame(jpeg)
	}
}
