package system

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/mission"
	"github.com/sortarm/go-sortarm/pkg/segment"
	"github.com/sortarm/go-sortarm/pkg/stats"
	"github.com/sortarm/go-sortarm/pkg/tracking"
)

// fakeSource serves a fixed number of blank frames.
type fakeSource struct {
	frames int
	served int
	closed bool
}

func (f *fakeSource) Read(dst *gocv.Mat) bool {
	if f.served >= f.frames {
		return false
	}
	f.served++
	m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer m.Close()
	m.CopyTo(dst)
	return true
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

// fakeSegmenter returns the same scripted blobs every frame.
type fakeSegmenter struct {
	blobs []segment.Blob
}

func (f *fakeSegmenter) Segment(_ gocv.Mat, _ int) ([]segment.Blob, error) {
	return f.blobs, nil
}

// fakePublisher records what the loop publishes.
type fakePublisher struct {
	statuses []StatusSnapshot
	frames   [][]byte
	logs     []string
}

func (f *fakePublisher) PublishStatus(s StatusSnapshot) { f.statuses = append(f.statuses, s) }
func (f *fakePublisher) PublishFrame(b []byte)          { f.frames = append(f.frames, b) }
func (f *fakePublisher) PublishLog(logType, message string) {
	f.logs = append(f.logs, logType+": "+message)
}

func blobAt(c colorspec.Color, x, y float64) segment.Blob {
	return segment.Blob{
		Color:  c,
		Center: segment.Point{X: x, Y: y},
		BBox:   segment.Rect{X: x - 20, Y: y - 20, Width: 40, Height: 40},
		Area:   1600,
	}
}

func newTestSystem(t *testing.T, frames int, blobs []segment.Blob) (*System, *fakePublisher, *stats.Recorder) {
	t.Helper()

	trkCfg := tracking.DefaultConfig()
	trkCfg.ConfirmFrames = 1
	tracker, err := tracking.NewTracker(trkCfg)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}

	rec := stats.NewRecorder()
	mCfg := mission.DefaultConfig()
	mCfg.StepsPerPhase = 1
	ctrl, err := mission.NewController(mCfg, tracker, rec)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Annotate = false
	pub := &fakePublisher{}
	sys, err := New(cfg, &fakeSource{frames: frames}, &fakeSegmenter{blobs: blobs}, tracker, ctrl, rec, pub)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sys.Close() })
	return sys, pub, rec
}

func TestStepPublishesObjects(t *testing.T) {
	sys, pub, _ := newTestSystem(t, 10, []segment.Blob{blobAt(colorspec.Red, 100, 100)})

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if len(pub.statuses) != 1 {
		t.Fatalf("published %d statuses, want 1", len(pub.statuses))
	}
	snap := pub.statuses[0]
	if snap.Frame != 1 {
		t.Errorf("frame = %d, want 1", snap.Frame)
	}
	if len(snap.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(snap.Objects))
	}
	obj := snap.Objects[0]
	if obj.Color != colorspec.Red || obj.State != "active" {
		t.Errorf("object = %s/%s, want Red/active", obj.Color, obj.State)
	}
	// 100px in a 640x480 frame maps into the 600x400 workspace.
	if obj.Workspace[0] != 93.75 {
		t.Errorf("workspace x = %v, want 93.75", obj.Workspace[0])
	}
}

func TestSourceExhausted(t *testing.T) {
	sys, _, _ := newTestSystem(t, 1, nil)

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := sys.Step(); !errors.Is(err, ErrSourceClosed) {
		t.Fatalf("got %v, want ErrSourceClosed", err)
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	sys, _, _ := newTestSystem(t, 1, nil)

	for i := 0; i < cap(sys.cmds); i++ {
		if err := sys.Enqueue(Command{Kind: CommandClear}); err != nil {
			t.Fatalf("Enqueue #%d: %v", i, err)
		}
	}
	if err := sys.Enqueue(Command{Kind: CommandClear}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v, want ErrQueueFull", err)
	}
}

func TestSelectAndPickRunsMission(t *testing.T) {
	sys, pub, rec := newTestSystem(t, 30, []segment.Blob{blobAt(colorspec.Green, 200, 150)})

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	target := pub.statuses[0].Objects[0].ID

	if err := sys.Enqueue(Command{Kind: CommandSelect, Target: target}); err != nil {
		t.Fatalf("Enqueue select: %v", err)
	}
	if err := sys.Enqueue(Command{Kind: CommandPick}); err != nil {
		t.Fatalf("Enqueue pick: %v", err)
	}

	// One step per mission phase plus slack for queue handoff.
	for i := 0; i < 10; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	s := rec.Snapshot()
	if s.Attempts != 1 || s.Successes != 1 {
		t.Fatalf("attempts/successes = %d/%d, want 1/1", s.Attempts, s.Successes)
	}

	// Mission status appeared while in flight.
	var sawMission bool
	for _, snap := range pub.statuses {
		if snap.Mission != nil {
			sawMission = true
			if snap.Mission.TargetID != target {
				t.Errorf("mission target = %s, want %s", snap.Mission.TargetID, target)
			}
			break
		}
	}
	if !sawMission {
		t.Error("no published status carried the in-flight mission")
	}
}

func TestAnnotatedFramePublished(t *testing.T) {
	sys, pub, _ := newTestSystem(t, 5, []segment.Blob{blobAt(colorspec.Red, 100, 100)})
	sys.cfg.Annotate = true

	// Two steps so the second draws a confirmed, tracked object.
	for i := 0; i < 2; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if len(pub.frames) == 0 {
		t.Fatal("no annotated frames published")
	}
	frame := pub.frames[len(pub.frames)-1]
	if len(frame) < 2 || frame[0] != 0xff || frame[1] != 0xd8 {
		t.Fatalf("frame does not start with a JPEG marker: % x", frame[:2])
	}
}

func TestMissionEventsLogged(t *testing.T) {
	sys, pub, _ := newTestSystem(t, 30, []segment.Blob{blobAt(colorspec.Red, 100, 100)})

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	target := pub.statuses[0].Objects[0].ID
	if err := sys.Enqueue(Command{Kind: CommandPick, Target: target}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	var sawStart, sawDone bool
	for _, line := range pub.logs {
		if strings.Contains(line, "picking Red") {
			sawStart = true
		}
		if strings.Contains(line, "placed Red in red-bin") {
			sawDone = true
		}
	}
	if !sawStart || !sawDone {
		t.Fatalf("log feed = %v, want picking and placed lines", pub.logs)
	}
}

func TestPickWithoutSelectionIgnored(t *testing.T) {
	sys, _, rec := newTestSystem(t, 10, []segment.Blob{blobAt(colorspec.Red, 100, 100)})

	if err := sys.Enqueue(Command{Kind: CommandPick}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if s := rec.Snapshot(); s.Attempts != 0 {
		t.Errorf("attempts = %d, want 0", s.Attempts)
	}
}

func TestBatchCommand(t *testing.T) {
	blobs := []segment.Blob{
		blobAt(colorspec.Blue, 500, 100),
		blobAt(colorspec.Red, 100, 100),
		blobAt(colorspec.Green, 300, 100),
	}
	sys, _, rec := newTestSystem(t, 60, blobs)

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := sys.Enqueue(Command{Kind: CommandBatch}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	// Three sequential five-phase missions, one step per phase.
	for i := 0; i < 25; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	s := rec.Snapshot()
	if s.Attempts != 3 || s.Successes != 3 {
		t.Fatalf("attempts/successes = %d/%d, want 3/3", s.Attempts, s.Successes)
	}
	for _, c := range []colorspec.Color{colorspec.Red, colorspec.Green, colorspec.Blue} {
		if s.ByColor[c].Successes != 1 {
			t.Errorf("%s successes = %d, want 1", c, s.ByColor[c].Successes)
		}
	}
}

func TestBatchColorFilter(t *testing.T) {
	blobs := []segment.Blob{
		blobAt(colorspec.Blue, 500, 100),
		blobAt(colorspec.Red, 100, 100),
	}
	sys, _, rec := newTestSystem(t, 40, blobs)

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := sys.Enqueue(Command{Kind: CommandBatch, Color: colorspec.Red}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	for i := 0; i < 15; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	s := rec.Snapshot()
	if s.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts)
	}
	if s.ByColor[colorspec.Red].Successes != 1 {
		t.Errorf("red successes = %d, want 1", s.ByColor[colorspec.Red].Successes)
	}
}

func TestAbortCommand(t *testing.T) {
	sys, pub, rec := newTestSystem(t, 30, []segment.Blob{blobAt(colorspec.Red, 100, 100)})

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	target := pub.statuses[0].Objects[0].ID
	if err := sys.Enqueue(Command{Kind: CommandPick, Target: target}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	// Start the mission, then abort it mid-flight.
	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := sys.Enqueue(Command{Kind: CommandAbort}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	s := rec.Snapshot()
	if s.Attempts != 1 || s.Failures != 1 {
		t.Fatalf("attempts/failures = %d/%d, want 1/1", s.Attempts, s.Failures)
	}
	// The aborted target is tracked again.
	last := pub.statuses[len(pub.statuses)-1]
	var found bool
	for _, obj := range last.Objects {
		if obj.ID == target {
			found = true
			if obj.State != "active" {
				t.Errorf("target state = %s, want active", obj.State)
			}
		}
	}
	if !found {
		t.Fatal("aborted target missing from published objects")
	}
}

func TestDatasetLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.csv")
	csv := "slug,name,hex,r,g,b\ncrimson,Crimson,#dc143c,220,20,60\nlime,Lime,#00ff00,0,255,0\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	ds, err := colorspec.LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}

	blob := blobAt(colorspec.Red, 100, 100)
	blob.MeanBGR = [3]float64{60, 20, 220}
	sys, pub, _ := newTestSystem(t, 5, []segment.Blob{blob})
	sys.SetDataset(ds)

	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := pub.statuses[0].Objects[0].Label; got != "Crimson" {
		t.Errorf("label = %q, want Crimson", got)
	}
}

func TestSelectUnknownTrackIgnored(t *testing.T) {
	sys, pub, _ := newTestSystem(t, 10, []segment.Blob{blobAt(colorspec.Red, 100, 100)})

	if err := sys.Enqueue(Command{Kind: CommandSelect, Target: uuid.New()}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := sys.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if pub.statuses[0].Selected != nil {
		t.Error("selection should be empty after selecting unknown track")
	}
}
