package tracking

import (
	"bytes"
	"sort"

	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/segment"
)

// Tracker associates per-frame blob detections with persistent object
// identities. It is not safe for concurrent use: the processing model is
// single-caller, frame-at-a-time.
type Tracker struct {
	cfg    Config
	tracks map[uuid.UUID]*track
}

// NewTracker creates a tracker with the given config.
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{
		cfg:    cfg,
		tracks: make(map[uuid.UUID]*track),
	}, nil
}

// Update consumes one frame's blobs and returns the stabilized set of
// tracked objects: active and stale tracks only. Provisional tracks stay
// hidden until confirmed, held tracks belong to the mission controller,
// and evicted tracks are purged before returning.
func (t *Tracker) Update(blobs []segment.Blob, frame int) []TrackedObject {
	eligible := t.eligibleIDs()

	switch t.cfg.Matching {
	case MatchingHungarian:
		t.assignHungarian(blobs, eligible, frame)
	default:
		t.assignGreedy(blobs, eligible, frame)
	}

	t.age(frame)
	return t.output()
}

// eligibleIDs returns the ids of tracks that may associate with blobs this
// frame, in deterministic (byte) order. Held tracks are excluded.
func (t *Tracker) eligibleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.tracks))
	for id, tr := range t.tracks {
		if tr.State == StateHeld {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// nearest finds the closest eligible track of the blob's color within the
// match distance. Ties break toward the lowest id because ids are scanned
// in sorted order with a strict improvement test.
func (t *Tracker) nearest(b segment.Blob, ids []uuid.UUID) (uuid.UUID, float64, bool) {
	var bestID uuid.UUID
	bestDist := t.cfg.MatchDistance
	found := false
	for _, id := range ids {
		tr := t.tracks[id]
		if tr.Color != b.Color {
			continue
		}
		dist := b.Center.Distance(tr.Center)
		if dist < bestDist || (!found && dist == bestDist) {
			bestDist = dist
			bestID = id
			found = true
		}
	}
	return bestID, bestDist, found
}

// assignGreedy matches blobs to tracks in ascending distance order. One
// blob per track and one track per blob; a blob whose nearest track is
// already taken registers as a new track.
func (t *Tracker) assignGreedy(blobs []segment.Blob, ids []uuid.UUID, frame int) {
	pq := make(candidateHeap, 0, len(blobs))
	for i, b := range blobs {
		id, dist, ok := t.nearest(b, ids)
		if !ok {
			t.register(b, frame)
			continue
		}
		pq.Push(candidate{blobIdx: i, trackID: id, dist: dist})
	}

	reserved := make(map[uuid.UUID]struct{})
	for pq.Len() > 0 {
		c := pq.Pop()
		if _, taken := reserved[c.trackID]; taken {
			t.register(blobs[c.blobIdx], frame)
			continue
		}
		t.associate(c.trackID, blobs[c.blobIdx], frame)
		reserved[c.trackID] = struct{}{}
	}
}

// associate updates a track with a matched blob, smoothing the centroid
// rather than overwriting it.
func (t *Tracker) associate(id uuid.UUID, b segment.Blob, frame int) {
	tr := t.tracks[id]
	tr.Hits++
	tr.Misses = 0
	tr.LastSeen = frame
	tr.BBox = b.BBox
	tr.Area = b.Area
	tr.MeanBGR = b.MeanBGR
	x, y := tr.smoother.Update(b.Center.X, b.Center.Y)
	tr.Center = segment.Point{X: x, Y: y}

	switch tr.State {
	case StateProvisional:
		if tr.Hits >= t.cfg.ConfirmFrames {
			tr.State = StateActive
		}
	case StateStale:
		tr.State = StateActive
	}
}

// register creates a provisional track for an unmatched blob.
func (t *Tracker) register(b segment.Blob, frame int) {
	id := uuid.New()
	tr := &track{
		TrackedObject: TrackedObject{
			ID:         id,
			Color:      b.Color,
			Center:     b.Center,
			BBox:       b.BBox,
			Area:       b.Area,
			MeanBGR:    b.MeanBGR,
			State:      StateProvisional,
			FirstFrame: frame,
			LastSeen:   frame,
			Hits:       1,
		},
		smoother: newSmoother(t.cfg.Smoother, t.cfg.Smoothing, b.Center.X, b.Center.Y),
	}
	if tr.Hits >= t.cfg.ConfirmFrames {
		tr.State = StateActive
	}
	t.tracks[id] = tr
}

// age handles tracks that went unmatched this frame: provisional tracks
// are dropped (confirmation must be consecutive), confirmed tracks go
// stale and are evicted once the miss budget is exceeded.
func (t *Tracker) age(frame int) {
	for id, tr := range t.tracks {
		if tr.State == StateHeld || tr.LastSeen == frame {
			continue
		}
		if tr.State == StateProvisional {
			tr.State = StateRemoved
			delete(t.tracks, id)
			continue
		}
		tr.Misses++
		tr.State = StateStale
		if tr.Misses > t.cfg.MaxMisses {
			tr.State = StateRemoved
			delete(t.tracks, id)
		}
	}
}

// output returns snapshots of active and stale tracks in a stable order.
func (t *Tracker) output() []TrackedObject {
	out := make([]TrackedObject, 0, len(t.tracks))
	for _, tr := range t.tracks {
		if tr.State == StateActive || tr.State == StateStale {
			out = append(out, tr.snapshot())
		}
	}
	sortObjects(out)
	return out
}

func sortObjects(objects []TrackedObject) {
	sort.Slice(objects, func(i, j int) bool {
		if objects[i].FirstFrame != objects[j].FirstFrame {
			return objects[i].FirstFrame < objects[j].FirstFrame
		}
		return bytes.Compare(objects[i].ID[:], objects[j].ID[:]) < 0
	})
}

// Objects returns snapshots of all visible tracks: active, held and
// stale. Provisional tracks stay hidden.
func (t *Tracker) Objects() []TrackedObject {
	out := make([]TrackedObject, 0, len(t.tracks))
	for _, tr := range t.tracks {
		switch tr.State {
		case StateActive, StateHeld, StateStale:
			out = append(out, tr.snapshot())
		}
	}
	sortObjects(out)
	return out
}

// ActiveObjects returns snapshots of active tracks only.
func (t *Tracker) ActiveObjects() []TrackedObject {
	out := make([]TrackedObject, 0, len(t.tracks))
	for _, tr := range t.tracks {
		if tr.State == StateActive {
			out = append(out, tr.snapshot())
		}
	}
	sortObjects(out)
	return out
}

// Get returns a snapshot of one track.
func (t *Tracker) Get(id uuid.UUID) (TrackedObject, bool) {
	tr, ok := t.tracks[id]
	if !ok {
		return TrackedObject{}, false
	}
	return tr.snapshot(), true
}

// Hold reserves an active track for a mission. Held tracks are excluded
// from association and ageing until released or evicted.
func (t *Tracker) Hold(id uuid.UUID) error {
	tr, ok := t.tracks[id]
	if !ok {
		return ErrUnknownTrack
	}
	if tr.State != StateActive {
		return ErrNotActive
	}
	tr.State = StateHeld
	return nil
}

// Release returns a held track to active status. Releasing a track that
// is not held is a no-op.
func (t *Tracker) Release(id uuid.UUID) error {
	tr, ok := t.tracks[id]
	if !ok {
		return ErrUnknownTrack
	}
	if tr.State == StateHeld {
		tr.State = StateActive
		tr.Misses = 0
	}
	return nil
}

// Evict removes a track immediately, regardless of state.
func (t *Tracker) Evict(id uuid.UUID) error {
	tr, ok := t.tracks[id]
	if !ok {
		return ErrUnknownTrack
	}
	tr.State = StateRemoved
	delete(t.tracks, id)
	return nil
}
