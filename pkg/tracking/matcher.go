package tracking

import (
	hungarian "github.com/arthurkushman/go-hungarian"
	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/segment"
)

// assignHungarian matches blobs to tracks with an optimal assignment over
// a profit matrix. Profit is zero for color mismatches and pairs beyond
// the match distance, so those assignments are discarded afterwards.
func (t *Tracker) assignHungarian(blobs []segment.Blob, ids []uuid.UUID, frame int) {
	if len(ids) == 0 || len(blobs) == 0 {
		for _, b := range blobs {
			t.register(b, frame)
		}
		return
	}

	size := len(ids)
	if len(blobs) > size {
		size = len(blobs)
	}

	// Rows are tracks, columns are blobs, padded square with zeros.
	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size)
	}
	for i, id := range ids {
		tr := t.tracks[id]
		for j, b := range blobs {
			if tr.Color != b.Color {
				continue
			}
			dist := b.Center.Distance(tr.Center)
			if dist > t.cfg.MatchDistance {
				continue
			}
			matrix[i][j] = t.cfg.MatchDistance + 1 - dist
		}
	}

	matched := make(map[int]struct{}, len(blobs))
	for row, cols := range hungarian.SolveMax(matrix) {
		if row >= len(ids) {
			continue
		}
		for col, profit := range cols {
			if col >= len(blobs) || profit <= 0 {
				continue
			}
			t.associate(ids[row], blobs[col], frame)
			matched[col] = struct{}{}
		}
	}

	for j, b := range blobs {
		if _, ok := matched[j]; !ok {
			t.register(b, frame)
		}
	}
}
