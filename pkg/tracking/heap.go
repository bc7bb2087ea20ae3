package tracking

import (
	"bytes"

	"github.com/google/uuid"
)

// candidate pairs a blob index with its nearest eligible track.
type candidate struct {
	blobIdx int
	trackID uuid.UUID
	dist    float64
}

// candidateHeap is a min-heap of association candidates ordered by
// distance, then track id, then blob index, so greedy matching pops in a
// deterministic order.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	if cmp := bytes.Compare(h[i].trackID[:], h[j].trackID[:]); cmp != 0 {
		return cmp < 0
	}
	return h[i].blobIdx < h[j].blobIdx
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push adds a candidate and restores the heap invariant.
func (h *candidateHeap) Push(c candidate) {
	*h = append(*h, c)
	h.up(h.Len() - 1)
}

// Pop removes and returns the minimum candidate.
func (h *candidateHeap) Pop() candidate {
	n := h.Len() - 1
	h.Swap(0, n)
	h.down(0, n)
	top := (*h)[n]
	*h = (*h)[:n]
	return top
}

func (h candidateHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		j = i
	}
}

func (h candidateHeap) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && h.Less(j2, j1) {
			j = j2
		}
		if !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		i = j
	}
}
