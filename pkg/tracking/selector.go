package tracking

import "github.com/google/uuid"

// Selector holds the operator's current target choice. Identities are
// stable across frames, so selection is by track id; Refresh drops the
// selection once the target disappears from the visible set.
type Selector struct {
	id       uuid.UUID
	selected bool
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select marks the given track as the current target.
func (s *Selector) Select(id uuid.UUID) {
	s.id = id
	s.selected = true
}

// Clear drops the current selection.
func (s *Selector) Clear() {
	s.id = uuid.UUID{}
	s.selected = false
}

// Selected returns the current target id, if any.
func (s *Selector) Selected() (uuid.UUID, bool) {
	return s.id, s.selected
}

// Refresh clears the selection when the target is no longer in the
// visible object set.
func (s *Selector) Refresh(objects []TrackedObject) {
	if !s.selected {
		return
	}
	for _, obj := range objects {
		if obj.ID == s.id {
			return
		}
	}
	s.Clear()
}
