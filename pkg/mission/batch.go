package mission

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/tracking"
)

// colorOrder is the batch sorting priority. Unlisted colors sort last.
var colorOrder = map[colorspec.Color]int{
	colorspec.Red:   0,
	colorspec.Green: 1,
	colorspec.Blue:  2,
}

// SortByColor orders objects red, then green, then blue, with any other
// color after those. Within a color the original (first-seen) order is
// preserved.
func SortByColor(objects []tracking.TrackedObject) []tracking.TrackedObject {
	out := make([]tracking.TrackedObject, len(objects))
	copy(out, objects)
	sort.SliceStable(out, func(i, j int) bool {
		oi, ok := colorOrder[out[i].Color]
		if !ok {
			oi = len(colorOrder)
		}
		oj, ok := colorOrder[out[j].Color]
		if !ok {
			oj = len(colorOrder)
		}
		return oi < oj
	})
	return out
}

// FilterColor keeps only objects of the given color.
func FilterColor(objects []tracking.TrackedObject, color colorspec.Color) []tracking.TrackedObject {
	var out []tracking.TrackedObject
	for _, obj := range objects {
		if obj.Color == color {
			out = append(out, obj)
		}
	}
	return out
}

// BatchTargets returns the track IDs of the given objects in batch order,
// ready to hand to Controller.RunBatch.
func BatchTargets(objects []tracking.TrackedObject) []uuid.UUID {
	ordered := SortByColor(objects)
	ids := make([]uuid.UUID, 0, len(ordered))
	for _, obj := range ordered {
		ids = append(ids, obj.ID)
	}
	return ids
}
