package segment

import "github.com/sortarm/go-sortarm/pkg/colorspec"

// Workspace dimensions of the simulated arm, in arm units. Pixel
// coordinates are rescaled into this grid for mission planning.
const (
	WorkspaceWidth  = 600.0
	WorkspaceHeight = 400.0
	ObjectHeight    = 20.0
)

// Blob is one detected colored region in a single frame. Blobs are
// ephemeral: they exist only until the tracker associates them.
type Blob struct {
	Color  colorspec.Color
	Center Point
	BBox   Rect
	Area   float64
	Frame  int

	// MeanBGR is the average color sampled under the blob mask, used for
	// nearest-name lookup against a color dataset.
	MeanBGR [3]float64
}

// WorkspacePosition rescales the blob centroid from pixel coordinates into
// the arm workspace grid. Z is the fixed object pick height.
func (b Blob) WorkspacePosition(frameWidth, frameHeight int) (x, y, z float64) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return 0, 0, ObjectHeight
	}
	x = b.Center.X * WorkspaceWidth / float64(frameWidth)
	y = b.Center.Y * WorkspaceHeight / float64(frameHeight)
	return x, y, ObjectHeight
}
