package system

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/segment"
	"github.com/sortarm/go-sortarm/pkg/tracking"
)

// drawColors maps color labels to BGR-friendly overlay colors.
var drawColors = map[colorspec.Color]color.RGBA{
	colorspec.Red:   {R: 255, A: 255},
	colorspec.Green: {G: 255, A: 255},
	colorspec.Blue:  {B: 255, A: 255},
	colorspec.Other: {R: 200, G: 200, B: 200, A: 255},
}

var selectedColor = color.RGBA{R: 255, G: 255, A: 255}

// annotatedFrame draws tracked objects, the current selection and the
// drop zones onto a copy of the live frame, JPEG-encoded for streaming.
func (s *System) annotatedFrame() ([]byte, error) {
	canvas := s.mat.Clone()
	defer canvas.Close()

	selected, hasSelection := s.selector.Selected()
	for _, obj := range s.tracker.Objects() {
		s.drawObject(&canvas, obj, hasSelection && obj.ID == selected)
	}
	s.drawDropZones(&canvas)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, canvas)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}

func (s *System) drawObject(canvas *gocv.Mat, obj tracking.TrackedObject, selected bool) {
	c, ok := drawColors[obj.Color]
	if !ok {
		c = drawColors[colorspec.Other]
	}

	rect := image.Rect(int(obj.BBox.X), int(obj.BBox.Y),
		int(obj.BBox.X+obj.BBox.Width), int(obj.BBox.Y+obj.BBox.Height))
	thickness := 2
	if selected {
		gocv.Rectangle(canvas, rect.Inset(-4), selectedColor, 2)
		thickness = 3
	}
	gocv.Rectangle(canvas, rect, c, thickness)

	center := image.Pt(int(obj.Center.X), int(obj.Center.Y))
	gocv.Circle(canvas, center, 4, c, -1)

	label := fmt.Sprintf("%s %s", obj.Color, shortID(obj.ID.String()))
	if obj.State == tracking.StateHeld {
		label += " [picking]"
	}
	org := image.Pt(int(obj.BBox.X), int(obj.BBox.Y)-6)
	gocv.PutText(canvas, label, org, gocv.FontHersheySimplex, 0.5, c, 1)
}

// drawDropZones projects the workspace-frame zones back into pixel
// coordinates and marks them.
func (s *System) drawDropZones(canvas *gocv.Mat) {
	cols := canvas.Cols()
	rows := canvas.Rows()
	if cols <= 0 || rows <= 0 {
		return
	}

	for c, zone := range s.ctrl.Zones() {
		px := int(zone.X * float64(cols) / segment.WorkspaceWidth)
		py := int(zone.Y * float64(rows) / segment.WorkspaceHeight)
		dc, ok := drawColors[c]
		if !ok {
			dc = drawColors[colorspec.Other]
		}
		gocv.Circle(canvas, image.Pt(px, py), 18, dc, 2)
		gocv.PutText(canvas, zone.Name, image.Pt(px-30, py+34), gocv.FontHersheySimplex, 0.45, dc, 1)
	}
}

// shortID keeps overlay labels readable.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
