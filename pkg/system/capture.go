package system

import (
	"gocv.io/x/gocv"

	"github.com/pkg/errors"
)

const (
	captureWidth  = 640
	captureHeight = 480
)

// Capture wraps an OpenCV video source so the driver loop can treat a
// live camera and a replay file the same way.
type Capture struct {
	vc *gocv.VideoCapture
}

// OpenCamera opens a live camera device at the standard capture size.
func OpenCamera(device int) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "opening camera %d", device)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	vc.Set(gocv.VideoCaptureFrameHeight, captureHeight)
	return &Capture{vc: vc}, nil
}

// OpenVideo opens a recorded video file for replay.
func OpenVideo(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video %s", path)
	}
	return &Capture{vc: vc}, nil
}

// Read fills dst with the next frame. Reports false at end of stream.
func (c *Capture) Read(dst *gocv.Mat) bool {
	return c.vc.Read(dst)
}

// Close releases the underlying device or file.
func (c *Capture) Close() error {
	return c.vc.Close()
}
