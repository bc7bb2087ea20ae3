// Package segment turns raw camera frames into per-color blob detections
// using an HSV thresholding pipeline.
package segment

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
)

// Segmenter extracts colored blobs from BGR frames.
type Segmenter struct {
	cfg        Config
	kernel     gocv.Mat
	classifier *colorspec.Classifier
}

// New creates a Segmenter with the given config.
func New(cfg Config) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(cfg.MorphKernel, cfg.MorphKernel))
	return &Segmenter{
		cfg:        cfg,
		kernel:     kernel,
		classifier: colorspec.NewClassifier(),
	}, nil
}

// Close releases the segmenter's OpenCV resources.
func (s *Segmenter) Close() error {
	return s.kernel.Close()
}

// Segment runs the detection pipeline on one BGR frame and returns the
// blobs found, tagged with the given frame index.
func (s *Segmenter) Segment(img gocv.Mat, frame int) ([]Blob, error) {
	if img.Empty() {
		return nil, errors.New("segment: empty frame")
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(img, &blurred, image.Pt(s.cfg.BlurKernel, s.cfg.BlurKernel), 0, 0, gocv.BorderDefault)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(blurred, &hsv, gocv.ColorBGRToHSV)

	var blobs []Blob
	for _, cr := range s.cfg.Ranges {
		mask, err := s.colorMask(hsv, cr)
		if err != nil {
			return nil, err
		}
		found := s.findBlobs(blurred, mask, cr.Color, frame)
		mask.Close()
		blobs = append(blobs, found...)
	}
	return blobs, nil
}

// colorMask builds a binary mask for one color, OR-ing its HSV ranges and
// cleaning the result with morphological open, close and dilate.
func (s *Segmenter) colorMask(hsv gocv.Mat, cr colorspec.ColorRange) (gocv.Mat, error) {
	mask := gocv.NewMatWithSize(hsv.Rows(), hsv.Cols(), gocv.MatTypeCV8U)
	for _, r := range cr.Ranges {
		part := gocv.NewMat()
		lo := gocv.NewScalar(float64(r.Lo.H), float64(r.Lo.S), float64(r.Lo.V), 0)
		hi := gocv.NewScalar(float64(r.Hi.H), float64(r.Hi.S), float64(r.Hi.V), 0)
		gocv.InRangeWithScalar(hsv, lo, hi, &part)
		gocv.BitwiseOr(mask, part, &mask)
		part.Close()
	}

	// Remove noise, fill holes, then enhance object shapes.
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, s.kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, s.kernel)
	gocv.Dilate(mask, &mask, s.kernel)
	return mask, nil
}

// findBlobs extracts external contours from the mask and keeps the ones
// large and convex enough to be sortable objects.
func (s *Segmenter) findBlobs(img, mask gocv.Mat, color colorspec.Color, frame int) []Blob {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var blobs []Blob
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area <= s.cfg.MinArea {
			continue
		}
		if s.solidity(contour, area) < s.cfg.MinSolidity {
			continue
		}

		rect := gocv.BoundingRect(contour)
		mean := s.meanBGR(img, mask, rect)
		if s.cfg.VerifyColor && !s.colorConfirmed(color, mean) {
			continue
		}

		bbox := RectFrom(rect)
		blobs = append(blobs, Blob{
			Color:   color,
			Center:  bbox.Center(),
			BBox:    bbox,
			Area:    area,
			Frame:   frame,
			MeanBGR: mean,
		})
	}
	return blobs
}

// colorConfirmed re-classifies the sampled mean and requires agreement
// with the range label, so a mask that swallowed a wrong-hue region does
// not produce a mislabeled blob.
func (s *Segmenter) colorConfirmed(c colorspec.Color, mean [3]float64) bool {
	// Mean is sampled in BGR order.
	return s.classifier.ClassifyRGB(uint8(mean[2]), uint8(mean[1]), uint8(mean[0])) == c
}

// meanBGR samples the average color of the blob region under its mask.
func (s *Segmenter) meanBGR(img, mask gocv.Mat, rect image.Rectangle) [3]float64 {
	imgROI := img.Region(rect)
	defer imgROI.Close()
	maskROI := mask.Region(rect)
	defer maskROI.Close()

	mean := imgROI.MeanWithMask(maskROI)
	return [3]float64{mean.Val1, mean.Val2, mean.Val3}
}

// solidity is the ratio of contour area to its convex hull area.
func (s *Segmenter) solidity(contour gocv.PointVector, area float64) float64 {
	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(contour, &hull, true, true)

	hullPoints := gocv.NewPointVectorFromMat(hull)
	defer hullPoints.Close()

	hullArea := gocv.ContourArea(hullPoints)
	if hullArea <= 0 {
		return 0
	}
	return area / hullArea
}
