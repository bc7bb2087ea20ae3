package colorspec

// Classifier maps a color sample to a discrete label using hue bands.
// Low-saturation and low-value samples classify as Other.
type Classifier struct {
	minSat uint8
	minVal uint8
}

// NewClassifier returns a classifier with the stock saturation/value floor.
func NewClassifier() *Classifier {
	return &Classifier{minSat: 50, minVal: 50}
}

// Classify returns the label for an HSV sample (hue 0-180).
func (c *Classifier) Classify(h, s, v uint8) Color {
	if s <= c.minSat || v <= c.minVal {
		return Other
	}
	switch {
	case h <= 10 || h >= 170:
		return Red
	case h >= 35 && h <= 85:
		return Green
	case h >= 100 && h <= 130:
		return Blue
	default:
		return Other
	}
}

// ClassifyRGB converts an RGB sample to HSV and classifies it. Useful for
// verifying a detection by sampling the object region.
func (c *Classifier) ClassifyRGB(r, g, b uint8) Color {
	h, s, v := RGBToHSV(r, g, b)
	return c.Classify(h, s, v)
}

// RGBToHSV converts 8-bit RGB to OpenCV-scaled HSV (hue halved to 0-180).
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255

	max := rf
	if gf > max {
		max = gf
	}
	if bf > max {
		max = bf
	}
	min := rf
	if gf < min {
		min = gf
	}
	if bf < min {
		min = bf
	}
	delta := max - min

	var hue float64
	switch {
	case delta == 0:
		hue = 0
	case max == rf:
		hue = 60 * ((gf - bf) / delta)
	case max == gf:
		hue = 60*((bf-rf)/delta) + 120
	default:
		hue = 60*((rf-gf)/delta) + 240
	}
	if hue < 0 {
		hue += 360
	}

	var sat float64
	if max > 0 {
		sat = delta / max
	}

	return uint8(hue/2 + 0.5), uint8(sat*255 + 0.5), uint8(max*255 + 0.5)
}
