package tracking

import kalman "github.com/LdDl/kalman-filter"

// smoother filters a track's centroid as new observations arrive.
type smoother interface {
	Update(x, y float64) (float64, float64)
}

func newSmoother(kind SmootherKind, alpha, x, y float64) smoother {
	if kind == SmootherKalman {
		return newKalmanSmoother(x, y)
	}
	return &ewmaSmoother{alpha: alpha, x: x, y: y}
}

// ewmaSmoother blends each observation with the previous estimate:
// new = alpha*observed + (1-alpha)*old.
type ewmaSmoother struct {
	alpha float64
	x, y  float64
}

func (s *ewmaSmoother) Update(x, y float64) (float64, float64) {
	s.x = s.alpha*x + (1-s.alpha)*s.x
	s.y = s.alpha*y + (1-s.alpha)*s.y
	return s.x, s.y
}

// kalmanSmoother wraps a constant-acceleration 2D Kalman filter.
type kalmanSmoother struct {
	kf *kalman.Kalman2D
}

func newKalmanSmoother(x, y float64) *kalmanSmoother {
	// Process/measurement noise tuned for per-frame pixel positions.
	dt := 1.0
	ux, uy := 1.0, 1.0
	stdDevA := 2.0
	stdDevMx, stdDevMy := 0.1, 0.1
	kf := kalman.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman.WithState2D(x, y))
	return &kalmanSmoother{kf: kf}
}

func (s *kalmanSmoother) Update(x, y float64) (float64, float64) {
	s.kf.Predict()
	if err := s.kf.Update(x, y); err != nil {
		// Numerical failure in the filter: fall back to the raw observation.
		return x, y
	}
	return s.kf.GetState()
}
