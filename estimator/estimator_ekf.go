package estimator

import (
	"time"

	"github.com/skelterjohn/go.matrix"
)

// ExtendedKalmanFilter runs the full nonlinear model: the prediction
// integrates the kinematics from the previous estimate, the update
// compares the landmark range/bearing measurement against the model, and
// both are linearized afresh at every step. The innovation covariance is
// inverted through a pseudo-inverse so near-singular geometry degrades the
// correction instead of blowing it up.
type ExtendedKalmanFilter struct {
	core

	q, r *matrix.DenseMatrix
	p    *matrix.DenseMatrix // 5x5 covariance
}

func NewExtendedKalmanFilter(buf *Buffers, dt float64, t FilterTuning) *ExtendedKalmanFilter {
	return &ExtendedKalmanFilter{
		core: newCore("extended_kalman_filter", buf, dt),
		q:    matrix.Scaled(matrix.Eye(5), t.ProcessVar),
		r:    matrix.Scaled(matrix.Eye(2), t.MeasurementVar),
		p:    matrix.Scaled(matrix.Eye(5), t.InitialVar),
	}
}

func (e *ExtendedKalmanFilter) Update() (StateSample, bool) {
	start := time.Now()
	defer e.track(start)

	if !e.gate() {
		return StateSample{}, false
	}
	u, okU := e.buf.LatestInput()
	m, okM := e.buf.LatestMeasurement()
	if !okU || !okM {
		return StateSample{}, false
	}
	truth, _ := e.buf.LatestState()
	last, _ := e.latestEstimate()

	// Predict.
	pred := Integrate(last, u, e.dt)
	a := ApproxA(last, u, e.dt)
	pp := matrix.Sum(matrix.Product(a, matrix.Product(e.p, a.Transpose())), e.q)

	// Update.
	h1, h2 := Measure(pred)
	innov := matrix.MakeDenseMatrix([]float64{m.M1 - h1, m.M2 - h2}, 2, 1)
	c := ApproxC(pred)
	s := matrix.Sum(matrix.Product(c, matrix.Product(pp, c.Transpose())), e.r)
	kk := matrix.Product(pp, matrix.Product(c.Transpose(), pinvSym2(s)))
	xv := matrix.Sum(
		matrix.MakeDenseMatrix([]float64{pred.Phi, pred.X, pred.Y, pred.ThetaL, pred.ThetaR}, 5, 1),
		matrix.Product(kk, innov))
	e.p = matrix.Product(matrix.Difference(matrix.Eye(5), matrix.Product(kk, c)), pp)

	est := StateSample{
		T:      truth.T,
		Phi:    xv.Get(0, 0),
		X:      xv.Get(1, 0),
		Y:      xv.Get(2, 0),
		ThetaL: xv.Get(3, 0),
		ThetaR: xv.Get(4, 0),
	}
	e.append(est)
	return est, true
}

// Covariance returns a copy of the current error covariance.
func (e *ExtendedKalmanFilter) Covariance() *matrix.DenseMatrix {
	return e.p.Copy()
}

// pinvSym2 is the Moore-Penrose pseudo-inverse of a symmetric 2x2 matrix,
// closed form. Full rank inverts exactly; a rank-1 matrix s = l*v*v' has
// pseudo-inverse s/l^2 with l = trace; the zero matrix maps to zero.
func pinvSym2(s *matrix.DenseMatrix) *matrix.DenseMatrix {
	a := s.Get(0, 0)
	b := s.Get(0, 1)
	c := s.Get(1, 1)
	det := a*c - b*b
	if det > Small || det < -Small {
		return matrix.Scaled(matrix.MakeDenseMatrix([]float64{c, -b, -b, a}, 2, 2), 1/det)
	}
	tr := a + c
	if tr > -Small && tr < Small {
		return matrix.Zeros(2, 2)
	}
	return matrix.Scaled(s, 1/(tr*tr))
}
