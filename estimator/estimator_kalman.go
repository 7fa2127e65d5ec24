package estimator

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skelterjohn/go.matrix"
)

// KalmanFilter is the linear filter for the frozen-bearing regime: the
// robot holds the nominal bearing, so the kinematics reduce to a linear
// time-invariant system in (x, y, thetaL, thetaR) and the sensor reports
// the planar position directly. All model matrices are built once at
// construction; each activation consumes the single latest input and
// measurement pair.
type KalmanFilter struct {
	core

	a, b, c *matrix.DenseMatrix
	q, r    *matrix.DenseMatrix

	x *matrix.DenseMatrix // 4x1 state (x, y, thetaL, thetaR)
	p *matrix.DenseMatrix // 4x4 covariance
}

func NewKalmanFilter(buf *Buffers, dt float64, t FilterTuning) *KalmanFilter {
	k := &KalmanFilter{core: newCore("kalman_filter", buf, dt)}
	cs := math.Cos(NominalBearing)
	sn := math.Sin(NominalBearing)
	k.a = matrix.Eye(4)
	k.b = matrix.Scaled(matrix.MakeDenseMatrix([]float64{
		WheelRadius / 2 * cs, WheelRadius / 2 * cs,
		WheelRadius / 2 * sn, WheelRadius / 2 * sn,
		1, 0,
		0, 1,
	}, 4, 2), k.dt)
	k.c = matrix.MakeDenseMatrix([]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	}, 2, 4)
	k.q = matrix.Scaled(matrix.Eye(4), t.ProcessVar)
	k.r = matrix.Scaled(matrix.Eye(2), t.MeasurementVar)
	k.p = matrix.Scaled(matrix.Eye(4), t.InitialVar)
	return k
}

func (k *KalmanFilter) Update() (StateSample, bool) {
	start := time.Now()
	defer k.track(start)

	if !k.gate() {
		return StateSample{}, false
	}
	u, okU := k.buf.LatestInput()
	m, okM := k.buf.LatestMeasurement()
	if !okU || !okM {
		return StateSample{}, false
	}
	truth, _ := k.buf.LatestState()

	if k.x == nil {
		seed, _ := k.buf.FirstState()
		k.x = matrix.MakeDenseMatrix([]float64{seed.X, seed.Y, seed.ThetaL, seed.ThetaR}, 4, 1)
	}

	// Predict.
	uv := matrix.MakeDenseMatrix([]float64{u.UL, u.UR}, 2, 1)
	xp := matrix.Sum(matrix.Product(k.a, k.x), matrix.Product(k.b, uv))
	pp := matrix.Sum(matrix.Product(k.a, matrix.Product(k.p, k.a.Transpose())), k.q)

	// Update.
	mv := matrix.MakeDenseMatrix([]float64{m.M1, m.M2}, 2, 1)
	innov := matrix.Difference(mv, matrix.Product(k.c, xp))
	s := matrix.Sum(matrix.Product(k.c, matrix.Product(pp, k.c.Transpose())), k.r)
	sInv, err := s.Inverse()
	if err != nil {
		logrus.WithError(err).Warn("kalman: innovation covariance not invertible, keeping prediction")
		k.x = xp
		k.p = pp
	} else {
		kk := matrix.Product(pp, matrix.Product(k.c.Transpose(), sInv))
		k.x = matrix.Sum(xp, matrix.Product(kk, innov))
		k.p = matrix.Product(matrix.Difference(matrix.Eye(4), matrix.Product(kk, k.c)), pp)
	}

	est := StateSample{
		T:      truth.T,
		Phi:    NominalBearing,
		X:      k.x.Get(0, 0),
		Y:      k.x.Get(1, 0),
		ThetaL: k.x.Get(2, 0),
		ThetaR: k.x.Get(3, 0),
	}
	k.append(est)
	return est, true
}

// Covariance returns a copy of the current error covariance.
func (k *KalmanFilter) Covariance() *matrix.DenseMatrix {
	return k.p.Copy()
}
