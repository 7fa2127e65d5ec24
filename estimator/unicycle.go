package estimator

import (
	"math"

	"github.com/skelterjohn/go.matrix"
)

// Integrate advances the unicycle state one explicit-Euler step of length
// dt under wheel speeds u. The trig terms use the pre-step bearing. Pure:
// neither argument is modified.
func Integrate(s StateSample, u InputSample, dt float64) StateSample {
	v := dt * WheelRadius / 2 * (u.UL + u.UR)
	return StateSample{
		T:      s.T + dt,
		Phi:    s.Phi + dt*WheelRadius/(2*HalfTrack)*(u.UR-u.UL),
		X:      s.X + v*math.Cos(s.Phi),
		Y:      s.Y + v*math.Sin(s.Phi),
		ThetaL: s.ThetaL + dt*u.UL,
		ThetaR: s.ThetaR + dt*u.UR,
	}
}

// DistToLandmark is the planar range from the state's position to the
// landmark.
func DistToLandmark(s StateSample) float64 {
	return math.Hypot(LandmarkX-s.X, LandmarkY-s.Y)
}

// Measure evaluates the landmark measurement model at s: range to the
// landmark and relative bearing. The bearing convention subtracts
// atan2(lx−x, ly−y), with the x difference first.
func Measure(s StateSample) (m1, m2 float64) {
	dx := LandmarkX - s.X
	dy := LandmarkY - s.Y
	return math.Hypot(dx, dy), s.Phi - math.Atan2(dx, dy)
}

// ApproxA is the Jacobian of Integrate with respect to the 5-state
// (phi, x, y, thetaL, thetaR), evaluated at s under wheel speeds u.
func ApproxA(s StateSample, u InputSample, dt float64) *matrix.DenseMatrix {
	v := dt * WheelRadius / 2 * (u.UL + u.UR)
	a := matrix.Eye(5)
	a.Set(1, 0, -v*math.Sin(s.Phi))
	a.Set(2, 0, v*math.Cos(s.Phi))
	return a
}

// ApproxC is the Jacobian of Measure with respect to the 5-state,
// evaluated at s. Undefined at the landmark itself (rho = 0); callers keep
// trajectories away from it.
func ApproxC(s StateSample) *matrix.DenseMatrix {
	dx := LandmarkX - s.X
	dy := LandmarkY - s.Y
	rho := math.Hypot(dx, dy)
	rho2 := rho * rho
	return matrix.MakeDenseMatrix([]float64{
		0, -dx / rho, -dy / rho, 0, 0,
		1, dy / rho2, -dx / rho2, 0, 0,
	}, 2, 5)
}
