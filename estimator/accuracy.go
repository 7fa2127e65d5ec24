package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StateDim is the number of estimated components in a StateSample
// (everything but the timestamp).
const StateDim = 5

// Accuracy is the per-component root-mean-square error of an estimate
// sequence against the ground truth.
type Accuracy struct {
	Phi    float64
	X      float64
	Y      float64
	ThetaL float64
	ThetaR float64
}

// Total is the RMSE over all components pooled together.
func (a Accuracy) Total() float64 {
	return math.Sqrt((a.Phi*a.Phi + a.X*a.X + a.Y*a.Y + a.ThetaL*a.ThetaL + a.ThetaR*a.ThetaR) / StateDim)
}

func (a Accuracy) String() string {
	return fmt.Sprintf("phi %.6f, x %.6f, y %.6f, thetaL %.6f, thetaR %.6f",
		a.Phi, a.X, a.Y, a.ThetaL, a.ThetaR)
}

// RMSE compares estimates against truth pairwise over their common prefix.
// Both sequences grow in lockstep from the same seed, so index i of one
// corresponds to index i of the other.
func RMSE(truth, est []StateSample) (Accuracy, error) {
	n := len(truth)
	if len(est) < n {
		n = len(est)
	}
	if n == 0 {
		return Accuracy{}, fmt.Errorf("rmse needs at least one truth/estimate pair")
	}

	sq := make([][]float64, StateDim)
	for i := range sq {
		sq[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		d := [StateDim]float64{
			truth[i].Phi - est[i].Phi,
			truth[i].X - est[i].X,
			truth[i].Y - est[i].Y,
			truth[i].ThetaL - est[i].ThetaL,
			truth[i].ThetaR - est[i].ThetaR,
		}
		for j, v := range d {
			sq[j][i] = v * v
		}
	}
	return Accuracy{
		Phi:    math.Sqrt(stat.Mean(sq[0], nil)),
		X:      math.Sqrt(stat.Mean(sq[1], nil)),
		Y:      math.Sqrt(stat.Mean(sq[2], nil)),
		ThetaL: math.Sqrt(stat.Mean(sq[3], nil)),
		ThetaR: math.Sqrt(stat.Mean(sq[4], nil)),
	}, nil
}
