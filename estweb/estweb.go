/*
Package estweb publishes live estimation frames over a websocket so a
browser plot (or any other client) can follow a run in real time.

Client-Server structure adapted from Mat Ryer's Go Blueprints examples,
see https://github.com/matryer/goblueprints
*/
package estweb

import "github.com/ucb-ee106-classrooms/project-3-gang/estimator"

// Port is the default port for the estimation data publication.
const Port = 8000

// Frame is one broadcast snapshot: the ground truth and the estimate at
// the same instant, tagged with the producing estimator.
type Frame struct {
	T         float64 `json:"t"`
	Estimator string  `json:"estimator"`

	Phi    float64 `json:"phi"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	ThetaL float64 `json:"theta_l"`
	ThetaR float64 `json:"theta_r"`

	PhiHat    float64 `json:"phi_hat"`
	XHat      float64 `json:"x_hat"`
	YHat      float64 `json:"y_hat"`
	ThetaLHat float64 `json:"theta_l_hat"`
	ThetaRHat float64 `json:"theta_r_hat"`
}

func FrameFrom(name string, truth, est estimator.StateSample) Frame {
	return Frame{
		T:         truth.T,
		Estimator: name,
		Phi:       truth.Phi,
		X:         truth.X,
		Y:         truth.Y,
		ThetaL:    truth.ThetaL,
		ThetaR:    truth.ThetaR,
		PhiHat:    est.Phi,
		XHat:      est.X,
		YHat:      est.Y,
		ThetaLHat: est.ThetaL,
		ThetaRHat: est.ThetaR,
	}
}
