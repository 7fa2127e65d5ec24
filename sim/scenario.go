package sim

import "math"

// A Scenario supplies the wheel-speed program driving the simulated robot.
type Scenario interface {
	WheelSpeeds(t float64) (uL, uR float64)
}

// Drive commands constant wheel speeds. Equal speeds give a straight run,
// which is the regime the frozen-bearing filter is built for.
type Drive struct {
	UL, UR float64
}

func (d Drive) WheelSpeeds(t float64) (float64, float64) {
	return d.UL, d.UR
}

// Weave oscillates the differential around a base speed so the bearing
// swings back and forth. Exercises the relinearization of the nonlinear
// filter.
type Weave struct {
	Base   float64 // common wheel speed, rad/s
	Swing  float64 // differential amplitude, rad/s
	Period float64 // oscillation period, s
}

func (w Weave) WheelSpeeds(t float64) (float64, float64) {
	s := w.Swing * math.Sin(2*math.Pi*t/w.Period)
	return w.Base + s, w.Base - s
}
