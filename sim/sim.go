// Package sim is the ground-truth source for the estimator suite. It
// forward-integrates the true unicycle state under a Scenario's wheel-speed
// program and publishes the three streams the estimators consume: noisy
// wheel-speed inputs, exact ground truth, and noisy measurements. In
// frozen-bearing mode the true bearing is pinned to the nominal value and
// the sensor reports the planar position; otherwise it reports range and
// relative bearing to the landmark.
package sim

import (
	"math/rand"

	"github.com/ucb-ee106-classrooms/project-3-gang/estimator"
)

type Options struct {
	Dt            float64
	FreezeBearing bool
	InputNoise    float64 // stddev added to reported wheel speeds
	MeasNoise     float64 // stddev added to reported measurements
	Seed          int64
}

type Simulator struct {
	scenario Scenario
	opt      Options
	rng      *rand.Rand
	truth    estimator.StateSample
}

func New(sc Scenario, opt Options) *Simulator {
	if opt.Dt <= 0 {
		opt.Dt = estimator.DefaultDt
	}
	s := &Simulator{
		scenario: sc,
		opt:      opt,
		rng:      rand.New(rand.NewSource(opt.Seed)),
	}
	if opt.FreezeBearing {
		s.truth.Phi = estimator.NominalBearing
	}
	return s
}

// State returns the current true state.
func (s *Simulator) State() estimator.StateSample {
	return s.truth
}

// Step advances the truth one dt and returns the reported input, the exact
// truth sample, and the reported measurement for the new instant. The
// truth is always integrated with the clean wheel speeds; noise goes only
// into what is reported downstream.
func (s *Simulator) Step() (estimator.InputSample, estimator.StateSample, estimator.MeasurementSample) {
	uL, uR := s.scenario.WheelSpeeds(s.truth.T)
	clean := estimator.InputSample{T: s.truth.T, UL: uL, UR: uR}

	s.truth = estimator.Integrate(s.truth, clean, s.opt.Dt)
	if s.opt.FreezeBearing {
		s.truth.Phi = estimator.NominalBearing
	}

	u := estimator.InputSample{
		T:  s.truth.T,
		UL: uL + s.noise(s.opt.InputNoise),
		UR: uR + s.noise(s.opt.InputNoise),
	}

	var m1, m2 float64
	if s.opt.FreezeBearing {
		m1, m2 = s.truth.X, s.truth.Y
	} else {
		m1, m2 = estimator.Measure(s.truth)
	}
	m := estimator.MeasurementSample{
		T:  s.truth.T,
		M1: m1 + s.noise(s.opt.MeasNoise),
		M2: m2 + s.noise(s.opt.MeasNoise),
	}

	return u, s.truth, m
}

func (s *Simulator) noise(sigma float64) float64 {
	if sigma <= 0 {
		return 0
	}
	return sigma * s.rng.NormFloat64()
}
