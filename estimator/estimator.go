// Package estimator implements recursive state estimators for a
// differential-drive (unicycle) mobile robot: an oracle observer, open-loop
// dead reckoning, a linear Kalman filter at a frozen nominal bearing, and
// an extended Kalman filter that relinearizes the kinematic and landmark
// measurement models at every step.
package estimator

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	WheelRadius = 0.033 // r, wheel radius of the robot, m
	HalfTrack   = 0.08  // d, half the track width, m

	// NominalBearing is the bearing the upstream simulator pins the robot
	// to in frozen-bearing mode; the linear filter's model is built at it.
	NominalBearing = math.Pi / 4

	// Landmark position used by the nonlinear measurement model.
	LandmarkX = 0.5
	LandmarkY = 0.5

	DefaultDt = 0.1 // scheduler tick and integration step, s

	Small = 1e-9
)

// Estimator is one estimation strategy. Update runs at most one gated
// predict/update cycle against the shared buffers and reports whether an
// estimate was appended. Implementations keep no hidden inputs: replaying
// identical buffer contents through a fresh instance reproduces the same
// estimate sequence.
type Estimator interface {
	Name() string
	Update() (StateSample, bool)
	Estimates() []StateSample
	ExecutionTime() time.Duration
}

// FilterTuning holds the diagonal values of the noise and initial
// covariance matrices of one filter. The defaults are tuning constants,
// not computed quantities.
type FilterTuning struct {
	ProcessVar     float64 // Q diagonal
	MeasurementVar float64 // R diagonal
	InitialVar     float64 // initial P diagonal
}

// Tuning bundles the tuning of both filters.
type Tuning struct {
	Kalman FilterTuning
	EKF    FilterTuning
}

func DefaultTuning() Tuning {
	return Tuning{
		Kalman: FilterTuning{ProcessVar: 0.1, MeasurementVar: 0.1, InitialVar: 0.1},
		EKF:    FilterTuning{ProcessVar: 0.05, MeasurementVar: 0.01, InitialVar: 0.05},
	}
}

// New returns the named estimator reading from buf. Names follow the
// launch-file values of the robot bringup.
func New(name string, buf *Buffers, dt float64, t Tuning) (Estimator, error) {
	switch name {
	case "oracle_observer":
		return NewOracleObserver(buf, dt), nil
	case "dead_reckoning":
		return NewDeadReckoning(buf, dt), nil
	case "kalman_filter":
		return NewKalmanFilter(buf, dt, t.Kalman), nil
	case "extended_kalman_filter":
		return NewExtendedKalmanFilter(buf, dt, t.EKF), nil
	}
	return nil, fmt.Errorf("no such estimator: %q", name)
}

// core carries what every variant shares: the sample buffers, the
// append-only estimate sequence and the cumulative wall-clock time spent
// inside update computations.
type core struct {
	name string
	buf  *Buffers
	dt   float64

	mu        sync.RWMutex
	estimates []StateSample
	execTime  time.Duration
}

func newCore(name string, buf *Buffers, dt float64) core {
	if dt <= 0 {
		dt = DefaultDt
	}
	return core{name: name, buf: buf, dt: dt}
}

func (c *core) Name() string { return c.name }

// Estimates returns the estimate sequence as of the call, capped so
// concurrent appends can't write through it.
func (c *core) Estimates() []StateSample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.estimates[:len(c.estimates):len(c.estimates)]
}

func (c *core) ExecutionTime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.execTime
}

func (c *core) latestEstimate() (StateSample, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.estimates) == 0 {
		return StateSample{}, false
	}
	return c.estimates[len(c.estimates)-1], true
}

func (c *core) append(s StateSample) {
	c.mu.Lock()
	c.estimates = append(c.estimates, s)
	c.mu.Unlock()
}

func (c *core) track(start time.Time) {
	c.mu.Lock()
	c.execTime += time.Since(start)
	c.mu.Unlock()
}

// gate reports whether a predict/update cycle should run. The first time a
// ground-truth sample is available it seeds the estimate sequence with a
// verbatim copy of it, so every estimator starts identical to the truth.
// After that a cycle runs only when the truth has moved past the latest
// estimate; a stale or starved tick is a no-op, not an error.
func (c *core) gate() bool {
	last, ok := c.latestEstimate()
	if !ok {
		s0, have := c.buf.FirstState()
		if !have {
			return false // still awaiting the seed
		}
		c.append(s0)
		last = s0
	}
	truth, ok := c.buf.LatestState()
	return ok && last.T < truth.T
}
