package estimator

import (
	"fmt"
	"sync"
)

// InputSample is one wheel-speed command: left and right wheel angular
// speeds, rad/s, at time T.
type InputSample struct {
	T  float64
	UL float64
	UR float64
}

// StateSample is one full unicycle state: bearing (rad), planar position
// (m) and the two wheel rotation angles (rad). Estimates share the same
// shape, so estimator output reuses this type.
type StateSample struct {
	T      float64
	Phi    float64
	X      float64
	Y      float64
	ThetaL float64
	ThetaR float64
}

// MeasurementSample is one sensor reading. Its meaning depends on the mode
// the upstream simulator runs in: (x, y) position when the bearing is
// frozen, (range to landmark, relative bearing) otherwise.
type MeasurementSample struct {
	T  float64
	M1 float64
	M2 float64
}

// The slice constructors enforce the transport contract: a sample with the
// wrong arity is a caller bug and is rejected, never coerced.

func InputFromSlice(v []float64) (InputSample, error) {
	if len(v) != 3 {
		return InputSample{}, fmt.Errorf("input sample needs 3 fields, got %d", len(v))
	}
	return InputSample{T: v[0], UL: v[1], UR: v[2]}, nil
}

func StateFromSlice(v []float64) (StateSample, error) {
	if len(v) != 6 {
		return StateSample{}, fmt.Errorf("state sample needs 6 fields, got %d", len(v))
	}
	return StateSample{T: v[0], Phi: v[1], X: v[2], Y: v[3], ThetaL: v[4], ThetaR: v[5]}, nil
}

func MeasurementFromSlice(v []float64) (MeasurementSample, error) {
	if len(v) != 3 {
		return MeasurementSample{}, fmt.Errorf("measurement sample needs 3 fields, got %d", len(v))
	}
	return MeasurementSample{T: v[0], M1: v[1], M2: v[2]}, nil
}

// Buffers holds the three inbound sample streams. The transport side
// appends, the estimator side reads, and the two may run on different
// goroutines, so every access takes the lock. Samples are only ever
// appended in arrival order, never reordered or removed.
type Buffers struct {
	mu     sync.RWMutex
	inputs []InputSample
	states []StateSample
	meas   []MeasurementSample
}

func NewBuffers() *Buffers {
	return &Buffers{}
}

func (b *Buffers) AddInput(u InputSample) {
	b.mu.Lock()
	b.inputs = append(b.inputs, u)
	b.mu.Unlock()
}

func (b *Buffers) AddState(s StateSample) {
	b.mu.Lock()
	b.states = append(b.states, s)
	b.mu.Unlock()
}

func (b *Buffers) AddMeasurement(m MeasurementSample) {
	b.mu.Lock()
	b.meas = append(b.meas, m)
	b.mu.Unlock()
}

// Inputs returns the input history as of the call. The slice is capped so
// concurrent appends can't write through it; the entries themselves are
// immutable once buffered.
func (b *Buffers) Inputs() []InputSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.inputs[:len(b.inputs):len(b.inputs)]
}

// States returns the ground-truth history as of the call.
func (b *Buffers) States() []StateSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.states[:len(b.states):len(b.states)]
}

// Measurements returns the measurement history as of the call.
func (b *Buffers) Measurements() []MeasurementSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.meas[:len(b.meas):len(b.meas)]
}

func (b *Buffers) FirstState() (StateSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.states) == 0 {
		return StateSample{}, false
	}
	return b.states[0], true
}

func (b *Buffers) LatestInput() (InputSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.inputs) == 0 {
		return InputSample{}, false
	}
	return b.inputs[len(b.inputs)-1], true
}

func (b *Buffers) LatestState() (StateSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.states) == 0 {
		return StateSample{}, false
	}
	return b.states[len(b.states)-1], true
}

func (b *Buffers) LatestMeasurement() (MeasurementSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.meas) == 0 {
		return MeasurementSample{}, false
	}
	return b.meas[len(b.meas)-1], true
}

func (b *Buffers) NumStates() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.states)
}
