package estimator

import "time"

// DeadReckoning integrates the kinematic model open loop: every activation
// replays the full input history from the initial ground-truth state with a
// fixed step, so a late or repeated activation lands on the same estimate a
// perfectly scheduled run would have produced. No measurements are used and
// no uncertainty is carried.
type DeadReckoning struct {
	core
}

func NewDeadReckoning(buf *Buffers, dt float64) *DeadReckoning {
	return &DeadReckoning{core: newCore("dead_reckoning", buf, dt)}
}

func (d *DeadReckoning) Update() (StateSample, bool) {
	start := time.Now()
	defer d.track(start)

	if !d.gate() {
		return StateSample{}, false
	}
	inputs := d.buf.Inputs()
	if len(inputs) == 0 {
		return StateSample{}, false
	}
	truth, _ := d.buf.LatestState()

	est, _ := d.buf.FirstState()
	for _, u := range inputs {
		est = Integrate(est, u, d.dt)
	}
	// Stamp with the truth clock so the estimate lines up with the sample
	// that triggered it regardless of scheduling jitter.
	est.T = truth.T
	d.append(est)
	return est, true
}
