package estimator

import "time"

// OracleObserver copies the latest ground-truth sample as its estimate.
// It is the zero-error baseline the other variants are measured against.
type OracleObserver struct {
	core
}

func NewOracleObserver(buf *Buffers, dt float64) *OracleObserver {
	return &OracleObserver{core: newCore("oracle_observer", buf, dt)}
}

func (o *OracleObserver) Update() (StateSample, bool) {
	start := time.Now()
	defer o.track(start)

	if !o.gate() {
		return StateSample{}, false
	}
	truth, _ := o.buf.LatestState()
	o.append(truth)
	return truth, true
}
