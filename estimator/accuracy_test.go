package estimator

import (
	"log"
	"math"
	"testing"
)

func TestRMSEZeroForPerfectEstimates(t *testing.T) {
	buf := cleanRun(10, 1.0, 2.0)
	truth := buf.States()
	acc, err := RMSE(truth, truth)
	if err != nil {
		log.Println("Error:", err)
		t.Fail()
	}
	if acc.Total() != 0 {
		log.Printf("Error: RMSE of a sequence against itself was %g\n", acc.Total())
		t.Fail()
	}
}

func TestRMSEConstantOffset(t *testing.T) {
	buf := cleanRun(10, 1.0, 2.0)
	truth := buf.States()
	est := make([]StateSample, len(truth))
	for i, s := range truth {
		s.X += 0.5
		est[i] = s
	}
	acc, err := RMSE(truth, est)
	if err != nil {
		log.Println("Error:", err)
		t.Fail()
	}
	if math.Abs(acc.X-0.5) > 1e-12 {
		log.Printf("Error: x RMSE was %g, wanted 0.5\n", acc.X)
		t.Fail()
	}
	if acc.Phi != 0 || acc.Y != 0 || acc.ThetaL != 0 || acc.ThetaR != 0 {
		log.Printf("Error: offset leaked into other components: %+v\n", acc)
		t.Fail()
	}
	if math.Abs(acc.Total()-0.5/math.Sqrt(StateDim)) > 1e-12 {
		log.Printf("Error: pooled RMSE was %g\n", acc.Total())
		t.Fail()
	}
}

func TestRMSEUsesCommonPrefix(t *testing.T) {
	buf := cleanRun(10, 1.0, 2.0)
	truth := buf.States()
	// an estimator that lagged behind still gets scored on what it produced
	acc, err := RMSE(truth, truth[:4])
	if err != nil {
		log.Println("Error:", err)
		t.Fail()
	}
	if acc.Total() != 0 {
		log.Printf("Error: prefix RMSE was %g\n", acc.Total())
		t.Fail()
	}
}

func TestRMSEEmptyIsAnError(t *testing.T) {
	if _, err := RMSE(nil, nil); err == nil {
		log.Println("Error: RMSE over empty sequences should fail")
		t.Fail()
	}
}
