package estimator

import (
	"fmt"
	"os"
	"strings"
)

// Logger writes truth/estimate pairs to a CSV file for offline analysis.
type Logger struct {
	f   *os.File
	fmt string
}

var logHeaders = []string{
	"t",
	"phi", "x", "y", "theta_l", "theta_r",
	"phi_hat", "x_hat", "y_hat", "theta_l_hat", "theta_r_hat",
}

func NewLogger(fn string) (*Logger, error) {
	f, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	l := &Logger{f: f}
	fmt.Fprint(l.f, strings.Join(logHeaders, ","), "\n")
	s := strings.Repeat("%f,", len(logHeaders))
	l.fmt = strings.Join([]string{s[:len(s)-1], "\n"}, "")
	return l, nil
}

func (l *Logger) Log(truth, est StateSample) {
	fmt.Fprintf(l.f, l.fmt,
		truth.T,
		truth.Phi, truth.X, truth.Y, truth.ThetaL, truth.ThetaR,
		est.Phi, est.X, est.Y, est.ThetaL, est.ThetaR)
}

func (l *Logger) Close() error {
	return l.f.Close()
}
