// unicycle-sim runs one estimator against the simulated robot and reports
// its accuracy and execution-time profile at teardown. It stands in for
// the launch file of the robot bringup: the simulator produces the input,
// ground-truth and measurement streams, a ticker drives the estimator, and
// the results go to a CSV log and/or a live websocket feed.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/ucb-ee106-classrooms/project-3-gang/config"
	"github.com/ucb-ee106-classrooms/project-3-gang/estimator"
	"github.com/ucb-ee106-classrooms/project-3-gang/estweb"
	"github.com/ucb-ee106-classrooms/project-3-gang/sim"
)

var cli struct {
	Estimator      string        `default:"extended_kalman_filter" enum:"oracle_observer,dead_reckoning,kalman_filter,extended_kalman_filter" help:"Estimator to run."`
	Scenario       string        `default:"drive" enum:"drive,weave" help:"Wheel-speed program."`
	Duration       time.Duration `default:"30s" help:"Simulated run length."`
	Config         string        `type:"existingfile" optional:"" help:"YAML tuning file."`
	NoiseInjection bool          `default:"true" negatable:"" help:"Add Gaussian noise to reported inputs and measurements."`
	FreezeBearing  bool          `help:"Pin the true bearing to the nominal value."`
	Realtime       bool          `help:"Run the feed and the update loop on real wall-clock tickers."`
	Web            bool          `help:"Serve a live websocket frame feed."`
	Addr           string        `default:"localhost:8000" help:"Address for the web feed."`
	CSV            string        `optional:"" help:"Write truth/estimate rows to this CSV file."`
	Verbose        bool          `short:"v" help:"Debug logging."`
}

func main() {
	kong.Parse(&cli)
	if cli.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if cli.Config != "" {
		var err error
		if cfg, err = config.Load(cli.Config); err != nil {
			logrus.WithError(err).Fatal("loading config")
		}
	}

	// The linear filter's model only holds at the nominal bearing.
	if cli.Estimator == "kalman_filter" && !cli.FreezeBearing {
		logrus.Info("kalman_filter requires the frozen-bearing regime, enabling it")
		cli.FreezeBearing = true
	}

	noise := cfg.Noise
	if !cli.NoiseInjection {
		noise = config.Noise{}
	}

	var scenario sim.Scenario
	switch cli.Scenario {
	case "drive":
		scenario = sim.Drive{UL: 4, UR: 4}
	case "weave":
		scenario = sim.Weave{Base: 4, Swing: 1.5, Period: 8}
	}

	sm := sim.New(scenario, sim.Options{
		Dt:            cfg.Dt,
		FreezeBearing: cli.FreezeBearing,
		InputNoise:    noise.Inputs,
		MeasNoise:     noise.Measurements,
		Seed:          cfg.Seed,
	})

	buf := estimator.NewBuffers()
	buf.AddState(sm.State()) // initial truth seeds every estimator

	est, err := estimator.New(cli.Estimator, buf, cfg.Dt, cfg.Tuning())
	if err != nil {
		logrus.WithError(err).Fatal("creating estimator")
	}

	var feed *estweb.Listener
	if cli.Web {
		room := estweb.NewRoom()
		go room.Run()
		http.Handle("/estweb", room)
		go func() {
			if err := http.ListenAndServe(cli.Addr, nil); err != nil {
				logrus.WithError(err).Fatal("web feed server")
			}
		}()
		if feed, err = estweb.NewListener(cli.Addr); err != nil {
			logrus.WithError(err).Fatal("dialing web feed")
		}
		defer feed.Close()
	}

	var csv *estimator.Logger
	if cli.CSV != "" {
		if csv, err = estimator.NewLogger(cli.CSV); err != nil {
			logrus.WithError(err).Fatal("opening csv log")
		}
		defer csv.Close()
	}

	steps := int(cli.Duration.Seconds() / cfg.Dt)
	logrus.WithFields(logrus.Fields{
		"estimator": est.Name(),
		"scenario":  cli.Scenario,
		"steps":     steps,
		"dt":        cfg.Dt,
	}).Info("starting run")

	publish := func(s estimator.StateSample) {
		truth, _ := buf.LatestState()
		if csv != nil {
			csv.Log(truth, s)
		}
		if feed != nil {
			feed.Send(est.Name(), truth, s)
		}
	}

	if cli.Realtime {
		runRealtime(sm, buf, est, cfg.Dt, steps, publish)
	} else {
		for i := 0; i < steps; i++ {
			u, truth, m := sm.Step()
			buf.AddInput(u)
			buf.AddState(truth)
			buf.AddMeasurement(m)
			if s, ok := est.Update(); ok {
				publish(s)
			}
		}
	}

	report(buf, est)
}

// runRealtime runs the sample feed and the estimator update loop on
// separate goroutines, each on its own wall-clock ticker, the way the live
// robot schedules them.
func runRealtime(sm *sim.Simulator, buf *estimator.Buffers, est estimator.Estimator,
	dt float64, steps int, publish func(estimator.StateSample)) {

	period := time.Duration(dt * float64(time.Second))
	done := make(chan struct{})

	go func() {
		defer close(done)
		tick := time.NewTicker(period)
		defer tick.Stop()
		for i := 0; i < steps; i++ {
			<-tick.C
			u, truth, m := sm.Step()
			buf.AddInput(u)
			buf.AddState(truth)
			buf.AddMeasurement(m)
		}
	}()

	tick := time.NewTicker(period)
	defer tick.Stop()
	for {
		select {
		case <-done:
			// drain whatever the feed got ahead of us
			for {
				s, ok := est.Update()
				if !ok {
					return
				}
				publish(s)
			}
		case <-tick.C:
			if s, ok := est.Update(); ok {
				publish(s)
			}
		}
	}
}

func report(buf *estimator.Buffers, est estimator.Estimator) {
	acc, err := estimator.RMSE(buf.States(), est.Estimates())
	if err != nil {
		logrus.WithError(err).Fatal("computing accuracy")
	}
	logrus.WithFields(logrus.Fields{
		"estimator":      est.Name(),
		"estimates":      len(est.Estimates()),
		"rmse_total":     fmt.Sprintf("%.6f", acc.Total()),
		"execution_time": est.ExecutionTime(),
	}).Info("run complete")
	logrus.Info("rmse per state: ", acc.String())
}
