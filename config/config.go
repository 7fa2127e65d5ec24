// Package config loads and validates the launch configuration: integration
// step, filter tuning, and the noise levels of the simulated sensor suite.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ucb-ee106-classrooms/project-3-gang/estimator"
)

type Filter struct {
	ProcessVariance     float64 `yaml:"process_variance" validate:"gt=0"`
	MeasurementVariance float64 `yaml:"measurement_variance" validate:"gt=0"`
	InitialVariance     float64 `yaml:"initial_variance" validate:"gt=0"`
}

type Noise struct {
	Inputs       float64 `yaml:"inputs" validate:"gte=0"`
	Measurements float64 `yaml:"measurements" validate:"gte=0"`
}

type Config struct {
	Dt     float64 `yaml:"dt" validate:"gt=0"`
	Seed   int64   `yaml:"seed"`
	Kalman Filter  `yaml:"kalman"`
	EKF    Filter  `yaml:"ekf"`
	Noise  Noise   `yaml:"noise"`
}

// Default mirrors the stock launch parameters of the robot bringup.
func Default() Config {
	return Config{
		Dt:     estimator.DefaultDt,
		Kalman: Filter{ProcessVariance: 0.1, MeasurementVariance: 0.1, InitialVariance: 0.1},
		EKF:    Filter{ProcessVariance: 0.05, MeasurementVariance: 0.01, InitialVariance: 0.05},
		Noise:  Noise{Inputs: 0.05, Measurements: 0.02},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Tuning converts the configured variances into the estimator package's
// tuning structure.
func (c Config) Tuning() estimator.Tuning {
	return estimator.Tuning{
		Kalman: estimator.FilterTuning{
			ProcessVar:     c.Kalman.ProcessVariance,
			MeasurementVar: c.Kalman.MeasurementVariance,
			InitialVar:     c.Kalman.InitialVariance,
		},
		EKF: estimator.FilterTuning{
			ProcessVar:     c.EKF.ProcessVariance,
			MeasurementVar: c.EKF.MeasurementVariance,
			InitialVar:     c.EKF.InitialVariance,
		},
	}
}
