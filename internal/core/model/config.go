package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("invalid timer configuration")

// ConfigError reports a startup parameter that cannot drive the timer.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (err *ConfigError) Error() string {
	if err.Value == "" {
		return fmt.Sprintf("%s: %s", err.Field, err.Reason)
	}
	return fmt.Sprintf("%s=%q: %s", err.Field, err.Value, err.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (err *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// TimerConfig contains the phase lengths for a PhaseTimer run.
// TotalCycles of zero means the run never completes on its own.
type TimerConfig struct {
	Training    time.Duration
	Break       time.Duration
	TotalCycles int
}

// Bounded reports whether the run stops after TotalCycles training phases.
func (config TimerConfig) Bounded() bool {
	return config.TotalCycles > 0
}

// Validate checks that every duration and the optional bound are positive.
func (config TimerConfig) Validate() error {
	if config.Training <= 0 {
		return &ConfigError{Field: "time", Value: config.Training.String(), Reason: "training duration must be positive"}
	}
	if config.Break <= 0 {
		return &ConfigError{Field: "break", Value: config.Break.String(), Reason: "break duration must be positive"}
	}
	if config.TotalCycles < 0 {
		return &ConfigError{Field: "times", Value: fmt.Sprintf("%d", config.TotalCycles), Reason: "cycle count must be positive"}
	}
	return nil
}
