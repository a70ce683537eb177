package model

import (
	"fmt"
	"time"
)

// Settings defines editable user preferences.
type Settings struct {
	TrainingMinutes float64
	BreakMinutes    float64
	Cycles          int
	ClickScope      string
	PersistCycles   bool
	Notify          bool
}

// DefaultSettings returns default settings for tapcycle.
func DefaultSettings() Settings {
	return Settings{
		TrainingMinutes: 1,
		BreakMinutes:    0.5,
		Cycles:          0,
		ClickScope:      "training",
		PersistCycles:   true,
		Notify:          false,
	}
}

// TimerConfig converts settings to a validated TimerConfig.
func (settings Settings) TimerConfig() (TimerConfig, error) {
	config := TimerConfig{
		Training:    minutes(settings.TrainingMinutes),
		Break:       minutes(settings.BreakMinutes),
		TotalCycles: settings.Cycles,
	}
	if err := config.Validate(); err != nil {
		return TimerConfig{}, err
	}
	return config, nil
}

// WithTimerConfig copies the phase lengths of config into settings.
func (settings Settings) WithTimerConfig(config TimerConfig) Settings {
	settings.TrainingMinutes = config.Training.Minutes()
	settings.BreakMinutes = config.Break.Minutes()
	settings.Cycles = config.TotalCycles
	return settings
}

// Summary renders the phase lengths for status lines.
func (settings Settings) Summary() string {
	if settings.Cycles > 0 {
		return fmt.Sprintf("%gm training / %gm break x%d", settings.TrainingMinutes, settings.BreakMinutes, settings.Cycles)
	}
	return fmt.Sprintf("%gm training / %gm break", settings.TrainingMinutes, settings.BreakMinutes)
}

func minutes(value float64) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value * float64(time.Minute))
}
