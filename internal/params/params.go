// Package params reads the startup parameters of a timer run.
//
// Parameters use the query-string form `time=<minutes>&break=<minutes>`
// with an optional `times=<cycles>` bound.
package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tapcycle/internal/core/model"
)

const (
	KeyTraining = "time"
	KeyBreak    = "break"
	KeyCycles   = "times"
)

// Parse reads parameters from a raw query, a "?query" or a full URL.
func Parse(raw string) (model.TimerConfig, error) {
	values, err := Values(raw)
	if err != nil {
		return model.TimerConfig{}, err
	}
	return FromValues(values)
}

// Values splits a raw query, a "?query" or a full URL into its values
// without validating them.
func Values(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if index := strings.Index(raw, "?"); index >= 0 {
		raw = raw[index+1:]
	}
	if index := strings.Index(raw, "#"); index >= 0 {
		raw = raw[:index]
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, &model.ConfigError{Field: "query", Value: raw, Reason: "malformed query"}
	}
	return values, nil
}

// FromValues converts parsed parameters into a validated TimerConfig.
func FromValues(values url.Values) (model.TimerConfig, error) {
	training, err := parseMinutes(values, KeyTraining)
	if err != nil {
		return model.TimerConfig{}, err
	}
	breakLength, err := parseMinutes(values, KeyBreak)
	if err != nil {
		return model.TimerConfig{}, err
	}
	cycles, err := parseCycles(values)
	if err != nil {
		return model.TimerConfig{}, err
	}

	config := model.TimerConfig{
		Training:    training,
		Break:       breakLength,
		TotalCycles: cycles,
	}
	return config, config.Validate()
}

// Encode renders a config back into query form.
func Encode(config model.TimerConfig) string {
	values := url.Values{}
	values.Set(KeyTraining, strconv.FormatFloat(config.Training.Minutes(), 'f', -1, 64))
	values.Set(KeyBreak, strconv.FormatFloat(config.Break.Minutes(), 'f', -1, 64))
	if config.Bounded() {
		values.Set(KeyCycles, strconv.Itoa(config.TotalCycles))
	}
	return values.Encode()
}

// MinutesToDuration converts fractional minutes, rejecting non-finite and
// non-positive input.
func MinutesToDuration(field string, minutes float64) (time.Duration, error) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, &model.ConfigError{Field: field, Value: strconv.FormatFloat(minutes, 'g', -1, 64), Reason: "not a finite number"}
	}
	if minutes <= 0 {
		return 0, &model.ConfigError{Field: field, Value: strconv.FormatFloat(minutes, 'g', -1, 64), Reason: "must be greater than zero"}
	}
	duration := time.Duration(minutes * float64(time.Minute))
	if duration <= 0 {
		return 0, &model.ConfigError{Field: field, Value: strconv.FormatFloat(minutes, 'g', -1, 64), Reason: "too short"}
	}
	return duration, nil
}

func parseMinutes(values url.Values, key string) (time.Duration, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, &model.ConfigError{Field: key, Reason: "missing"}
	}
	minutes, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &model.ConfigError{Field: key, Value: raw, Reason: "not a number"}
	}
	return MinutesToDuration(key, minutes)
}

func parseCycles(values url.Values) (int, error) {
	if !values.Has(KeyCycles) {
		return 0, nil
	}
	raw := strings.TrimSpace(values.Get(KeyCycles))
	cycles, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &model.ConfigError{Field: KeyCycles, Value: raw, Reason: "not a whole number"}
	}
	if cycles <= 0 {
		return 0, &model.ConfigError{Field: KeyCycles, Value: raw, Reason: "must be greater than zero"}
	}
	return cycles, nil
}
