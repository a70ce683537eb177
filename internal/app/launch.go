// Package app decides whether a set of startup parameters may start a
// timer run or must send the user back to setup.
package app

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"tapcycle/internal/core/model"
	"tapcycle/internal/logger"
	"tapcycle/internal/params"
)

// StartFunc starts a run with a validated configuration.
type StartFunc func(config model.TimerConfig) error

// RedirectFunc sends the user to the setup entry point.
type RedirectFunc func(reason error)

// Launch parses query and starts a run. Invalid parameters never reach
// start; redirect is called exactly once instead.
func Launch(query string, start StartFunc, redirect RedirectFunc) error {
	config, err := params.Parse(query)
	if err != nil {
		return Reject(err, redirect)
	}
	return LaunchConfig(config, start, redirect)
}

// LaunchConfig is Launch for a configuration assembled elsewhere.
func LaunchConfig(config model.TimerConfig, start StartFunc, redirect RedirectFunc) error {
	if err := config.Validate(); err != nil {
		return Reject(err, redirect)
	}
	return start(config)
}

// Reject logs the configuration error and redirects.
func Reject(err error, redirect RedirectFunc) error {
	var configErr *model.ConfigError
	if errors.As(err, &configErr) {
		logger.Warn("invalid startup parameters", "field", configErr.Field, "reason", configErr.Reason)
	} else {
		logger.Warn("invalid startup parameters", "err", err)
	}
	if redirect != nil {
		redirect(err)
	}
	return err
}

// Overrides are single parameters given on the command line.
type Overrides struct {
	Training string
	Break    string
	Cycles   string
}

func (overrides Overrides) empty() bool {
	return overrides.Training == "" && overrides.Break == "" && overrides.Cycles == ""
}

// ResolveQuery picks the launch parameters. Without a query, saved
// settings supply them. Overrides replace single fields of either source.
// Values are not validated here, so Launch still rejects bad input.
func ResolveQuery(query string, overrides Overrides, settings model.Settings) string {
	query = strings.TrimSpace(query)
	if query != "" && overrides.empty() {
		return query
	}

	values := url.Values{}
	if query != "" {
		parsed, err := params.Values(query)
		if err != nil {
			return query
		}
		values = parsed
	} else {
		values.Set(params.KeyTraining, formatMinutes(settings.TrainingMinutes))
		values.Set(params.KeyBreak, formatMinutes(settings.BreakMinutes))
		if settings.Cycles > 0 {
			values.Set(params.KeyCycles, strconv.Itoa(settings.Cycles))
		}
	}

	override(values, params.KeyTraining, overrides.Training)
	override(values, params.KeyBreak, overrides.Break)
	override(values, params.KeyCycles, overrides.Cycles)
	return values.Encode()
}

func override(values url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		values.Set(key, value)
	}
}

func formatMinutes(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
