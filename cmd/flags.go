package main

import (
	"time"

	"tapcycle/internal/app"
	"tapcycle/internal/core/model"
	"tapcycle/internal/core/phasetimer"
	"tapcycle/internal/logger"
	"tapcycle/internal/notify"
	"tapcycle/internal/storage"
)

// TimerFlags are the launch parameters shared by run and tui.
type TimerFlags struct {
	Query      string        `arg:"" optional:"" help:"Launch query or URL, e.g. \"time=1&break=0.5&times=3\"." env:"TAPCYCLE_QUERY"`
	Time       string        `help:"Training minutes." env:"TAPCYCLE_TIME"`
	Break      string        `help:"Break minutes." env:"TAPCYCLE_BREAK"`
	Times      string        `help:"Number of cycles (unbounded when empty)." env:"TAPCYCLE_TIMES"`
	ClickScope string        `help:"Which clicks count: training or session." env:"TAPCYCLE_CLICK_SCOPE"`
	NoPersist  bool          `help:"Do not store clicks per cycle."`
	Notify     bool          `help:"Post desktop notifications on phase changes." env:"TAPCYCLE_NOTIFY"`
	Tick       time.Duration `help:"Countdown refresh interval." default:"10ms"`
}

func (flags TimerFlags) query(settings model.Settings) string {
	return app.ResolveQuery(flags.Query, app.Overrides{
		Training: flags.Time,
		Break:    flags.Break,
		Cycles:   flags.Times,
	}, settings)
}

func (flags TimerFlags) clickScope(settings model.Settings) phasetimer.ClickScope {
	for _, value := range []string{flags.ClickScope, settings.ClickScope} {
		if value == "" {
			continue
		}
		scope, err := phasetimer.ParseClickScope(value)
		if err == nil {
			return scope
		}
		logger.Warn("ignoring click scope", "value", value, "err", err)
	}
	return phasetimer.ClickScopeTraining
}

// collaborators opens what a run needs besides the timer. The returned
// cleanup releases them.
func (flags TimerFlags) collaborators(ctx *Context, settings model.Settings) (app.RunOptions, func()) {
	options := app.RunOptions{
		ClickScope:   flags.clickScope(settings),
		TickInterval: flags.Tick,
	}
	var closers []func()

	if settings.PersistCycles && !flags.NoPersist {
		store, err := storage.OpenCycleStore(ctx.Paths.Database)
		if err != nil {
			logger.Warn("cycle history disabled", "err", err)
		} else {
			options.Recorders = app.StoreRecorders{Store: store}
			closers = append(closers, func() { _ = store.Close() })
		}
	}

	if settings.Notify || flags.Notify {
		notifier, err := notify.NewSessionNotifier(appName)
		if err != nil {
			logger.Warn("notifications disabled", "err", err)
		} else {
			options.Notifier = notifier
			closers = append(closers, func() { _ = notifier.Close() })
		}
	}

	return options, func() {
		for _, closer := range closers {
			closer()
		}
	}
}
