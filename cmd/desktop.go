package main

import (
	"errors"
	"fmt"

	"tapcycle/internal/app"
	"tapcycle/internal/core/model"
	"tapcycle/internal/core/phasetimer"
	"tapcycle/internal/logger"
	"tapcycle/internal/platform"
	"tapcycle/internal/storage"
	"tapcycle/internal/ui/overlay"
	"tapcycle/internal/ui/preferences"
	"tapcycle/internal/ui/tray"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// RunCmd opens the timer window.
type RunCmd struct {
	TimerFlags `embed:""`
}

func (c *RunCmd) Run(ctx *Context) error {
	query := c.query(ctx.Settings)

	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if err := platform.Forward(appName, query); err != nil {
			return err
		}
		logger.Info("parameters handed to running instance")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := fyneapp.NewWithID("io.tapcycle.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	shell := newDesktopShell(fyneApp, ctx, c.TimerFlags)
	go guard.Serve(func(forwarded string) {
		logger.Info("parameters received from another launch")
		fyne.Do(func() {
			shell.launch(forwarded)
		})
	})

	shell.launch(query)
	fyneApp.Run()
	shell.stopRun()
	return nil
}

// desktopShell owns the windows and the active run.
type desktopShell struct {
	app         fyne.App
	ctx         *Context
	flags       TimerFlags
	settings    model.Settings
	timerWindow *overlay.Window
	setup       *preferences.Window
	tray        *tray.Manager
	run         *app.Run
	cleanup     func()
}

func newDesktopShell(fyneApp fyne.App, ctx *Context, flags TimerFlags) *desktopShell {
	shell := &desktopShell{
		app:      fyneApp,
		ctx:      ctx,
		flags:    flags,
		settings: ctx.Settings,
	}

	shell.timerWindow = overlay.New(fyneApp, "tapcycle")
	shell.timerWindow.SetOnClick(shell.click)
	shell.timerWindow.SetCloseIntercept(shell.timerWindow.Hide)

	shell.setup = preferences.New(fyneApp, shell.settings, shell.startFromSetup)
	shell.setup.SetCloseIntercept(func() {
		shell.setup.Hide()
		if shell.run == nil {
			shell.quit()
		}
	})

	var host tray.Host
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		host = desktopApp
	} else {
		logger.Warn("system tray unsupported on this platform")
	}
	shell.tray = tray.New(host, tray.Callbacks{
		OnSetup:       shell.setup.Show,
		OnShowTimer:   shell.timerWindow.Show,
		OnTogglePause: shell.togglePause,
		OnQuit:        shell.quit,
	})

	return shell
}

func (shell *desktopShell) launch(query string) {
	_ = app.Launch(query, shell.start, shell.redirect)
}

func (shell *desktopShell) startFromSetup(settings model.Settings) {
	shell.settings = settings
	if err := storage.SaveSettings(shell.ctx.Paths.ConfigDir, settings); err != nil {
		logger.Warn("settings not saved", "err", err)
	}
	config, err := settings.TimerConfig()
	if err != nil {
		shell.redirect(err)
		return
	}
	_ = app.LaunchConfig(config, shell.start, shell.redirect)
}

func (shell *desktopShell) start(config model.TimerConfig) error {
	shell.stopRun()

	options, cleanup := shell.flags.collaborators(shell.ctx, shell.settings)
	options.Display = shell.timerWindow
	options.OnEvent = shell.observe

	run, err := app.NewRun(config, options)
	if err != nil {
		cleanup()
		return err
	}
	shell.run = run
	shell.cleanup = cleanup

	shell.setup.Hide()
	shell.timerWindow.Show()
	shell.tray.SetRunning(true)
	run.Start()
	logger.Info("run started", "session", run.SessionID, "settings", shell.settings.WithTimerConfig(config).Summary())
	return nil
}

func (shell *desktopShell) redirect(reason error) {
	shell.setup.UpdateSettings(shell.settings)
	shell.setup.ShowError(reason)
	shell.setup.Show()
}

func (shell *desktopShell) click() {
	if shell.run != nil {
		shell.run.Timer.Click()
	}
}

func (shell *desktopShell) togglePause() {
	if shell.run == nil {
		return
	}
	shell.run.Timer.TogglePause()
	shell.tray.SetPaused(shell.run.Timer.Snapshot().Paused)
}

// observe runs on the event goroutine of the active run.
func (shell *desktopShell) observe(event phasetimer.Event) {
	switch event.Type {
	case phasetimer.EventPhaseChange, phasetimer.EventProgress:
		status := fmt.Sprintf("%s %s", phasetimer.PhaseTitle(event.Phase, event.Cycle), phasetimer.FormatDuration(event.Remaining))
		fyne.Do(func() {
			shell.tray.SetStatus(status)
		})
	case phasetimer.EventCompleted:
		fyne.Do(func() {
			shell.tray.SetStatus(phasetimer.CompletedTitle)
			shell.tray.SetRunning(false)
		})
	}
}

func (shell *desktopShell) stopRun() {
	if shell.run == nil {
		return
	}
	shell.run.Stop()
	shell.run = nil
	if shell.cleanup != nil {
		shell.cleanup()
		shell.cleanup = nil
	}
}

func (shell *desktopShell) quit() {
	shell.stopRun()
	shell.app.Quit()
}
