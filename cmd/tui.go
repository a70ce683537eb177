package main

import (
	"fmt"
	"os"

	"tapcycle/internal/app"
	"tapcycle/internal/core/model"
	"tapcycle/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

// TuiCmd runs the timer in the terminal.
type TuiCmd struct {
	TimerFlags `embed:""`
}

func (c *TuiCmd) Run(ctx *Context) error {
	return app.Launch(c.query(ctx.Settings), func(config model.TimerConfig) error {
		return c.runTimer(ctx, config)
	}, func(reason error) {
		fmt.Fprintf(os.Stderr, "Cannot start: %v\n", reason)
		fmt.Fprintf(os.Stderr, "Pass --time and --break in minutes, or run `%s` to open the setup window.\n", appName)
	})
}

func (c *TuiCmd) runTimer(ctx *Context, config model.TimerConfig) error {
	options, cleanup := c.collaborators(ctx, ctx.Settings)
	defer cleanup()

	board := tui.NewBoard()
	options.Display = board
	run, err := app.NewRun(config, options)
	if err != nil {
		return err
	}
	defer run.Stop()

	summary := ctx.Settings.WithTimerConfig(config).Summary()
	run.Start()
	program := tea.NewProgram(tui.NewModel(run.Timer, board, summary), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
