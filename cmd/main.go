package main

import (
	"fmt"
	"os"

	"tapcycle/internal/core/model"
	"tapcycle/internal/logger"
	"tapcycle/internal/platform"
	"tapcycle/internal/storage"

	"github.com/alecthomas/kong"
)

const appName = "tapcycle"

var CLI struct {
	Version kong.VersionFlag
	Debug   bool   `help:"Log debug output to the console." env:"TAPCYCLE_DEBUG"`
	DB      string `name:"db" help:"Cycle database path." type:"path" env:"TAPCYCLE_DB"`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Open the timer window (default)."`
	Tui     TuiCmd     `cmd:"" help:"Run the timer in the terminal."`
	History HistoryCmd `cmd:"" help:"Show recorded clicks per cycle."`
}

// Context is shared by every command.
type Context struct {
	Paths    platform.Paths
	Settings model.Settings
	Debug    bool
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(appName),
		kong.Description("Interval timer that counts clicks during training and break phases."),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	paths, err := platform.ResolvePaths(appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.DB != "" {
		paths.Database = CLI.DB
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, LogDir: paths.LogDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %v\n", err)
		os.Exit(1)
	}

	settings, err := storage.LoadSettings(paths.ConfigDir)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "err", err)
		settings = model.DefaultSettings()
	}

	appCtx := &Context{
		Paths:    paths,
		Settings: settings,
		Debug:    CLI.Debug,
	}
	if err := ctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
