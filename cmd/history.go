package main

import (
	"fmt"

	"tapcycle/internal/storage"
	"tapcycle/internal/tui"
)

// HistoryCmd prints recorded sessions, or the cycles of one session.
type HistoryCmd struct {
	Session string `arg:"" optional:"" help:"Session id to show cycle by cycle."`
	Limit   int    `help:"Number of sessions to list." default:"20"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	store, err := storage.OpenCycleStore(ctx.Paths.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Session == "" {
		sessions, err := store.ListSessions(c.Limit)
		if err != nil {
			return err
		}
		fmt.Print(tui.RenderSessions(sessions))
		return nil
	}

	records, err := store.ListCycles(c.Session)
	if err != nil {
		return err
	}
	fmt.Print(tui.RenderCycles(records))
	return nil
}
