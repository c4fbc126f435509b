package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/stackmatch/cmd/stackmatch/shared"
	"github.com/lox/stackmatch/internal/profile"
	"github.com/lox/stackmatch/internal/session"
	"github.com/lox/stackmatch/internal/tui"
)

type ScoresCmd struct {
	Limit int `short:"n" default:"10" help:"Number of recent rounds to show"`
}

func (c *ScoresCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.Debug)

	store, err := profile.Open(g.Store)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Debug("Reading scores", "store", g.Store)
	return printScores(ctx, os.Stdout, store, c.Limit)
}

func printScores(ctx context.Context, w io.Writer, store profile.Store, limit int) error {
	name, err := store.PlayerName(ctx)
	if err != nil {
		return err
	}
	high, err := store.HighScore(ctx)
	if err != nil {
		return err
	}
	results, err := store.RecentResults(ctx, limit)
	if err != nil {
		return err
	}

	if name == "" {
		name = "(not logged in)"
	}
	fmt.Fprintln(w, tui.HeaderStyle.Render(" "+name+" "))
	fmt.Fprintln(w, tui.WarningStyle.Render(fmt.Sprintf("High score: %d", high)))

	if len(results) == 0 {
		fmt.Fprintln(w, tui.InfoStyle.Render("No rounds played yet"))
		return nil
	}

	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%s  %-12s %6d  %d pairs in %d moves, %s\n",
			r.At.Local().Format("2006-01-02 15:04"), r.Player, r.Score, r.Pairs, r.Moves,
			session.FormatElapsed(int(r.Elapsed/time.Second)))
	}
	return nil
}
