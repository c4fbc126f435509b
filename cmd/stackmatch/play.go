package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/stackmatch/cmd/stackmatch/shared"
	"github.com/lox/stackmatch/internal/profile"
	"github.com/lox/stackmatch/internal/randutil"
	"github.com/lox/stackmatch/internal/session"
	"github.com/lox/stackmatch/internal/tui"
)

type PlayCmd struct {
	LogFile string `default:"stackmatch.log" help:"Log file path (the terminal belongs to the game)"`
	Seed    int64  `env:"STACKMATCH_SEED" help:"Board shuffle seed (0 for random)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	logger, logFile, err := shared.SetupFileLogger(c.LogFile, g.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	cat := g.loadCatalog(logger)

	store, err := profile.Open(g.Store)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close profile store", "error", err)
		}
	}()

	seed := seedOrRandom(c.Seed)
	logger.Info("Starting Stackmatch", "version", version, "seed", seed, "store", g.Store, "catalog", cat.Source)

	sess, err := session.New(cat.Config, randutil.New(seed),
		session.WithLogger(logger),
		session.WithStore(store),
	)
	if err != nil {
		return err
	}
	defer sess.Reset()

	if err := sess.LoadProfile(ctx); err != nil {
		logger.Warn("Failed to load profile", "error", err)
	}

	bridge, unsubscribe := tui.NewEventBridge(sess.Events(), logger)
	defer unsubscribe()

	model := tui.NewTUIModel(tui.Config{
		Session: sess,
		Catalog: cat,
		Bridge:  bridge,
		Logger:  logger,
		Rand:    randutil.New(seed ^ 0x5eed),
	})

	go func() {
		<-ctx.Done()
		model.SendQuitSignal()
	}()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if dropped := bridge.Dropped(); dropped > 0 {
		logger.Warn("Events were dropped by the UI", "count", dropped)
	}
	logger.Info("Goodbye")
	return nil
}
