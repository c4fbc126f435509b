package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/stackmatch/cmd/stackmatch/shared"
	"github.com/lox/stackmatch/internal/simulator"
	"github.com/lox/stackmatch/internal/statistics"
	"github.com/lox/stackmatch/internal/tui"
)

type SimulateCmd struct {
	Games       int           `short:"n" default:"1000" help:"Number of rounds to play"`
	Player      string        `short:"p" default:"memory" enum:"random,memory" help:"Computer player: random or memory"`
	Cards       int           `help:"Cards on the stack per round (0 for the catalog default)"`
	Seed        int64         `env:"STACKMATCH_SEED" help:"RNG seed (0 for random)"`
	Concurrency int           `short:"j" help:"Rounds played in parallel (0 for one per CPU)"`
	Timeout     time.Duration `default:"10s" help:"Timeout per round"`
	AllOps      bool          `name:"all-ops" help:"Use push, pop, peek and clear while building each stack"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.Debug)
	ctx := shared.SetupSignalHandlerWithLogger(logger)
	cat := g.loadCatalog(logger)
	seed := seedOrRandom(c.Seed)

	fmt.Printf("Starting simulation: %d rounds with the %s player (seed: %d)\n", c.Games, c.Player, seed)

	sim := simulator.New(simulator.Config{
		Games:         c.Games,
		Player:        c.Player,
		Cards:         c.Cards,
		Seed:          seed,
		Timeout:       c.Timeout,
		Concurrency:   c.Concurrency,
		AllOperations: c.AllOps,
		Catalog:       cat,
		Logger:        logger,
	})

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	printResults(os.Stdout, stats, c.Player, time.Since(start))
	return nil
}

func printResults(w io.Writer, stats *statistics.Statistics, player string, duration time.Duration) {
	low, high := stats.ConfidenceInterval95()
	perSec := float64(stats.Games) / max(duration.Seconds(), 1e-9)

	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.HeaderStyle.Render(fmt.Sprintf(" FINAL RESULTS: %s player ", player)))
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Games)
	fmt.Fprintf(w, "Total time: %v (%.1f rounds/sec)\n", duration.Round(time.Millisecond), perSec)

	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.StatusStyle.Render("Score"))
	fmt.Fprintf(w, "Mean: %.1f\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.1f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.1f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.1f, %.1f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.0f, P25=%.0f, P75=%.0f, P95=%.0f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Best: %d (seed %d), worst: %d\n", stats.BestScore, stats.BestSeed, stats.WorstScore)

	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.StatusStyle.Render("Moves"))
	fmt.Fprintf(w, "Mean: %.2f (min %d, max %d)\n", stats.MeanMoves(), stats.MinMoves, stats.MaxMoves)
	fmt.Fprintf(w, "Efficiency: %.1f%% of moves found a pair\n", stats.Efficiency()*100)
	fmt.Fprintf(w, "Perfect rounds: %d (%.1f%%)\n",
		stats.PerfectGames, float64(stats.PerfectGames)/float64(stats.Games)*100)
}
