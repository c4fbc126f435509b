package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/randutil"
	"github.com/lox/stackmatch/internal/tui"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Catalog string `short:"c" type:"path" env:"STACKMATCH_CATALOG" help:"Card catalog file (.hcl, .yaml or .yml); the built-in catalog is used when empty"`
	Store   string `short:"s" default:"stackmatch.db" env:"STACKMATCH_STORE" help:"Profile store: a .db file for SQLite, 'memory', or any other path for JSON"`
	Debug   bool   `help:"Enable debug logging"`
	NoColor bool   `help:"Disable colour output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play interactively (default)"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with a computer player and report statistics"`
	Cards    CatalogCmd       `cmd:"" name:"catalog" help:"List the cards in the catalog"`
	Scores   ScoresCmd        `cmd:"" help:"Show the high score and recent rounds"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("stackmatch"),
		kong.Description("Build a stack of cards, then match the pairs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		tui.DisableColor()
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadCatalog reads the configured catalog, falling back to the built-in
// one with a warning.
func (g *Globals) loadCatalog(logger *log.Logger) *catalog.Catalog {
	cat, err := catalog.Load(g.Catalog)
	if err != nil {
		logger.Warn("Using built-in catalog", "path", g.Catalog, "error", err)
	}
	logger.Debug("Catalog loaded", "source", cat.Source, "cards", len(cat.Cards))
	return cat
}

// seedOrRandom returns seed, or a fresh random seed when it is zero.
func seedOrRandom(seed int64) int64 {
	if seed == 0 {
		return randutil.NewSeed()
	}
	return seed
}
