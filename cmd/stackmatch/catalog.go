package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/stackmatch/cmd/stackmatch/shared"
	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/tui"
)

type CatalogCmd struct {
	Format string `short:"f" default:"table" enum:"table,yaml" help:"Output format: table or yaml"`
}

func (c *CatalogCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.Debug)
	cat := g.loadCatalog(logger)

	if c.Format == "yaml" {
		data, err := catalog.EncodeYAML(cat)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	printCatalog(os.Stdout, cat)
	return nil
}

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, tui.HeaderStyle.Render(fmt.Sprintf(" %d cards from %s ", len(cat.Cards), cat.Source)))

	idCol := lipgloss.NewStyle().Width(5).Align(lipgloss.Right).MarginRight(2)
	nameCol := lipgloss.NewStyle().Width(18)
	rarityCol := lipgloss.NewStyle().Width(11)

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		idCol.Render("ID"), nameCol.Render("CARD"), rarityCol.Render("RARITY"), "POINTS"))
	for _, card := range cat.Cards {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			idCol.Render(fmt.Sprint(card.ID)),
			nameCol.Render(tui.RarityStyle(card.Rarity).Render(card.Label())),
			rarityCol.Render(card.Rarity.String()),
			fmt.Sprint(card.Points),
		))
	}

	cfg := cat.Config
	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.InfoStyle.Render(fmt.Sprintf(
		"Stack holds %d-%d cards (default %d). Pairs resolve after %v, the round ends %v after the last match.",
		cfg.MinCards, cfg.MaxStackSize, cfg.DefaultCards, cfg.FlipResolutionDelay, cfg.MatchDelay)))
}
