package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/stackmatch/internal/catalog"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	CardBackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3C3C5A")).
			Padding(0, 1)

	CardFaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFEAA7")).
			Padding(0, 1)

	CardMatchedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262")).
				Strikethrough(true).
				Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// rarityStyles colour card names by rarity.
var rarityStyles = map[catalog.Rarity]lipgloss.Style{
	catalog.Common:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
	catalog.Uncommon:  lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")),
	catalog.Rare:      lipgloss.NewStyle().Foreground(lipgloss.Color("#74B9FF")),
	catalog.Legendary: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
}

// RarityStyle returns the style for r, falling back to common.
func RarityStyle(r catalog.Rarity) lipgloss.Style {
	if s, ok := rarityStyles[r]; ok {
		return s
	}
	return rarityStyles[catalog.Common]
}

// DisableColor renders every style without colour or attributes.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
