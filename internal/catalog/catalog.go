// Package catalog defines the card definitions a game can stack and the
// configuration bundle that governs stack size, board size and resolution
// timing. Catalogs are loaded from HCL or YAML files, and a validated
// built-in catalog is used whenever the file cannot be read.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rarity classifies how valuable a card is.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Legendary Rarity = "legendary"
)

// ParseRarity converts s to a Rarity. An empty string is treated as Common.
func ParseRarity(s string) (Rarity, error) {
	switch r := Rarity(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Common, nil
	case Common, Uncommon, Rare, Legendary:
		return r, nil
	default:
		return "", fmt.Errorf("unknown rarity %q", s)
	}
}

// String returns the string representation of the rarity
func (r Rarity) String() string {
	return string(r)
}

// Card is an immutable card definition.
type Card struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Icon   string `json:"icon" yaml:"icon"`
	Color  string `json:"color" yaml:"color"`
	Points int    `json:"points" yaml:"points"`
	Rarity Rarity `json:"rarity" yaml:"rarity"`
}

// Label returns the icon and name of the card for display.
func (c Card) Label() string {
	if c.Icon == "" {
		return c.Name
	}
	return c.Icon + " " + c.Name
}

// Config is the configuration bundle that travels with a catalog.
type Config struct {
	// MaxCards caps how many card definitions the catalog may expose.
	MaxCards int
	// MinCards is the smallest stack a game can be started with.
	MinCards int
	// DefaultCards is how many cards quick-start and autoplay push.
	DefaultCards int
	// MaxStackSize is the capacity of the card stack.
	MaxStackSize int
	// FlipResolutionDelay is how long a revealed pair stays up before it is
	// evaluated.
	FlipResolutionDelay time.Duration
	// MatchDelay is the pause between the final match and completion.
	MatchDelay time.Duration
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	var errs []error
	if c.MaxCards < 1 {
		errs = append(errs, fmt.Errorf("max_cards must be positive, got %d", c.MaxCards))
	}
	if c.MinCards < 1 {
		errs = append(errs, fmt.Errorf("min_cards must be positive, got %d", c.MinCards))
	}
	if c.MaxStackSize < c.MinCards {
		errs = append(errs, fmt.Errorf("max_stack_size (%d) must be at least min_cards (%d)", c.MaxStackSize, c.MinCards))
	}
	if c.DefaultCards < c.MinCards || c.DefaultCards > c.MaxStackSize {
		errs = append(errs, fmt.Errorf("default_cards (%d) must be between min_cards (%d) and max_stack_size (%d)",
			c.DefaultCards, c.MinCards, c.MaxStackSize))
	}
	if c.FlipResolutionDelay < 0 {
		errs = append(errs, errors.New("flip_resolution_delay_ms cannot be negative"))
	}
	if c.MatchDelay < 0 {
		errs = append(errs, errors.New("match_delay_ms cannot be negative"))
	}
	return errors.Join(errs...)
}

// Catalog is an ordered, read-only set of card definitions plus its config.
type Catalog struct {
	Cards  []Card
	Config Config
	// Source names where the catalog came from ("builtin" or a file path).
	Source string
}

// Validate checks that the catalog has usable, uniquely identified cards and
// a consistent configuration.
func (c *Catalog) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Cards) == 0 {
		return errors.New("catalog has no cards")
	}
	if len(c.Cards) > c.Config.MaxCards {
		return fmt.Errorf("catalog has %d cards, max_cards is %d", len(c.Cards), c.Config.MaxCards)
	}

	ids := make(map[int]struct{}, len(c.Cards))
	for _, card := range c.Cards {
		if strings.TrimSpace(card.Name) == "" {
			return fmt.Errorf("card %d has no name", card.ID)
		}
		if card.Points < 0 {
			return fmt.Errorf("card %q has negative points", card.Name)
		}
		if _, err := ParseRarity(string(card.Rarity)); err != nil {
			return fmt.Errorf("card %q: %w", card.Name, err)
		}
		if _, dup := ids[card.ID]; dup {
			return fmt.Errorf("duplicate card id %d", card.ID)
		}
		ids[card.ID] = struct{}{}
	}
	return nil
}

// Lookup returns the card with the given id.
func (c *Catalog) Lookup(id int) (Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

// Find resolves a user reference to a card: either its numeric id or a
// case-insensitive name.
func (c *Catalog) Find(ref string) (Card, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return c.Lookup(id)
	}
	for _, card := range c.Cards {
		if strings.EqualFold(card.Name, ref) {
			return card, true
		}
	}
	return Card{}, false
}

// Defaults returns the first DefaultCards definitions, the set used for
// quick starts.
func (c *Catalog) Defaults() []Card {
	n := min(c.Config.DefaultCards, len(c.Cards))
	out := make([]Card, n)
	copy(out, c.Cards[:n])
	return out
}
