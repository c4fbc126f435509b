// Package board builds the shuffled pairing board for a round. Every stack
// entry contributes two cards that share a pair id.
package board

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lox/stackmatch/internal/cardstack"
	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/randutil"
)

// ErrNoEntries is returned when building from an empty stack snapshot.
var ErrNoEntries = errors.New("cannot build a board without stacked cards")

// Card is one face-down card on the board.
type Card struct {
	ID      string       `json:"id"`
	PairID  string       `json:"pair_id"`
	Def     catalog.Card `json:"card"`
	Matched bool         `json:"matched"`
	Flipped bool         `json:"flipped"`
}

// FaceUp reports whether the card is currently visible.
func (c Card) FaceUp() bool {
	return c.Flipped || c.Matched
}

// Board is the shuffled sequence of cards for a single round.
type Board struct {
	cards []Card
	index map[string]int
	pairs int
}

// Build creates a board from a stack snapshot. Cards are laid out two per
// entry and then shuffled with rng.
func Build(entries []cardstack.Entry, rng *rand.Rand) (*Board, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	if rng == nil {
		return nil, errors.New("rng is required to build a board")
	}

	cards := make([]Card, 0, 2*len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.StackID]; dup {
			return nil, fmt.Errorf("duplicate stack id %s", e.StackID)
		}
		seen[e.StackID] = struct{}{}

		cards = append(cards,
			Card{ID: e.StackID + "/a", PairID: e.StackID, Def: e.Card},
			Card{ID: e.StackID + "/b", PairID: e.StackID, Def: e.Card},
		)
	}

	randutil.Shuffle(rng, cards)

	index := make(map[string]int, len(cards))
	for i, c := range cards {
		index[c.ID] = i
	}

	return &Board{cards: cards, index: index, pairs: len(entries)}, nil
}

// Len returns the number of cards on the board.
func (b *Board) Len() int {
	return len(b.cards)
}

// Pairs returns the number of distinct pairs on the board.
func (b *Board) Pairs() int {
	return b.pairs
}

// Card returns the card at position i.
func (b *Board) Card(i int) Card {
	return b.cards[i]
}

// Cards returns a copy of the board in layout order.
func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// Position returns the layout position of the card with the given id.
func (b *Board) Position(cardID string) (int, bool) {
	i, ok := b.index[cardID]
	return i, ok
}

// SetFlipped marks the card at i face up or face down.
func (b *Board) SetFlipped(i int, flipped bool) {
	b.cards[i].Flipped = flipped
}

// SetMatched marks the card at i as matched.
func (b *Board) SetMatched(i int) {
	b.cards[i].Matched = true
}

// MatchedPairs counts pairs whose cards are both matched.
func (b *Board) MatchedPairs() int {
	n := 0
	for _, c := range b.cards {
		if c.Matched {
			n++
		}
	}
	return n / 2
}

// AllMatched returns true when every card is matched.
func (b *Board) AllMatched() bool {
	for _, c := range b.cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

// Hidden returns the positions of cards that are neither matched nor
// flipped.
func Hidden(cards []Card) []int {
	var out []int
	for i, c := range cards {
		if !c.FaceUp() {
			out = append(out, i)
		}
	}
	return out
}
