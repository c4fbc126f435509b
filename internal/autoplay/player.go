// Package autoplay contains computer players that flip cards on a board and
// a driver that plays a session to completion with one of them.
package autoplay

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/stackmatch/internal/board"
)

// Player picks which card to flip next. Players only learn a card's identity
// when it is face up, either because Choose is handed a face-up card or
// because the driver reports it through Observe.
type Player interface {
	Name() string
	// Choose returns the position of a face-down card to flip, or false when
	// nothing can be flipped.
	Choose(cards []board.Card) (int, bool)
	// Observe reports a card that was turned face up.
	Observe(position int, card board.Card)
	// Reset forgets everything learned about the previous board.
	Reset()
}

// Names lists the available player types.
var Names = []string{"random", "memory"}

// New creates the named player.
func New(name string, rng *rand.Rand) (Player, error) {
	switch name {
	case "random":
		return NewRandom(rng), nil
	case "memory":
		return NewMemory(rng), nil
	default:
		return nil, fmt.Errorf("unknown player %q (want one of %v)", name, Names)
	}
}

// Random flips uniformly random face-down cards and remembers nothing.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random player
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Name() string            { return "random" }
func (r *Random) Observe(int, board.Card) {}
func (r *Random) Reset()                  {}

func (r *Random) Choose(cards []board.Card) (int, bool) {
	hidden := board.Hidden(cards)
	if len(hidden) == 0 {
		return 0, false
	}
	return hidden[r.rng.IntN(len(hidden))], true
}

// Memory remembers every card it has seen. It completes a pair whenever it
// knows where the partner is, and otherwise explores cards it has not seen.
type Memory struct {
	rng  *rand.Rand
	seen map[int]string // position -> pair id
}

// NewMemory creates a Memory player
func NewMemory(rng *rand.Rand) *Memory {
	return &Memory{rng: rng, seen: make(map[int]string)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Observe(position int, card board.Card) {
	m.seen[position] = card.PairID
}

func (m *Memory) Reset() {
	clear(m.seen)
}

func (m *Memory) Choose(cards []board.Card) (int, bool) {
	hidden := board.Hidden(cards)
	if len(hidden) == 0 {
		return 0, false
	}

	// Second flip: go for the partner of the face-up card if it is known.
	if up, ok := unresolved(cards); ok {
		m.seen[up] = cards[up].PairID
		for _, pos := range hidden {
			if m.seen[pos] == cards[up].PairID {
				return pos, true
			}
		}
		return m.explore(hidden), true
	}

	// First flip: open a pair that is fully known.
	byPair := make(map[string][]int)
	for _, pos := range hidden {
		if id, ok := m.seen[pos]; ok {
			byPair[id] = append(byPair[id], pos)
		}
	}
	known := make([]string, 0, len(byPair))
	for id, positions := range byPair {
		if len(positions) == 2 {
			known = append(known, id)
		}
	}
	if len(known) > 0 {
		slices.Sort(known)
		return slices.Min(byPair[known[0]]), true
	}

	return m.explore(hidden), true
}

// explore prefers a card that has never been seen.
func (m *Memory) explore(hidden []int) int {
	var unseen []int
	for _, pos := range hidden {
		if _, ok := m.seen[pos]; !ok {
			unseen = append(unseen, pos)
		}
	}
	if len(unseen) > 0 {
		return unseen[m.rng.IntN(len(unseen))]
	}
	return hidden[m.rng.IntN(len(hidden))]
}

// unresolved returns the position of a flipped, unmatched card.
func unresolved(cards []board.Card) (int, bool) {
	for i, c := range cards {
		if c.Flipped && !c.Matched {
			return i, true
		}
	}
	return 0, false
}
