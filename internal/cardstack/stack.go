// Package cardstack implements the LIFO stack of card definitions a player
// builds before a round. The stack is bounded, hands out a unique ULID for
// every pushed entry, and can be frozen while a round is in play so that
// only Peek remains available.
//
// A Stack is not safe for concurrent use; the owning session serializes
// access.
package cardstack

import (
	"errors"
	"io"
	"time"

	"github.com/coder/quartz"
	"github.com/oklog/ulid/v2"

	"github.com/lox/stackmatch/internal/catalog"
)

var (
	// ErrStackFull is returned by Push when the stack is at capacity.
	ErrStackFull = errors.New("stack is full")
	// ErrStackEmpty is returned by Pop, Peek and Clear on an empty stack.
	// For Clear it is informational; see IsInformational.
	ErrStackEmpty = errors.New("stack is empty")
	// ErrSessionActive is returned by mutations while the stack is frozen.
	ErrSessionActive = errors.New("cannot modify the stack during an active game")
)

// IsInformational reports whether err describes a no-op rather than a
// failure. Clearing an already empty stack is the only such case.
func IsInformational(err error) bool {
	return errors.Is(err, ErrStackEmpty)
}

// Entry is a card definition placed on the stack.
type Entry struct {
	catalog.Card
	StackID    string    `json:"stack_id"`
	InsertedAt time.Time `json:"inserted_at"`
}

// Stack is a bounded LIFO of entries. The top is the last element.
type Stack struct {
	entries []Entry
	max     int
	frozen  bool
	clock   quartz.Clock
	entropy io.Reader
}

// Option configures a Stack.
type Option func(*Stack)

// WithClock sets the clock used to timestamp entries and seed their ids.
func WithClock(clock quartz.Clock) Option {
	return func(s *Stack) {
		s.clock = clock
	}
}

// WithEntropy sets the entropy source for entry ids.
func WithEntropy(r io.Reader) Option {
	return func(s *Stack) {
		s.entropy = r
	}
}

// New creates an empty stack holding at most maxSize entries.
func New(maxSize int, opts ...Option) *Stack {
	if maxSize < 1 {
		panic("stack capacity must be positive")
	}
	s := &Stack{
		entries: make([]Entry, 0, maxSize),
		max:     maxSize,
		clock:   quartz.NewReal(),
		entropy: ulid.DefaultEntropy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push places card on top of the stack.
func (s *Stack) Push(card catalog.Card) (Entry, error) {
	if s.frozen {
		return Entry{}, ErrSessionActive
	}
	if s.IsFull() {
		return Entry{}, ErrStackFull
	}

	now := s.clock.Now()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Card:       card,
		StackID:    id.String(),
		InsertedAt: now,
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// Pop removes and returns the top entry.
func (s *Stack) Pop() (Entry, error) {
	if s.IsEmpty() {
		return Entry{}, ErrStackEmpty
	}
	if s.frozen {
		return Entry{}, ErrSessionActive
	}

	top := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return top, nil
}

// Peek returns the top entry without removing it. It is allowed while the
// stack is frozen.
func (s *Stack) Peek() (Entry, error) {
	if s.IsEmpty() {
		return Entry{}, ErrStackEmpty
	}
	return s.entries[len(s.entries)-1], nil
}

// Clear empties the stack and returns how many entries were removed.
// Clearing an empty stack returns ErrStackEmpty, which callers should treat
// as informational.
func (s *Stack) Clear() (int, error) {
	if s.frozen {
		return 0, ErrSessionActive
	}
	if s.IsEmpty() {
		return 0, ErrStackEmpty
	}

	n := len(s.entries)
	clear(s.entries)
	s.entries = s.entries[:0]
	return n, nil
}

// Entries returns a copy of the stack from bottom to top.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries on the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Cap returns the maximum number of entries.
func (s *Stack) Cap() int {
	return s.max
}

// IsEmpty returns true if the stack has no entries
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// IsFull returns true if the stack is at capacity
func (s *Stack) IsFull() bool {
	return len(s.entries) >= s.max
}

// Freeze blocks (true) or re-allows (false) Push, Pop and Clear.
func (s *Stack) Freeze(frozen bool) {
	s.frozen = frozen
}

// Frozen reports whether mutations are currently rejected.
func (s *Stack) Frozen() bool {
	return s.frozen
}
