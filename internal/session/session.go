// Package session runs a single-player round of the stack matching game.
//
// A Session owns the card stack, the board built from it, the flip buffer,
// the elapsed-time ticker and any deferred resolution. Every exported method
// takes the session mutex, and clock callbacks (ticks and deferred
// resolutions) take the same mutex, so all state changes happen one at a
// time. Events are published while the mutex is held; subscribers must not
// block or call back into the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/stackmatch/internal/board"
	"github.com/lox/stackmatch/internal/cardstack"
	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/profile"
)

const (
	// DefaultTickInterval is how often elapsed time advances.
	DefaultTickInterval = time.Second
	// storeTimeout bounds profile store calls made from clock callbacks.
	storeTimeout = 5 * time.Second
)

// Option configures a Session during creation.
type Option func(*Session)

// WithClock sets the clock driving the ticker, deferred resolution and
// stack timestamps. Tests pass quartz.NewMock(t).
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLogger sets the logger. The session logs with a "session" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStore sets the profile store used for the player name, high score and
// results. Defaults to an in-memory store.
func WithStore(store profile.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithEventBus sets the bus events are published on.
func WithEventBus(bus EventBus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithTickInterval overrides the elapsed-time tick interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		s.tickInterval = d
	}
}

// Session is one player's game: a stack, and at most one board in play.
type Session struct {
	mu sync.Mutex

	cfg          catalog.Config
	rng          *rand.Rand
	clock        quartz.Clock
	logger       *log.Logger
	store        profile.Store
	bus          EventBus
	tickInterval time.Duration

	stack *cardstack.Stack
	sched *scheduler

	phase   Phase
	board   *board.Board
	flips   []int
	ops     Operations
	moves   int
	elapsed int
	score   int
	scores  []int

	tickCancel context.CancelFunc
	tickGen    uint64

	player    string
	highScore int
	last      *Summary

	confirm *Confirmation
}

// New creates an idle session with an empty stack sized by cfg. The RNG is
// required so that board shuffles are explicit and reproducible in tests.
func New(cfg catalog.Config, rng *rand.Rand, opts ...Option) (*Session, error) {
	if rng == nil {
		return nil, errors.New("rng is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Session{
		cfg:          cfg,
		rng:          rng,
		clock:        quartz.NewReal(),
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.logger = s.logger.WithPrefix("session")
	if s.store == nil {
		s.store = profile.NewMemoryStore()
	}
	if s.bus == nil {
		s.bus = NewEventBus()
	}
	if s.tickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", s.tickInterval)
	}

	s.stack = cardstack.New(cfg.MaxStackSize, cardstack.WithClock(s.clock))
	s.sched = newScheduler(s.clock, &s.mu)
	return s, nil
}

// Events returns the bus the session publishes on.
func (s *Session) Events() EventBus {
	return s.bus
}

// Config returns the configuration the session was created with.
func (s *Session) Config() catalog.Config {
	return s.cfg
}

// State is a point-in-time snapshot of a session.
type State struct {
	Phase          Phase
	StackSize      int
	StackCap       int
	MatchedPairs   int
	TotalPairs     int
	Moves          int
	Score          int
	ElapsedSeconds int
	OperationsUsed Operations
	FlipBuffer     int
	Resolving      bool
	PlayerName     string
	HighScore      int
	FinalScore     int
	Bonus          int
	NewHighScore   bool
	Pending        *Confirmation
}

// Elapsed returns the elapsed time formatted as MM:SS.
func (st State) Elapsed() string {
	return FormatElapsed(st.ElapsedSeconds)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{
		Phase:          s.phase,
		StackSize:      s.stack.Len(),
		StackCap:       s.stack.Cap(),
		Moves:          s.moves,
		Score:          s.score,
		ElapsedSeconds: s.elapsed,
		OperationsUsed: s.ops,
		FlipBuffer:     len(s.flips),
		PlayerName:     s.player,
		HighScore:      s.highScore,
	}
	if s.board != nil {
		st.MatchedPairs = s.board.MatchedPairs()
		st.TotalPairs = s.board.Pairs()
	}
	if kind, ok := s.sched.pendingKind(); ok && kind == kindResolve {
		st.Resolving = true
	}
	if s.phase == Complete && s.last != nil {
		st.FinalScore = s.last.FinalScore
		st.Bonus = s.last.Bonus
		st.NewHighScore = s.last.NewHighScore
	}
	if s.confirm != nil {
		c := *s.confirm
		st.Pending = &c
	}
	return st
}

// Stack returns the stack entries from bottom to top.
func (s *Session) Stack() []cardstack.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Entries()
}

// Board returns the cards in layout order, or nil when no board exists.
func (s *Session) Board() []board.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return nil
	}
	return s.board.Cards()
}

// LastSummary returns the summary of the most recently completed round.
func (s *Session) LastSummary() (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Summary{}, false
	}
	return *s.last, true
}

// FormatElapsed formats seconds as MM:SS. Minutes are not capped at 59.
func FormatElapsed(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Push places card on top of the stack.
func (s *Session) Push(card catalog.Card) (cardstack.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.stack.Push(card)
	if err != nil {
		s.reportLocked("push", err)
		return cardstack.Entry{}, err
	}
	s.ops = s.ops.With(OpPush)
	s.logger.Debug("Pushed card", "card", card.Name, "id", entry.StackID, "size", s.stack.Len())
	s.publishStackLocked(OpPush, entry, 0)
	return entry, nil
}

// Pop removes the top card from the stack.
func (s *Session) Pop() (cardstack.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.stack.Pop()
	if err != nil {
		s.reportLocked("pop", err)
		return cardstack.Entry{}, err
	}
	s.ops = s.ops.With(OpPop)
	s.logger.Debug("Popped card", "card", entry.Name, "id", entry.StackID, "size", s.stack.Len())
	s.publishStackLocked(OpPop, entry, 0)
	return entry, nil
}

// Peek returns the top card without removing it. Peeking is allowed while a
// round is active.
func (s *Session) Peek() (cardstack.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.stack.Peek()
	if err != nil {
		s.reportLocked("peek", err)
		return cardstack.Entry{}, err
	}
	s.ops = s.ops.With(OpPeek)
	s.publishStackLocked(OpPeek, entry, 0)
	return entry, nil
}

// Clear empties the stack immediately. Interactive callers should go
// through RequestClear and Confirm instead. Clearing an empty stack returns
// ErrStackEmpty, which is informational.
func (s *Session) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Session) clearLocked() (int, error) {
	n, err := s.stack.Clear()
	if err != nil {
		s.reportLocked("clear", err)
		return 0, err
	}
	s.ops = s.ops.With(OpClear)
	s.logger.Debug("Cleared stack", "removed", n)
	s.publishStackLocked(OpClear, cardstack.Entry{}, n)
	return n, nil
}

// Start begins a round from the current stack. It is allowed from Idle and
// Complete.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == Active || s.phase == Paused {
		err := fmt.Errorf("%w: cannot start while %s", ErrInvalidTransition, s.phase)
		s.reportLocked("start", err)
		return err
	}
	if n := s.stack.Len(); n < s.cfg.MinCards {
		err := fmt.Errorf("%w: need at least %d, have %d", ErrInsufficientCards, s.cfg.MinCards, n)
		s.reportLocked("start", err)
		return err
	}

	b, err := s.buildBoard()
	if err != nil {
		s.logger.Error("Failed to build board", "error", err)
		if s.phase != Idle {
			s.resetLocked()
		}
		err = fmt.Errorf("%w: %v", ErrStartFailed, err)
		s.reportLocked("start", err)
		return err
	}

	from := s.phase
	s.sched.cancel()
	s.board = b
	s.flips = s.flips[:0]
	s.moves = 0
	s.score = 0
	s.scores = nil
	s.elapsed = 0
	s.last = nil
	s.phase = Active
	s.stack.Freeze(true)
	s.startTickerLocked()

	s.logger.Info("Game started", "pairs", b.Pairs(), "from", from)
	s.publishLocked(PhaseEvent{
		Type:       EventTypeStart,
		From:       from,
		To:         Active,
		TotalPairs: b.Pairs(),
		timestamp:  s.clock.Now(),
	})
	return nil
}

func (s *Session) buildBoard() (b *board.Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return board.Build(s.stack.Entries(), s.rng)
}

// Pause suspends an active round. The ticker stops, any pending resolution
// is held with its remaining delay, and the stack becomes editable.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Active {
		err := fmt.Errorf("%w: cannot pause while %s", ErrInvalidTransition, s.phase)
		s.reportLocked("pause", err)
		return err
	}

	s.stopTickerLocked()
	s.sched.suspend()
	s.stack.Freeze(false)
	s.phase = Paused

	s.logger.Info("Game paused", "elapsed", s.elapsed)
	s.publishPhaseLocked(EventTypePause, Active, Paused)
	return nil
}

// Resume continues a paused round.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Paused {
		err := fmt.Errorf("%w: cannot resume while %s", ErrInvalidTransition, s.phase)
		s.reportLocked("resume", err)
		return err
	}

	s.phase = Active
	s.stack.Freeze(true)
	s.startTickerLocked()
	s.sched.resume()

	s.logger.Info("Game resumed", "elapsed", s.elapsed)
	s.publishPhaseLocked(EventTypeResume, Paused, Active)
	return nil
}

// Reset returns the session to Idle from any phase. The board, flip buffer
// and in-progress score are discarded; the stack is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	from := s.phase
	s.stopTickerLocked()
	s.sched.cancel()
	s.stack.Freeze(false)
	s.board = nil
	s.flips = s.flips[:0]
	s.moves = 0
	s.score = 0
	s.scores = nil
	s.elapsed = 0
	s.phase = Idle

	s.logger.Info("Game reset", "from", from)
	s.publishPhaseLocked(EventTypeReset, from, Idle)
}

func (s *Session) startTickerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.tickGen++
	gen := s.tickGen
	s.tickCancel = cancel
	s.clock.TickerFunc(ctx, s.tickInterval, func() error {
		return s.tick(gen)
	}, "session", "tick")
}

func (s *Session) stopTickerLocked() {
	if s.tickCancel != nil {
		s.tickCancel()
		s.tickCancel = nil
	}
	s.tickGen++
}

// errTickerStopped ends a ticker whose session has moved on.
var errTickerStopped = errors.New("ticker stopped")

func (s *Session) tick(gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.tickGen || s.phase != Active {
		return errTickerStopped
	}
	s.elapsed++
	s.publishLocked(TickEvent{ElapsedSeconds: s.elapsed, timestamp: s.clock.Now()})
	return nil
}

func (s *Session) publishLocked(e Event) {
	s.bus.Publish(e)
}

func (s *Session) publishStackLocked(op Operation, entry cardstack.Entry, removed int) {
	s.publishLocked(StackEvent{
		Op:        op,
		Entry:     entry,
		Removed:   removed,
		Size:      s.stack.Len(),
		Capacity:  s.stack.Cap(),
		timestamp: s.clock.Now(),
	})
}

func (s *Session) publishPhaseLocked(t EventType, from, to Phase) {
	e := PhaseEvent{
		Type:           t,
		From:           from,
		To:             to,
		ElapsedSeconds: s.elapsed,
		timestamp:      s.clock.Now(),
	}
	if s.board != nil {
		e.TotalPairs = s.board.Pairs()
	}
	s.publishLocked(e)
}

func (s *Session) reportLocked(op string, err error) {
	informational := op == "clear" && cardstack.IsInformational(err)
	if informational {
		s.logger.Debug("Operation was a no-op", "op", op, "reason", err)
	} else {
		s.logger.Warn("Operation rejected", "op", op, "error", err, "phase", s.phase)
	}
	s.publishLocked(ErrorEvent{
		Op:            op,
		Err:           err,
		Informational: informational,
		timestamp:     s.clock.Now(),
	})
}

func (s *Session) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
