package session

import (
	"sync"
	"time"

	"github.com/lox/stackmatch/internal/board"
	"github.com/lox/stackmatch/internal/cardstack"
)

// EventType represents a session event type with type safety
type EventType string

const (
	EventTypePush     EventType = "push"
	EventTypePop      EventType = "pop"
	EventTypePeek     EventType = "peek"
	EventTypeClear    EventType = "clear"
	EventTypeStart    EventType = "start"
	EventTypePause    EventType = "pause"
	EventTypeResume   EventType = "resume"
	EventTypeReset    EventType = "reset"
	EventTypeComplete EventType = "complete"
	EventTypeFlip     EventType = "flip"
	EventTypeMatch    EventType = "match"
	EventTypeMismatch EventType = "mismatch"
	EventTypeTick     EventType = "tick"
	EventTypeError    EventType = "error"
	EventTypePlayer   EventType = "player"
	EventTypeConfirm  EventType = "confirm"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event represents anything that happens during a session
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// StackEvent is published after a successful push, pop, peek or clear.
type StackEvent struct {
	Op        Operation
	Entry     cardstack.Entry // zero for clear
	Removed   int             // clear only
	Size      int
	Capacity  int
	timestamp time.Time
}

func (e StackEvent) EventType() EventType {
	switch e.Op {
	case OpPush:
		return EventTypePush
	case OpPop:
		return EventTypePop
	case OpPeek:
		return EventTypePeek
	default:
		return EventTypeClear
	}
}
func (e StackEvent) Timestamp() time.Time { return e.timestamp }

// PhaseEvent is published on start, pause, resume and reset.
type PhaseEvent struct {
	Type           EventType
	From           Phase
	To             Phase
	TotalPairs     int
	ElapsedSeconds int
	timestamp      time.Time
}

func (e PhaseEvent) EventType() EventType { return e.Type }
func (e PhaseEvent) Timestamp() time.Time { return e.timestamp }

// FlipEvent is published when a card is turned face up.
type FlipEvent struct {
	Card      board.Card
	Position  int
	Moves     int
	timestamp time.Time
}

func (e FlipEvent) EventType() EventType { return EventTypeFlip }
func (e FlipEvent) Timestamp() time.Time { return e.timestamp }

// MatchEvent is published when a resolved pair matches.
type MatchEvent struct {
	Cards        [2]board.Card
	Positions    [2]int
	Points       int
	Score        int
	MatchedPairs int
	TotalPairs   int
	timestamp    time.Time
}

func (e MatchEvent) EventType() EventType { return EventTypeMatch }
func (e MatchEvent) Timestamp() time.Time { return e.timestamp }

// MismatchEvent is published when a resolved pair does not match and both
// cards are turned back over.
type MismatchEvent struct {
	Cards     [2]board.Card
	Positions [2]int
	timestamp time.Time
}

func (e MismatchEvent) EventType() EventType { return EventTypeMismatch }
func (e MismatchEvent) Timestamp() time.Time { return e.timestamp }

// Summary describes a finished round.
type Summary struct {
	Player         string
	MatchScores    []int
	Bonus          int
	FinalScore     int
	Moves          int
	Pairs          int
	ElapsedSeconds int
	OperationsUsed Operations
	HighScore      int
	NewHighScore   bool
}

// CompleteEvent is published once when a round completes.
type CompleteEvent struct {
	Summary   Summary
	timestamp time.Time
}

func (e CompleteEvent) EventType() EventType { return EventTypeComplete }
func (e CompleteEvent) Timestamp() time.Time { return e.timestamp }

// TickEvent is published every elapsed second while active.
type TickEvent struct {
	ElapsedSeconds int
	timestamp      time.Time
}

func (e TickEvent) EventType() EventType { return EventTypeTick }
func (e TickEvent) Timestamp() time.Time { return e.timestamp }

// ErrorEvent reports a rejected operation.
type ErrorEvent struct {
	Op            string
	Err           error
	Informational bool
	timestamp     time.Time
}

func (e ErrorEvent) EventType() EventType { return EventTypeError }
func (e ErrorEvent) Timestamp() time.Time { return e.timestamp }

// PlayerEvent is published when the player name changes or the player logs
// out.
type PlayerEvent struct {
	Name      string
	LoggedOut bool
	timestamp time.Time
}

func (e PlayerEvent) EventType() EventType { return EventTypePlayer }
func (e PlayerEvent) Timestamp() time.Time { return e.timestamp }

// ConfirmEvent is published when a destructive operation awaits
// confirmation.
type ConfirmEvent struct {
	Confirmation Confirmation
	timestamp    time.Time
}

func (e ConfirmEvent) EventType() EventType { return EventTypeConfirm }
func (e ConfirmEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to session events. OnEvent is called while
// the session lock is held, so it must not block or call back into the
// session.
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event Event)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[int]EventSubscriber),
	}
}

// Subscribe adds a subscriber and returns a function that removes it.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		if _, ok := bus.subscribers[id]; !ok {
			return
		}
		delete(bus.subscribers, id)
		for i, v := range bus.order {
			if v == id {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.Lock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.Unlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// Recorder is an EventSubscriber that keeps every event it sees. It is
// mostly useful in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types, skipping ticks.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []EventType
	for _, e := range r.events {
		if e.EventType() == EventTypeTick {
			continue
		}
		out = append(out, e.EventType())
	}
	return out
}

// Last returns the most recent event of type t.
func (r *Recorder) Last(t EventType) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType() == t {
			return r.events[i], true
		}
	}
	return nil, false
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
