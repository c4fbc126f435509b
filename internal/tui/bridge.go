package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/stackmatch/internal/session"
)

// eventBuffer is how many session events can queue up before the bridge
// starts dropping them.
const eventBuffer = 256

// EventMsg carries a session event into the Bubble Tea update loop.
type EventMsg struct {
	Event session.Event
}

// EventBridge forwards session events into the UI. The session publishes
// while holding its lock, so OnEvent never blocks: when the buffer is full
// the event is dropped and counted.
type EventBridge struct {
	events  chan session.Event
	dropped atomic.Int64
	logger  *log.Logger
}

// NewEventBridge creates a bridge and subscribes it to bus. The returned
// function unsubscribes it.
func NewEventBridge(bus session.EventBus, logger *log.Logger) (*EventBridge, func()) {
	b := &EventBridge{
		events: make(chan session.Event, eventBuffer),
		logger: logger.WithPrefix("bridge"),
	}
	unsubscribe := bus.Subscribe(b)
	return b, unsubscribe
}

// OnEvent implements session.EventSubscriber
func (b *EventBridge) OnEvent(event session.Event) {
	select {
	case b.events <- event:
	default:
		if n := b.dropped.Add(1); n == 1 || n%100 == 0 {
			b.logger.Warn("UI is not keeping up, dropping events", "dropped", n, "type", event.EventType())
		}
	}
}

// Dropped returns how many events were discarded.
func (b *EventBridge) Dropped() int64 {
	return b.dropped.Load()
}

// Wait returns a command that delivers the next event as an EventMsg.
func (b *EventBridge) Wait() tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: <-b.events}
	}
}

// Drain returns every queued event without blocking.
func (b *EventBridge) Drain() []session.Event {
	var out []session.Event
	for {
		select {
		case e := <-b.events:
			out = append(out, e)
		default:
			return out
		}
	}
}
