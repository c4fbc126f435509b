package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/stackmatch/internal/board"
	"github.com/lox/stackmatch/internal/cardstack"
)

func TestStatusFormatter(t *testing.T) {
	t.Parallel()

	f := NewStatusFormatter()
	dragon := cardA
	dragon.Icon = "🐉"
	dragon.Name = "Dragon"
	entry := cardstack.Entry{Card: dragon, StackID: "01J"}

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"push", StackEvent{Op: OpPush, Entry: entry, Size: 3, Capacity: 8}, "Pushed 🐉 Dragon onto the stack (3/8)"},
		{"pop", StackEvent{Op: OpPop, Entry: entry, Size: 2, Capacity: 8}, "Popped 🐉 Dragon off the stack (2/8)"},
		{"peek", StackEvent{Op: OpPeek, Entry: entry}, "Top of stack: 🐉 Dragon"},
		{"clear one", StackEvent{Op: OpClear, Removed: 1}, "Cleared 1 card from the stack"},
		{"clear many", StackEvent{Op: OpClear, Removed: 3}, "Cleared 3 cards from the stack"},
		{"start", PhaseEvent{Type: EventTypeStart, TotalPairs: 3}, "Game started with 3 pairs. Good luck!"},
		{"pause", PhaseEvent{Type: EventTypePause, ElapsedSeconds: 72}, "Game paused at 01:12"},
		{"resume", PhaseEvent{Type: EventTypeResume}, "Game resumed"},
		{"reset", PhaseEvent{Type: EventTypeReset}, "Game reset"},
		{"flip", FlipEvent{Card: board.Card{Def: dragon}}, "Flipped 🐉 Dragon"},
		{
			"match",
			MatchEvent{Cards: [2]board.Card{{Def: dragon}, {Def: dragon}}, Points: 154, MatchedPairs: 1, TotalPairs: 2},
			"Match! 🐉 Dragon +154 (1/2 pairs)",
		},
		{
			"mismatch",
			MismatchEvent{Cards: [2]board.Card{{Def: dragon}, {Def: cardB}}},
			"No match: 🐉 Dragon and 🅱 B",
		},
		{
			"complete",
			CompleteEvent{Summary: Summary{FinalScore: 704, Bonus: 550, ElapsedSeconds: 42, Moves: 1, NewHighScore: true}},
			"Round complete! Final score 704 (bonus 550) in 00:42 with 1 move. New high score!",
		},
		{"tick hidden", TickEvent{ElapsedSeconds: 3}, ""},
		{"informational", ErrorEvent{Op: "clear", Err: cardstack.ErrStackEmpty, Informational: true}, "Stack is already empty"},
		{"error", ErrorEvent{Op: "push", Err: errors.New("stack is full")}, "Cannot push: stack is full"},
		{"login", PlayerEvent{Name: "Ada"}, "Welcome, Ada!"},
		{"logout", PlayerEvent{LoggedOut: true}, "Logged out"},
		{"confirm", ConfirmEvent{Confirmation: Confirmation{Prompt: "Log out?"}}, "Log out? (yes/no)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.event))
		})
	}

	f.ShowTicks = true
	assert.Equal(t, "00:03", f.Format(TickEvent{ElapsedSeconds: 3}))
}

func TestEventBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	var first, second []EventType
	unsubscribe := bus.Subscribe(SubscriberFunc(func(e Event) { first = append(first, e.EventType()) }))
	bus.Subscribe(SubscriberFunc(func(e Event) { second = append(second, e.EventType()) }))

	bus.Publish(TickEvent{})
	unsubscribe()
	unsubscribe()
	bus.Publish(PlayerEvent{})

	assert.Equal(t, []EventType{EventTypeTick}, first)
	assert.Equal(t, []EventType{EventTypeTick, EventTypePlayer}, second)
}
