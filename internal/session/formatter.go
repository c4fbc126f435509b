package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/stackmatch/internal/cardstack"
)

// StatusFormatter renders events as one-line status messages.
type StatusFormatter struct {
	// ShowTicks includes a line for every elapsed second.
	ShowTicks bool
}

// NewStatusFormatter creates a formatter that skips tick events.
func NewStatusFormatter() *StatusFormatter {
	return &StatusFormatter{}
}

// Format returns the status line for event, or "" if the event has none.
func (f *StatusFormatter) Format(event Event) string {
	switch e := event.(type) {
	case StackEvent:
		return f.FormatStack(e)
	case PhaseEvent:
		return f.FormatPhase(e)
	case FlipEvent:
		return fmt.Sprintf("Flipped %s", e.Card.Def.Label())
	case MatchEvent:
		return fmt.Sprintf("Match! %s +%d (%d/%d pairs)",
			e.Cards[0].Def.Label(), e.Points, e.MatchedPairs, e.TotalPairs)
	case MismatchEvent:
		return fmt.Sprintf("No match: %s and %s", e.Cards[0].Def.Label(), e.Cards[1].Def.Label())
	case CompleteEvent:
		return f.FormatComplete(e.Summary)
	case TickEvent:
		if f.ShowTicks {
			return FormatElapsed(e.ElapsedSeconds)
		}
		return ""
	case ErrorEvent:
		return f.FormatError(e)
	case PlayerEvent:
		if e.LoggedOut {
			return "Logged out"
		}
		return fmt.Sprintf("Welcome, %s!", e.Name)
	case ConfirmEvent:
		return e.Confirmation.Prompt + " (yes/no)"
	default:
		return ""
	}
}

// FormatStack formats a stack operation.
func (f *StatusFormatter) FormatStack(e StackEvent) string {
	switch e.Op {
	case OpPush:
		return fmt.Sprintf("Pushed %s onto the stack (%d/%d)", e.Entry.Label(), e.Size, e.Capacity)
	case OpPop:
		return fmt.Sprintf("Popped %s off the stack (%d/%d)", e.Entry.Label(), e.Size, e.Capacity)
	case OpPeek:
		return fmt.Sprintf("Top of stack: %s", e.Entry.Label())
	default:
		return fmt.Sprintf("Cleared %d %s from the stack", e.Removed, plural(e.Removed, "card"))
	}
}

// FormatPhase formats a lifecycle transition.
func (f *StatusFormatter) FormatPhase(e PhaseEvent) string {
	switch e.Type {
	case EventTypeStart:
		return fmt.Sprintf("Game started with %d %s. Good luck!", e.TotalPairs, plural(e.TotalPairs, "pair"))
	case EventTypePause:
		return fmt.Sprintf("Game paused at %s", FormatElapsed(e.ElapsedSeconds))
	case EventTypeResume:
		return "Game resumed"
	case EventTypeReset:
		return "Game reset"
	default:
		return fmt.Sprintf("%s -> %s", e.From, e.To)
	}
}

// FormatComplete formats the end-of-round summary.
func (f *StatusFormatter) FormatComplete(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round complete! Final score %d (bonus %d) in %s with %d %s",
		s.FinalScore, s.Bonus, FormatElapsed(s.ElapsedSeconds), s.Moves, plural(s.Moves, "move"))
	if s.NewHighScore {
		b.WriteString(". New high score!")
	}
	return b.String()
}

// FormatError formats a rejected operation.
func (f *StatusFormatter) FormatError(e ErrorEvent) string {
	if e.Informational && errors.Is(e.Err, cardstack.ErrStackEmpty) {
		return "Stack is already empty"
	}
	return fmt.Sprintf("Cannot %s: %v", e.Op, e.Err)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
