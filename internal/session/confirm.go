package session

import (
	"fmt"

	"github.com/google/uuid"
)

// ConfirmKind names the destructive operation awaiting confirmation.
type ConfirmKind string

const (
	ConfirmClear  ConfirmKind = "clear"
	ConfirmReset  ConfirmKind = "reset"
	ConfirmLogout ConfirmKind = "logout"
)

// Confirmation is a pending destructive operation. Nothing happens until the
// caller passes ID to Confirm. When Applied is set the operation needed no
// confirmation and has already been carried out.
type Confirmation struct {
	ID      string
	Kind    ConfirmKind
	Prompt  string
	Applied bool
}

// RequestClear asks to clear the stack. It fails straight away if the stack
// is empty (informational) or frozen.
func (s *Session) RequestClear() (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stack.Frozen() {
		s.reportLocked("clear", ErrSessionActive)
		return Confirmation{}, ErrSessionActive
	}
	if n := s.stack.Len(); n == 0 {
		s.reportLocked("clear", ErrStackEmpty)
		return Confirmation{}, ErrStackEmpty
	}
	prompt := fmt.Sprintf("Clear all %d cards from the stack?", s.stack.Len())
	return s.requestLocked(ConfirmClear, prompt), nil
}

// RequestReset asks to abandon the current round. With no round in play the
// reset is applied at once.
func (s *Session) RequestReset() Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Active && s.phase != Paused {
		s.resetLocked()
		return Confirmation{Kind: ConfirmReset, Applied: true}
	}
	return s.requestLocked(ConfirmReset, "Abandon the current game?")
}

// RequestLogout asks to log the player out. Logging out resets the session
// and forgets the player name.
func (s *Session) RequestLogout() Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt := "Log out?"
	if s.phase == Active || s.phase == Paused {
		prompt = "Log out and abandon the current game?"
	}
	return s.requestLocked(ConfirmLogout, prompt)
}

func (s *Session) requestLocked(kind ConfirmKind, prompt string) Confirmation {
	c := Confirmation{
		ID:     uuid.NewString(),
		Kind:   kind,
		Prompt: prompt,
	}
	if s.confirm != nil {
		s.logger.Debug("Replacing pending confirmation", "old", s.confirm.Kind, "new", kind)
	}
	s.confirm = &c
	s.publishLocked(ConfirmEvent{Confirmation: c, timestamp: s.clock.Now()})
	return c
}

// Pending returns the confirmation awaiting an answer, if any.
func (s *Session) Pending() (Confirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirm == nil {
		return Confirmation{}, false
	}
	return *s.confirm, true
}

// Confirm applies the pending operation identified by id. The operation's
// own preconditions are checked again, so confirming a clear after a round
// has started still fails with ErrSessionActive.
func (s *Session) Confirm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.takeLocked(id)
	if err != nil {
		return err
	}

	s.logger.Debug("Confirmed", "kind", c.Kind)
	switch c.Kind {
	case ConfirmClear:
		_, err := s.clearLocked()
		return err
	case ConfirmReset:
		s.resetLocked()
		return nil
	case ConfirmLogout:
		return s.logoutLocked()
	default:
		return fmt.Errorf("unknown confirmation kind %q", c.Kind)
	}
}

// Cancel discards the pending operation identified by id.
func (s *Session) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.takeLocked(id)
	if err != nil {
		return err
	}
	s.logger.Debug("Cancelled", "kind", c.Kind)
	return nil
}

func (s *Session) takeLocked(id string) (Confirmation, error) {
	if s.confirm == nil || s.confirm.ID != id || id == "" {
		return Confirmation{}, ErrUnknownConfirmation
	}
	c := *s.confirm
	s.confirm = nil
	return c, nil
}
