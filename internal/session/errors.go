package session

import (
	"errors"

	"github.com/lox/stackmatch/internal/cardstack"
)

// Stack errors are re-exported so callers only need this package.
var (
	ErrStackFull     = cardstack.ErrStackFull
	ErrStackEmpty    = cardstack.ErrStackEmpty
	ErrSessionActive = cardstack.ErrSessionActive
)

var (
	// ErrInsufficientCards is returned by Start when the stack holds fewer
	// than the configured minimum.
	ErrInsufficientCards = errors.New("not enough cards on the stack")
	// ErrInvalidName is returned for an empty player name.
	ErrInvalidName = errors.New("player name cannot be empty")
	// ErrInvalidTransition is returned when a lifecycle operation does not
	// apply to the current phase.
	ErrInvalidTransition = errors.New("operation not allowed in the current phase")
	// ErrStartFailed is returned when building the board fails unexpectedly.
	// The session stays idle.
	ErrStartFailed = errors.New("could not start game")
	// ErrUnknownConfirmation is returned when confirming or cancelling a
	// token that is not the pending one.
	ErrUnknownConfirmation = errors.New("no such pending confirmation")
	// ErrFlipIgnored is returned when a flip is a no-op.
	ErrFlipIgnored = errors.New("flip ignored")
)
