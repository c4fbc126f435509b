package autoplay

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/stackmatch/internal/session"
)

// maxMoves stops a player that never finishes a board.
const maxMoves = 10_000

// ErrNoMove is returned when the player has nothing to flip but the round has
// not completed.
var ErrNoMove = errors.New("player has no card to flip")

// Play starts a round on s if one is not already active and flips cards
// chosen by p until it completes. It waits for each pair to resolve, so it
// works with any clock as long as the clock keeps moving.
func Play(ctx context.Context, s *session.Session, p Player) (session.Summary, error) {
	events := make(chan session.Event, 4)
	unsubscribe := s.Events().Subscribe(session.SubscriberFunc(func(e session.Event) {
		switch e.EventType() {
		case session.EventTypeMatch, session.EventTypeMismatch, session.EventTypeComplete:
			select {
			case events <- e:
			default:
			}
		}
	}))
	defer unsubscribe()

	p.Reset()
	if s.State().Phase != session.Active {
		if err := s.Start(); err != nil {
			return session.Summary{}, err
		}
	}

	for moves := 0; moves < maxMoves; moves++ {
		for range 2 {
			if err := flip(s, p); err != nil {
				return session.Summary{}, err
			}
		}

		e, err := next(ctx, events)
		if err != nil {
			return session.Summary{}, err
		}
		m, ok := e.(session.MatchEvent)
		if !ok || m.MatchedPairs < m.TotalPairs {
			continue
		}

		e, err = next(ctx, events)
		if err != nil {
			return session.Summary{}, err
		}
		done, ok := e.(session.CompleteEvent)
		if !ok {
			return session.Summary{}, fmt.Errorf("expected completion, got %s", e.EventType())
		}
		return done.Summary, nil
	}
	return session.Summary{}, fmt.Errorf("no result after %d moves", maxMoves)
}

func flip(s *session.Session, p Player) error {
	pos, ok := p.Choose(s.Board())
	if !ok {
		return ErrNoMove
	}
	if err := s.FlipAt(pos); err != nil {
		return fmt.Errorf("%s flipped %d: %w", p.Name(), pos, err)
	}
	p.Observe(pos, s.Board()[pos])
	return nil
}

func next(ctx context.Context, events <-chan session.Event) (session.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case e := <-events:
		return e, nil
	}
}
