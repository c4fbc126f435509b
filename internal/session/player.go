package session

import (
	"context"
	"fmt"
	"strings"
)

// LoadProfile reads the player name and high score from the store.
func (s *Session) LoadProfile(ctx context.Context) error {
	name, err := s.store.PlayerName(ctx)
	if err != nil {
		return fmt.Errorf("load player name: %w", err)
	}
	high, err := s.store.HighScore(ctx)
	if err != nil {
		return fmt.Errorf("load high score: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = name
	s.highScore = high
	return nil
}

// SetPlayerName stores the trimmed name. An empty name is rejected.
func (s *Session) SetPlayerName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		s.reportLocked("name", ErrInvalidName)
		return ErrInvalidName
	}
	if err := s.store.SetPlayerName(ctx, name); err != nil {
		err = fmt.Errorf("save player name: %w", err)
		s.reportLocked("name", err)
		return err
	}

	s.player = name
	s.logger.Info("Player set", "name", name)
	s.publishLocked(PlayerEvent{Name: name, timestamp: s.clock.Now()})
	return nil
}

// PlayerName returns the current player name.
func (s *Session) PlayerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Session) logoutLocked() error {
	s.resetLocked()

	ctx, cancel := s.storeContext()
	defer cancel()
	if err := s.store.SetPlayerName(ctx, ""); err != nil {
		err = fmt.Errorf("clear player name: %w", err)
		s.reportLocked("logout", err)
		return err
	}

	s.logger.Info("Player logged out", "name", s.player)
	s.player = ""
	s.publishLocked(PlayerEvent{LoggedOut: true, timestamp: s.clock.Now()})
	return nil
}
