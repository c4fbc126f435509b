// Package profile persists the player's identity, their high score and a
// history of completed rounds across process restarts.
package profile

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Result is the outcome of a completed round.
type Result struct {
	Player  string        `json:"player"`
	Score   int           `json:"score"`
	Moves   int           `json:"moves"`
	Pairs   int           `json:"pairs"`
	Elapsed time.Duration `json:"elapsed"`
	At      time.Time     `json:"at"`
}

// Store is the key-value persistence the game relies on.
type Store interface {
	// PlayerName returns the stored player name, or "" if none is set.
	PlayerName(ctx context.Context) (string, error)
	// SetPlayerName stores the player name. An empty name logs the player out.
	SetPlayerName(ctx context.Context, name string) error
	// HighScore returns the best final score recorded so far.
	HighScore(ctx context.Context) (int, error)
	// SetHighScore stores a new high score.
	SetHighScore(ctx context.Context, score int) error
	// RecordResult appends a completed round to the history.
	RecordResult(ctx context.Context, r Result) error
	// RecentResults returns up to limit results, newest first.
	RecentResults(ctx context.Context, limit int) ([]Result, error)
	// Close releases any underlying resources.
	Close() error
}

// maxHistory bounds the history kept by the memory and file stores.
const maxHistory = 100

// MemoryStore keeps everything in memory. It is safe for concurrent use and
// loses its contents when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	name    string
	high    int
	results []Result
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) PlayerName(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name, nil
}

func (m *MemoryStore) SetPlayerName(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
	return nil
}

func (m *MemoryStore) HighScore(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.high, nil
}

func (m *MemoryStore) SetHighScore(ctx context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.high = score
	return nil
}

func (m *MemoryStore) RecordResult(ctx context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = appendBounded(m.results, r)
	return nil
}

func (m *MemoryStore) RecentResults(ctx context.Context, limit int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.results, limit), nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func appendBounded(results []Result, r Result) []Result {
	results = append(results, r)
	if len(results) > maxHistory {
		results = slices.Clone(results[len(results)-maxHistory:])
	}
	return results
}

func newestFirst(results []Result, limit int) []Result {
	out := slices.Clone(results)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
