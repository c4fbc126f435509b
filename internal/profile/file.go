package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/stackmatch/internal/fileutil"
)

type fileState struct {
	Player    string   `json:"player"`
	HighScore int      `json:"high_score"`
	Results   []Result `json:"results"`
}

// FileStore keeps the profile in a single JSON document. Every write
// replaces the file atomically.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state fileState
}

// OpenFileStore loads path if it exists, or starts an empty profile that will
// be created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	if _, err := fileutil.ReadJSON(path, &fs.state); err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	return fs, nil
}

// Path returns the file backing the store.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) PlayerName(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Player, nil
}

func (f *FileStore) SetPlayerName(ctx context.Context, name string) error {
	return f.update(func(s *fileState) { s.Player = name })
}

func (f *FileStore) HighScore(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.HighScore, nil
}

func (f *FileStore) SetHighScore(ctx context.Context, score int) error {
	return f.update(func(s *fileState) { s.HighScore = score })
}

func (f *FileStore) RecordResult(ctx context.Context, r Result) error {
	return f.update(func(s *fileState) { s.Results = appendBounded(s.Results, r) })
}

func (f *FileStore) RecentResults(ctx context.Context, limit int) ([]Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return newestFirst(f.state.Results, limit), nil
}

func (f *FileStore) Close() error {
	return nil
}

// update applies fn to a copy of the state and only keeps it once the file
// has been written.
func (f *FileStore) update(fn func(*fileState)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.state
	next.Results = append([]Result(nil), f.state.Results...)
	fn(&next)

	if err := fileutil.WriteJSONAtomic(f.path, next, 0o600); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	f.state = next
	return nil
}
