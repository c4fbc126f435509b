package profile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			s, err := OpenFileStore(filepath.Join(t.TempDir(), "profile.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "profile.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := open(t)
			defer func() { _ = s.Close() }()

			playerName, err := s.PlayerName(ctx)
			require.NoError(t, err)
			assert.Empty(t, playerName)

			high, err := s.HighScore(ctx)
			require.NoError(t, err)
			assert.Zero(t, high)

			require.NoError(t, s.SetPlayerName(ctx, "Ada"))
			require.NoError(t, s.SetHighScore(ctx, 704))

			playerName, err = s.PlayerName(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Ada", playerName)

			high, err = s.HighScore(ctx)
			require.NoError(t, err)
			assert.Equal(t, 704, high)

			require.NoError(t, s.SetPlayerName(ctx, ""))
			playerName, err = s.PlayerName(ctx)
			require.NoError(t, err)
			assert.Empty(t, playerName)

			base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
			for i := range 3 {
				require.NoError(t, s.RecordResult(ctx, Result{
					Player:  "Ada",
					Score:   100 * (i + 1),
					Moves:   4 + i,
					Pairs:   2,
					Elapsed: time.Duration(10+i) * time.Second,
					At:      base.Add(time.Duration(i) * time.Minute),
				}))
			}

			recent, err := s.RecentResults(ctx, 2)
			require.NoError(t, err)
			require.Len(t, recent, 2)
			assert.Equal(t, 300, recent[0].Score)
			assert.Equal(t, 200, recent[1].Score)
			assert.Equal(t, 12*time.Second, recent[0].Elapsed)
			assert.True(t, recent[0].At.Equal(base.Add(2*time.Minute)))

			all, err := s.RecentResults(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestPersistentStoresSurviveReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.json")
		s, err := OpenFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.SetPlayerName(ctx, "Grace"))
		require.NoError(t, s.SetHighScore(ctx, 900))

		reopened, err := OpenFileStore(path)
		require.NoError(t, err)
		name, _ := reopened.PlayerName(ctx)
		high, _ := reopened.HighScore(ctx)
		assert.Equal(t, "Grace", name)
		assert.Equal(t, 900, high)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.db")
		s, err := OpenSQLiteStore(path)
		require.NoError(t, err)
		require.NoError(t, s.SetPlayerName(ctx, "Grace"))
		require.NoError(t, s.SetHighScore(ctx, 900))
		require.NoError(t, s.Close())

		reopened, err := OpenSQLiteStore(path)
		require.NoError(t, err)
		defer func() { _ = reopened.Close() }()
		name, _ := reopened.PlayerName(ctx)
		high, _ := reopened.HighScore(ctx)
		assert.Equal(t, "Grace", name)
		assert.Equal(t, 900, high)
	})
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	for i := range maxHistory + 20 {
		require.NoError(t, s.RecordResult(ctx, Result{Score: i}))
	}

	all, err := s.RecentResults(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, maxHistory)
	assert.Equal(t, maxHistory+19, all[0].Score)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := Open("memory")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(filepath.Join(dir, "scores.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(filepath.Join(dir, "profile.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
}
