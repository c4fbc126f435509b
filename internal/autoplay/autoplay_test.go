package autoplay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stackmatch/internal/board"
	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/randutil"
	"github.com/lox/stackmatch/internal/session"
)

func fastConfig() catalog.Config {
	cfg := catalog.DefaultConfig()
	cfg.FlipResolutionDelay = 0
	cfg.MatchDelay = 0
	return cfg
}

func newSession(t *testing.T, seed int64, cards int) *session.Session {
	t.Helper()
	s, err := session.New(fastConfig(), randutil.New(seed))
	require.NoError(t, err)
	for _, c := range catalog.Fallback().Cards[:cards] {
		_, err := s.Push(c)
		require.NoError(t, err)
	}
	return s
}

func TestPlayCompletesBoard(t *testing.T) {
	t.Parallel()

	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			s := newSession(t, 7, 6)
			p, err := New(name, randutil.New(7))
			require.NoError(t, err)

			summary, err := Play(ctx, s, p)
			require.NoError(t, err)

			st := s.State()
			assert.Equal(t, session.Complete, st.Phase)
			assert.Equal(t, st.TotalPairs, st.MatchedPairs)
			assert.Equal(t, 6, summary.Pairs)
			assert.GreaterOrEqual(t, summary.Moves, 6)
			assert.Equal(t, 6*50+100, summary.Bonus, "only push was used")
		})
	}
}

func TestMemoryNeverNeedsMoreThanTwiceThePairs(t *testing.T) {
	t.Parallel()

	for seed := range int64(5) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s := newSession(t, seed, 8)
		summary, err := Play(ctx, s, NewMemory(randutil.New(seed)))
		cancel()
		require.NoError(t, err)
		assert.LessOrEqual(t, summary.Moves, 2*8, "seed %d", seed)
	}
}

func TestMemoryCompletesKnownPair(t *testing.T) {
	t.Parallel()

	cards := []board.Card{
		{ID: "x/a", PairID: "x"},
		{ID: "y/a", PairID: "y"},
		{ID: "x/b", PairID: "x"},
		{ID: "y/b", PairID: "y"},
	}
	m := NewMemory(randutil.New(1))
	m.Observe(0, cards[0])
	m.Observe(2, cards[2])

	pos, ok := m.Choose(cards)
	require.True(t, ok)
	assert.Equal(t, 0, pos, "opens the fully known pair")

	cards[1].Flipped = true
	m.Observe(3, cards[3])
	pos, ok = m.Choose(cards)
	require.True(t, ok)
	assert.Equal(t, 3, pos, "completes the pair of the face-up card")
}

func TestChooseOnFinishedBoard(t *testing.T) {
	t.Parallel()

	cards := []board.Card{{Matched: true}, {Matched: true}}
	for _, p := range []Player{NewRandom(randutil.New(1)), NewMemory(randutil.New(1))} {
		_, ok := p.Choose(cards)
		assert.False(t, ok, p.Name())
	}
}

func TestNewUnknownPlayer(t *testing.T) {
	t.Parallel()
	_, err := New("psychic", randutil.New(1))
	require.Error(t, err)
}
