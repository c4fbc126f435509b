package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.MeanMoves())
	assert.Zero(t, stats.Efficiency())
	assert.Error(t, stats.Validate())
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Score: 704, Bonus: 550, Moves: 3, Pairs: 3, Seed: 12345})

	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 704.0, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Equal(t, 704.0, stats.Median())
	assert.Equal(t, 1, stats.PerfectGames)
	assert.Equal(t, int64(12345), stats.BestSeed)
	assert.Equal(t, 1.0, stats.Efficiency())
	require.NoError(t, stats.Validate())
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}

	results := []GameResult{
		{Score: 100, Moves: 4, Pairs: 2, Seed: 1},
		{Score: 200, Moves: 3, Pairs: 2, Seed: 2},
		{Score: 300, Moves: 2, Pairs: 2, Seed: 3},
		{Score: 400, Moves: 6, Pairs: 2, Seed: 4},
		{Score: 500, Moves: 5, Pairs: 2, Seed: 5},
	}
	for _, r := range results {
		stats.Add(r)
	}

	assert.Equal(t, 5, stats.Games)
	assert.Equal(t, 300.0, stats.Mean())
	assert.InDelta(t, 25000.0, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(25000), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(25000)/math.Sqrt(5), stats.StdError(), 1e-9)
	assert.Equal(t, 300.0, stats.Median())
	assert.Equal(t, 200.0, stats.Percentile(0.25))
	assert.Equal(t, 500.0, stats.Percentile(1.0))

	low, high := stats.ConfidenceInterval95()
	assert.Less(t, low, 300.0)
	assert.Greater(t, high, 300.0)
	assert.InDelta(t, 300.0, (low+high)/2, 1e-9)

	assert.Equal(t, 2, stats.MinMoves)
	assert.Equal(t, 6, stats.MaxMoves)
	assert.Equal(t, 4.0, stats.MeanMoves())
	assert.Equal(t, 1, stats.PerfectGames)
	assert.Equal(t, 500, stats.BestScore)
	assert.Equal(t, int64(5), stats.BestSeed)
	assert.Equal(t, 100, stats.WorstScore)
	assert.InDelta(t, 10.0/20.0, stats.Efficiency(), 1e-9)
	require.NoError(t, stats.Validate())
}

func TestStatistics_ValidateCatchesInconsistency(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Score: 10, Moves: 2, Pairs: 2})
	stats.Values = nil

	assert.Error(t, stats.Validate())
}
