package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents the outcome of a single simulated round
type GameResult struct {
	Score          int   // Final score including the completion bonus
	Bonus          int   // Completion bonus part of Score
	Moves          int   // Pairs turned over
	Pairs          int   // Pairs on the board
	ElapsedSeconds int   // Ticks counted while active
	Seed           int64 // RNG seed for this game (for replay)
}

// Statistics tracks aggregate simulation statistics over final scores
type Statistics struct {
	Games    int
	SumScore float64
	SumSq    float64   // Sum of squares for variance calculation
	Values   []float64 // Store all scores for median/percentile calculation

	// Move analytics
	SumMoves     int
	MinMoves     int
	MaxMoves     int
	PerfectGames int // Games finished with one move per pair

	// Score extremes
	BestScore  int
	BestSeed   int64
	WorstScore int

	SumBonus int
	SumPairs int
}

// Mean returns the arithmetic mean final score
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumScore / float64(s.Games)
}

// Variance returns the sample variance of final scores
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of final scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// MeanMoves returns the average number of moves per game
func (s *Statistics) MeanMoves() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumMoves) / float64(s.Games)
}

// Efficiency returns pairs per move across all games. A perfect player
// scores 1.
func (s *Statistics) Efficiency() float64 {
	if s.SumMoves == 0 {
		return 0
	}
	return float64(s.SumPairs) / float64(s.SumMoves)
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	score := float64(result.Score)
	if s.Games == 0 {
		s.MinMoves = result.Moves
		s.MaxMoves = result.Moves
		s.BestScore = result.Score
		s.BestSeed = result.Seed
		s.WorstScore = result.Score
	}

	s.Games++
	s.SumScore += score
	s.SumSq += score * score
	s.Values = append(s.Values, score)

	s.SumMoves += result.Moves
	s.MinMoves = min(s.MinMoves, result.Moves)
	s.MaxMoves = max(s.MaxMoves, result.Moves)
	if result.Moves == result.Pairs {
		s.PerfectGames++
	}

	if result.Score > s.BestScore {
		s.BestScore = result.Score
		s.BestSeed = result.Seed
	}
	s.WorstScore = min(s.WorstScore, result.Score)

	s.SumBonus += result.Bonus
	s.SumPairs += result.Pairs
}

// Median returns the median final score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the score at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}
	if s.PerfectGames > s.Games {
		return fmt.Errorf("perfect games (%d) exceeds total games (%d)", s.PerfectGames, s.Games)
	}
	if s.SumMoves < s.SumPairs {
		return fmt.Errorf("total moves (%d) is less than total pairs (%d)", s.SumMoves, s.SumPairs)
	}
	if s.MinMoves > s.MaxMoves {
		return fmt.Errorf("min moves (%d) exceeds max moves (%d)", s.MinMoves, s.MaxMoves)
	}
	return nil
}
