// Package simulator plays many rounds with a computer player and aggregates
// the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/stackmatch/internal/autoplay"
	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/randutil"
	"github.com/lox/stackmatch/internal/session"
	"github.com/lox/stackmatch/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Player      string
	Cards       int // Stack size per game; 0 uses the catalog default
	Seed        int64
	Timeout     time.Duration // Per game
	Concurrency int           // 0 uses GOMAXPROCS
	// AllOperations makes every game exercise push, pop, peek and clear
	// while building its stack, so the full operations bonus is earned.
	AllOperations bool
	Catalog       *catalog.Catalog
	Logger        *log.Logger
}

// Simulator runs memory game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Catalog == nil {
		config.Catalog = catalog.Fallback()
	}
	if config.Cards == 0 {
		config.Cards = config.Catalog.Config.DefaultCards
	}
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.GOMAXPROCS(0)
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config}
}

// Run plays every game and returns the aggregate statistics. Games run in
// parallel but results are added in game order, so the output only depends
// on the seed.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	cfg := s.config.Catalog.Config
	if s.config.Cards < cfg.MinCards || s.config.Cards > cfg.MaxStackSize {
		return nil, fmt.Errorf("cards must be between %d and %d, got %d", cfg.MinCards, cfg.MaxStackSize, s.config.Cards)
	}
	if s.config.AllOperations && s.config.Cards >= cfg.MaxStackSize {
		return nil, errors.New("exercising all operations needs room for one extra card on the stack")
	}
	if _, err := autoplay.New(s.config.Player, randutil.New(0)); err != nil {
		return nil, err
	}

	logger := s.config.Logger.WithPrefix("simulator")
	results := make([]statistics.GameResult, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i := range s.config.Games {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			result, err := s.playWithTimeout(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = result
			logger.Debug("Game finished", "game", i+1, "score", result.Score, "moves", result.Moves)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playWithTimeout runs a single game with timeout protection
func (s *Simulator) playWithTimeout(ctx context.Context, seed int64) (statistics.GameResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.play(ctx, seed)
	if errors.Is(err, context.DeadlineExceeded) {
		return result, fmt.Errorf("game timed out after %v", s.config.Timeout)
	}
	return result, err
}

func (s *Simulator) play(ctx context.Context, seed int64) (statistics.GameResult, error) {
	rng := randutil.New(seed)
	cfg := s.config.Catalog.Config
	cfg.FlipResolutionDelay = 0
	cfg.MatchDelay = 0

	sess, err := session.New(cfg, rng, session.WithLogger(s.config.Logger))
	if err != nil {
		return statistics.GameResult{}, err
	}
	if err := s.buildStack(sess, seed); err != nil {
		return statistics.GameResult{}, fmt.Errorf("build stack: %w", err)
	}

	player, err := autoplay.New(s.config.Player, randutil.New(seed^0x5eed))
	if err != nil {
		return statistics.GameResult{}, err
	}
	summary, err := autoplay.Play(ctx, sess, player)
	if err != nil {
		sess.Reset() // stops the ticker
		return statistics.GameResult{}, err
	}

	return statistics.GameResult{
		Score:          summary.FinalScore,
		Bonus:          summary.Bonus,
		Moves:          summary.Moves,
		Pairs:          summary.Pairs,
		ElapsedSeconds: summary.ElapsedSeconds,
		Seed:           seed,
	}, nil
}

// buildStack pushes a random selection of catalog cards onto the stack.
func (s *Simulator) buildStack(sess *session.Session, seed int64) error {
	cards := make([]catalog.Card, len(s.config.Catalog.Cards))
	copy(cards, s.config.Catalog.Cards)
	rng := randutil.New(^seed)
	randutil.Shuffle(rng, cards)

	pick := func(i int) catalog.Card { return cards[i%len(cards)] }

	if s.config.AllOperations {
		if _, err := sess.Push(pick(0)); err != nil {
			return err
		}
		if _, err := sess.Clear(); err != nil {
			return err
		}
	}
	for i := range s.config.Cards {
		if _, err := sess.Push(pick(i)); err != nil {
			return err
		}
	}
	if s.config.AllOperations {
		if _, err := sess.Push(pick(s.config.Cards)); err != nil {
			return err
		}
		if _, err := sess.Pop(); err != nil {
			return err
		}
		if _, err := sess.Peek(); err != nil {
			return err
		}
	}
	return nil
}
