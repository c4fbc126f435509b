package session

import (
	"fmt"
	"time"

	"github.com/lox/stackmatch/internal/board"
	"github.com/lox/stackmatch/internal/profile"
	"github.com/lox/stackmatch/internal/scoring"
)

// pendingPair is the state captured when the second card of a pair is
// flipped. Resolution scores against these values, not the values at the
// time the delay elapses.
type pendingPair struct {
	first, second int
	elapsed       int
	moves         int
}

func ignored(reason string) error {
	return fmt.Errorf("%w: %s", ErrFlipIgnored, reason)
}

// Flip turns the card with the given id face up.
func (s *Session) Flip(cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return ignored("no game in progress")
	}
	pos, ok := s.board.Position(cardID)
	if !ok {
		return ignored(fmt.Sprintf("unknown card %q", cardID))
	}
	return s.flipLocked(pos)
}

// FlipAt turns the card at layout position pos face up.
func (s *Session) FlipAt(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return ignored("no game in progress")
	}
	if pos < 0 || pos >= s.board.Len() {
		return ignored(fmt.Sprintf("no card at position %d", pos))
	}
	return s.flipLocked(pos)
}

func (s *Session) flipLocked(pos int) error {
	if s.phase != Active {
		return ignored("game is " + s.phase.String())
	}
	if len(s.flips) >= 2 {
		return ignored("a pair is still being resolved")
	}
	card := s.board.Card(pos)
	if card.Matched {
		return ignored("card already matched")
	}
	if card.Flipped {
		return ignored("card already face up")
	}

	s.board.SetFlipped(pos, true)
	s.flips = append(s.flips, pos)

	if len(s.flips) == 2 {
		s.moves++
		pair := pendingPair{
			first:   s.flips[0],
			second:  s.flips[1],
			elapsed: s.elapsed,
			moves:   s.moves,
		}
		s.sched.schedule(kindResolve, s.cfg.FlipResolutionDelay, func() {
			s.resolveLocked(pair)
		})
	}

	s.logger.Debug("Flipped card", "card", card.ID, "position", pos, "moves", s.moves)
	s.publishLocked(FlipEvent{
		Card:      s.board.Card(pos),
		Position:  pos,
		Moves:     s.moves,
		timestamp: s.clock.Now(),
	})
	return nil
}

func (s *Session) resolveLocked(pair pendingPair) {
	if s.phase != Active || s.board == nil {
		return
	}
	s.flips = s.flips[:0]

	a, b := s.board.Card(pair.first), s.board.Card(pair.second)
	positions := [2]int{pair.first, pair.second}

	if a.PairID != b.PairID {
		s.board.SetFlipped(pair.first, false)
		s.board.SetFlipped(pair.second, false)
		s.logger.Debug("Mismatch", "first", a.ID, "second", b.ID)
		s.publishLocked(MismatchEvent{
			Cards:     [2]board.Card{s.board.Card(pair.first), s.board.Card(pair.second)},
			Positions: positions,
			timestamp: s.clock.Now(),
		})
		return
	}

	s.board.SetMatched(pair.first)
	s.board.SetMatched(pair.second)
	points := scoring.MatchScore(a.Def, pair.elapsed, pair.moves)
	s.score += points
	s.scores = append(s.scores, points)

	matched, total := s.board.MatchedPairs(), s.board.Pairs()
	s.logger.Debug("Match", "card", a.Def.Name, "points", points, "matched", matched, "total", total)
	s.publishLocked(MatchEvent{
		Cards:        [2]board.Card{s.board.Card(pair.first), s.board.Card(pair.second)},
		Positions:    positions,
		Points:       points,
		Score:        s.score,
		MatchedPairs: matched,
		TotalPairs:   total,
		timestamp:    s.clock.Now(),
	})

	if matched == total {
		s.sched.schedule(kindComplete, s.cfg.MatchDelay, s.completeLocked)
	}
}

// completeLocked finishes the round: the completion bonus is added once,
// the high score is updated and the result recorded.
func (s *Session) completeLocked() {
	if s.phase != Active || s.board == nil || !s.board.AllMatched() {
		return
	}

	s.stopTickerLocked()
	s.stack.Freeze(false)
	s.phase = Complete

	bonus := scoring.CompletionBonus(s.board.Pairs(), s.ops.Count())
	s.score = scoring.Final(s.scores, bonus)

	summary := Summary{
		Player:         s.player,
		MatchScores:    append([]int(nil), s.scores...),
		Bonus:          bonus,
		FinalScore:     s.score,
		Moves:          s.moves,
		Pairs:          s.board.Pairs(),
		ElapsedSeconds: s.elapsed,
		OperationsUsed: s.ops,
	}
	s.ops = 0

	ctx, cancel := s.storeContext()
	defer cancel()

	high := s.highScore
	if stored, err := s.store.HighScore(ctx); err != nil {
		s.storeErrorLocked("read high score", err)
	} else {
		high = max(high, stored)
	}
	if summary.FinalScore > high {
		high = summary.FinalScore
		summary.NewHighScore = true
		if err := s.store.SetHighScore(ctx, high); err != nil {
			s.storeErrorLocked("save high score", err)
		}
	}
	s.highScore = high
	summary.HighScore = high

	err := s.store.RecordResult(ctx, profile.Result{
		Player:  s.player,
		Score:   summary.FinalScore,
		Moves:   summary.Moves,
		Pairs:   summary.Pairs,
		Elapsed: time.Duration(summary.ElapsedSeconds) * time.Second,
		At:      s.clock.Now(),
	})
	if err != nil {
		s.storeErrorLocked("record result", err)
	}

	s.last = &summary
	s.logger.Info("Game complete",
		"score", summary.FinalScore,
		"bonus", bonus,
		"moves", summary.Moves,
		"elapsed", FormatElapsed(summary.ElapsedSeconds),
		"high_score", summary.NewHighScore)
	s.publishLocked(CompleteEvent{Summary: summary, timestamp: s.clock.Now()})
}

func (s *Session) storeErrorLocked(op string, err error) {
	s.logger.Error("Profile store failed", "op", op, "error", err)
	s.publishLocked(ErrorEvent{
		Op:        op,
		Err:       err,
		timestamp: s.clock.Now(),
	})
}
