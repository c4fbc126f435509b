// Package scoring computes match and completion scores. All functions are
// pure.
package scoring

import "github.com/lox/stackmatch/internal/catalog"

const (
	// TimeBonusCeiling is the time bonus for a match made at zero seconds.
	TimeBonusCeiling = 100
	// MoveBonusCeiling is the move bonus for a match made at zero moves.
	MoveBonusCeiling = 50
	// StackSizeBonus is awarded per stacked card on completion.
	StackSizeBonus = 50
	// OperationBonus is awarded per distinct stack operation kind used.
	OperationBonus = 100
	// OperationKinds is the number of distinct stack operations (push, pop,
	// peek, clear).
	OperationKinds = 4
)

// MatchScore returns the score for matching a pair of card.
//
//	points + max(0, 100 - elapsedSeconds) + max(0, 50 - moves)
func MatchScore(card catalog.Card, elapsedSeconds, moves int) int {
	return card.Points +
		max(0, TimeBonusCeiling-elapsedSeconds) +
		max(0, MoveBonusCeiling-moves)
}

// CompletionBonus returns the one-off bonus awarded when a round completes.
// operationsUsed is clamped to [0, OperationKinds].
//
//	stackSize*50 + operationsUsed*100
func CompletionBonus(stackSize, operationsUsed int) int {
	operationsUsed = min(max(operationsUsed, 0), OperationKinds)
	return max(stackSize, 0)*StackSizeBonus + operationsUsed*OperationBonus
}

// Final sums the match scores accrued during play and the completion bonus.
func Final(matchScores []int, bonus int) int {
	total := bonus
	for _, s := range matchScores {
		total += s
	}
	return total
}
