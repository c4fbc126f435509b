package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/stackmatch/internal/catalog"
)

func TestMatchScore(t *testing.T) {
	t.Parallel()

	card := catalog.Card{Name: "A", Points: 10}

	tests := []struct {
		name    string
		elapsed int
		moves   int
		want    int
	}{
		{"worked example", 5, 1, 10 + 95 + 49},
		{"instant", 0, 0, 10 + 100 + 50},
		{"time bonus exhausted", 100, 1, 10 + 0 + 49},
		{"time bonus never negative", 250, 1, 10 + 0 + 49},
		{"move bonus exhausted", 5, 50, 10 + 95 + 0},
		{"move bonus never negative", 5, 80, 10 + 95 + 0},
		{"both exhausted", 500, 500, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchScore(card, tt.elapsed, tt.moves))
		})
	}

	assert.Equal(t, 150, MatchScore(catalog.Card{}, 0, 0), "zero-point card still earns bonuses")
}

func TestCompletionBonus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 550, CompletionBonus(3, 4))
	assert.Equal(t, 2*50+100, CompletionBonus(2, 1))
	assert.Equal(t, 0, CompletionBonus(0, 0))
	assert.Equal(t, 150+400, CompletionBonus(3, 9), "operations clamp at four kinds")
	assert.Equal(t, 150, CompletionBonus(3, -2), "negative operations clamp to zero")
}

func TestFinal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 550, Final(nil, 550))
	assert.Equal(t, 154+160+550, Final([]int{154, 160}, 550))
}
