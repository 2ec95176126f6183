package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected Action
		wantErr  bool
	}{
		{"fold", Fold, false},
		{"check", Check, false},
		{"call", Call, false},
		{"bet", Bet, false},
		{"raise", Raise, false},
		{"allin", 0, true},
		{"FOLD", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAction(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestStreetString(t *testing.T) {
	assert.Equal(t, "PRE_FLOP", PreFlop.String())
	assert.Equal(t, "FLOP", Flop.String())
	assert.Equal(t, "TURN", Turn.String())
	assert.Equal(t, "RIVER", River.String())
}

func TestBettingRoundApplyAccumulates(t *testing.T) {
	br := NewBettingRound(PreFlop)

	contribution, reopened := br.Apply("a", 100)
	assert.Equal(t, 100, contribution)
	assert.True(t, reopened)
	assert.Equal(t, 100, br.HighestBet)
	assert.Equal(t, 1, br.ActionCount)

	// A second incremental amount stacks onto the street contribution
	contribution, _ = br.Apply("a", 50)
	assert.Equal(t, 150, contribution)
}

func TestBettingRoundRaiseReopensAction(t *testing.T) {
	br := NewBettingRound(PreFlop)

	br.Apply("a", 100)
	_, reopened := br.Apply("b", 300)
	assert.True(t, reopened)
	assert.Equal(t, 300, br.HighestBet)
	// The reopening reset the count before this action was tallied
	assert.Equal(t, 1, br.ActionCount)

	// Matching the high bet does not reopen
	_, reopened = br.Apply("a", 200)
	assert.False(t, reopened)
	assert.Equal(t, 300, br.HighestBet)
	assert.Equal(t, 2, br.ActionCount)
}

func TestBettingRoundComplete(t *testing.T) {
	occupied := []string{"a", "b"}

	t.Run("not complete until bets match", func(t *testing.T) {
		br := NewBettingRound(PreFlop)
		br.Apply("a", 100)
		assert.False(t, br.Complete(occupied))
	})

	t.Run("complete when matched and everyone acted", func(t *testing.T) {
		br := NewBettingRound(PreFlop)
		br.Apply("a", 100)
		br.Apply("b", 100)
		assert.True(t, br.Complete(occupied))
	})

	t.Run("checks all around complete the round", func(t *testing.T) {
		br := NewBettingRound(Flop)
		br.Apply("a", 0)
		assert.False(t, br.Complete(occupied))
		br.Apply("b", 0)
		assert.True(t, br.Complete(occupied))
	})

	t.Run("raise requires a response", func(t *testing.T) {
		br := NewBettingRound(PreFlop)
		br.Apply("a", 100)
		br.Apply("b", 300)
		// Bets unmatched and the raise reset the action count
		assert.False(t, br.Complete(occupied))
		br.Apply("a", 200)
		assert.True(t, br.Complete(occupied))
	})

	t.Run("matched bets alone are not enough", func(t *testing.T) {
		// Both seats at 0 contribution but nobody has acted yet
		br := NewBettingRound(Flop)
		assert.False(t, br.Complete(occupied))
	})

	t.Run("no occupied seats", func(t *testing.T) {
		br := NewBettingRound(Flop)
		assert.True(t, br.Complete(nil))
	})
}

func TestBettingRoundDrop(t *testing.T) {
	br := NewBettingRound(PreFlop)
	br.Apply("a", 100)
	br.Apply("b", 100)

	br.Drop("b")

	// With b gone, only a's matched contribution matters
	assert.True(t, br.Complete([]string{"a"}))
}
