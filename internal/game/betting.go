package game

import (
	"encoding/json"
	"fmt"
)

// Street represents a betting round tied to a board state
type Street int

const (
	PreFlop Street = iota
	Flop
	Turn
	River
)

// String returns the wire representation of the street
func (s Street) String() string {
	switch s {
	case PreFlop:
		return "PRE_FLOP"
	case Flop:
		return "FLOP"
	case Turn:
		return "TURN"
	case River:
		return "RIVER"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the street as its wire string
func (s Street) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseStreet parses a wire street string
func ParseStreet(raw string) (Street, error) {
	switch raw {
	case "PRE_FLOP":
		return PreFlop, nil
	case "FLOP":
		return Flop, nil
	case "TURN":
		return Turn, nil
	case "RIVER":
		return River, nil
	default:
		return 0, fmt.Errorf("invalid street: %q", raw)
	}
}

// UnmarshalJSON decodes the street from its wire string
func (s *Street) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStreet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
)

// String returns the wire representation of the action
func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// ParseAction parses a wire action string
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	default:
		return 0, fmt.Errorf("invalid action: %q", s)
	}
}

// BettingRound tracks per-seat contributions for the current street.
//
// Action amounts on the wire are incremental: the chips a seat adds with this
// action, not its total for the street. A seat's contribution is the running
// sum of its amounts since the street opened.
type BettingRound struct {
	Street      Street
	HighestBet  int
	Bets        map[string]int // conn ID -> contribution this street
	ActionCount int            // actions since the last reopening
}

// NewBettingRound opens a fresh betting round for a street
func NewBettingRound(street Street) *BettingRound {
	return &BettingRound{
		Street: street,
		Bets:   make(map[string]int),
	}
}

// Apply records an incremental amount for a seat and returns the seat's new
// total contribution. A contribution strictly above the highest bet reopens
// the action: the action count resets so every other seat gets a chance to
// respond to the new high bet.
func (br *BettingRound) Apply(connID string, amount int) (contribution int, reopened bool) {
	contribution = br.Bets[connID] + amount
	br.Bets[connID] = contribution

	if contribution > br.HighestBet {
		br.HighestBet = contribution
		br.ActionCount = 0
		reopened = true
	}
	br.ActionCount++
	return contribution, reopened
}

// Drop removes a seat's entry, e.g. when its connection departs mid-street.
// Chips already contributed stay in the pot.
func (br *BettingRound) Drop(connID string) {
	delete(br.Bets, connID)
}

// Complete reports whether the round is finished: every listed seat's
// contribution equals the highest bet and everyone has acted at least once
// since the last reopening.
func (br *BettingRound) Complete(occupied []string) bool {
	if len(occupied) == 0 {
		return true
	}
	for _, connID := range occupied {
		if br.Bets[connID] != br.HighestBet {
			return false
		}
	}
	return br.ActionCount >= len(occupied)
}
