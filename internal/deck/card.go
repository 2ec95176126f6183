package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit. The zero value is SuitHidden so a redacted
// card carries no suit information.
type Suit int

const (
	SuitHidden Suit = iota
	Spades
	Hearts
	Diamonds
	Clubs
)

// String returns the wire representation of a suit ("S", "H", "D", "C"),
// or "?" for a hidden suit.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// ParseSuit parses a wire suit string
func ParseSuit(s string) (Suit, error) {
	switch s {
	case "S":
		return Spades, nil
	case "H":
		return Hearts, nil
	case "D":
		return Diamonds, nil
	case "C":
		return Clubs, nil
	case "?":
		return SuitHidden, nil
	default:
		return SuitHidden, fmt.Errorf("invalid suit: %q", s)
	}
}

// MarshalJSON encodes the suit as its wire string
func (s Suit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the suit from its wire string
func (s *Suit) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSuit(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Rank represents a card rank. The zero value is RankHidden; aces are
// ordered low to match the canonical deck order the table deals from.
type Rank int

const (
	RankHidden Rank = iota
	Ace
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the wire representation of a rank ("A", "2".."10", "J",
// "Q", "K"), or "?" for a hidden rank.
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// ParseRank parses a wire rank string
func ParseRank(s string) (Rank, error) {
	switch s {
	case "A":
		return Ace, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "?":
		return RankHidden, nil
	default:
		var n int
		if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 2 && n <= 10 && s == fmt.Sprintf("%d", n) {
			return Rank(n), nil
		}
		return RankHidden, fmt.Errorf("invalid rank: %q", s)
	}
}

// MarshalJSON encodes the rank as its wire string
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the rank from its wire string
func (r *Rank) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRank(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Card represents a playing card as dealt by the table. ID is stable for the
// lifetime of the deck instance so clients can track a card across the
// face-down/face-up flip without learning its rank or suit early.
type Card struct {
	ID       string `json:"id"`
	Rank     Rank   `json:"rank"`
	Suit     Suit   `json:"suit"`
	FaceDown bool   `json:"faceDown"`
}

// String returns a short human representation (e.g. "AS", "10H")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red (Hearts or Diamonds)
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// Redacted returns a face-down copy stripped of rank and suit, keeping only
// the stable ID. Broadcast payloads use this for cards observers are not
// entitled to see yet.
func (c Card) Redacted() Card {
	return Card{ID: c.ID, FaceDown: true}
}
