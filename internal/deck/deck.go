package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck
const Size = 52

// ErrExhausted is returned when dealing from an empty deck. A hand on this
// table consumes at most nine cards, so hitting this indicates a broken
// invariant rather than a recoverable condition.
var ErrExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of cards consumed from the tail
type Deck struct {
	cards []Card
}

// New creates a full deck in canonical order: suit-major (S, H, D, C),
// rank-minor (A, 2..10, J, Q, K), all face down, with fresh stable IDs.
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	id := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, Card{
				ID:       fmt.Sprintf("card-%d", id),
				Rank:     rank,
				Suit:     suit,
				FaceDown: true,
			})
			id++
		}
	}
	return d
}

// Shuffle permutes the deck in place using Fisher-Yates over the supplied RNG
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card (the tail of the sequence)
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrExhausted
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, tail last
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
