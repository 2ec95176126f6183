package game

import (
	"time"

	"github.com/feltworks/feltd/internal/deck"
)

// The deal choreography paces reveals for the presentation layer: hole cards
// land one at a time with a short pause, then the five community cards arrive
// face down as one block. The board stays hidden until betting rounds reveal
// it street by street, so the flop flip is a discrete, event-driven step
// rather than part of the initial choreography.
//
// Every scheduled step captures the hand generation; a lifecycle reset bumps
// the generation and stale timers become no-ops.

type dealStepKind int

const (
	stepHoleCard dealStepKind = iota
	stepBoard
	stepBegin
)

type dealStep struct {
	kind dealStepKind
	seat int
}

// buildDealSequence lays out the full choreography for one hand: two passes
// over the seats in ascending order, then the board, then the handoff to the
// betting engine. Empty seats are skipped at execution time so occupancy can
// change while the deal is in flight.
func (t *Table) buildDealSequence() []dealStep {
	steps := make([]dealStep, 0, t.seats.Size()*holeCardsPerSeat+2)
	for round := 0; round < holeCardsPerSeat; round++ {
		for seat := 0; seat < t.seats.Size(); seat++ {
			steps = append(steps, dealStep{kind: stepHoleCard, seat: seat})
		}
	}
	steps = append(steps, dealStep{kind: stepBoard})
	steps = append(steps, dealStep{kind: stepBegin})
	return steps
}

// runDealStep executes choreography steps until one of them schedules a
// delayed continuation. Must run on the command loop.
func (t *Table) runDealStep(gen int) {
	if gen != t.gen || t.stage != StageDealing {
		return // stale timer from a hand that already reset
	}

	for t.stepIndex < len(t.steps) {
		step := t.steps[t.stepIndex]
		t.stepIndex++

		switch step.kind {
		case stepHoleCard:
			p, ok := t.seats.BySeat(step.seat)
			if !ok {
				t.logger.Debug("seat empty, skipping hole card", "seat", step.seat)
				continue // no card consumed, no delay
			}
			if !t.dealHoleCard(p) {
				return
			}
			t.scheduleStep(gen, t.cfg.HoleCardDelay)
			return

		case stepBoard:
			if !t.dealBoard() {
				return
			}
			t.scheduleStep(gen, t.cfg.BoardDealDelay)
			return

		case stepBegin:
			t.beginPlaying()
			return
		}
	}
}

// dealHoleCard deals one card to a seat: the literal card goes privately to
// its owner, everyone else learns only the card's ID and destination seat.
// Returns false if the deck broke an invariant and the hand was aborted.
func (t *Table) dealHoleCard(p *Player) bool {
	card, err := t.deck.Deal()
	if err != nil {
		t.logger.Error("deck exhausted mid-deal, aborting hand", "hand", t.handID, "error", err)
		t.endHand(NoWinner, 0)
		return false
	}
	card.FaceDown = false // face up to its owner
	p.HoleCards = append(p.HoleCards, card)

	t.logger.Debug("dealt hole card", "hand", t.handID, "seat", p.Seat, "cardId", card.ID)

	t.bus.SendTo(p.ConnID, DealPrivateEvent{Card: card, Seat: p.Seat})
	t.bus.Broadcast(DealNotifyEvent{Seat: p.Seat, CardID: card.ID})
	return true
}

// dealBoard deals all five community cards face down in one broadcast
func (t *Table) dealBoard() bool {
	board := make([]deck.Card, 0, 5)
	for i := 0; i < 5; i++ {
		card, err := t.deck.Deal()
		if err != nil {
			t.logger.Error("deck exhausted dealing board, aborting hand", "hand", t.handID, "error", err)
			t.endHand(NoWinner, 0)
			return false
		}
		board = append(board, card)
	}
	t.community = board

	t.logger.Debug("dealt board", "hand", t.handID, "remaining", t.deck.Remaining())

	t.bus.Broadcast(DealPublicEvent{Cards: t.boardView()})
	return true
}

// scheduleStep arms the clock for the next choreography step. The callback
// re-enters the command loop, so delays are suspension points during which
// other requests interleave safely.
func (t *Table) scheduleStep(gen int, delay time.Duration) {
	t.dealTimer = t.clock.AfterFunc(delay, func() {
		t.do(func() { t.runDealStep(gen) })
	})
}
