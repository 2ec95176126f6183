package game

import (
	"context"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/feltd/internal/deck"
	"github.com/feltworks/feltd/internal/handid"
)

// Stage is the hand lifecycle stage
type Stage string

const (
	StageWaiting Stage = "WAITING"
	StageDealing Stage = "DEALING"
	StagePlaying Stage = "PLAYING"
)

// NoWinner marks a hand that ended without a single winning seat: an aborted
// hand, or a full run-out split with showdown evaluation out of scope.
const NoWinner = -1

const holeCardsPerSeat = 2

// Config holds table parameters
type Config struct {
	Seats          int           // seat pool size, fixed for the process lifetime
	HoleCardDelay  time.Duration // pause between hole card reveals
	BoardDealDelay time.Duration // pause after the board lands before betting opens
}

// DefaultConfig returns the stock two-seat table
func DefaultConfig() Config {
	return Config{
		Seats:          2,
		HoleCardDelay:  500 * time.Millisecond,
		BoardDealDelay: 800 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	if c.Seats == 0 {
		c.Seats = 2
	}
	if c.HoleCardDelay == 0 {
		c.HoleCardDelay = 500 * time.Millisecond
	}
	if c.BoardDealDelay == 0 {
		c.BoardDealDelay = 800 * time.Millisecond
	}
	return c
}

// Table owns the authoritative state of one heads-up hand at a time. All
// mutation happens on the command loop goroutine started by Run; public
// methods post commands and wait for them to execute, which gives the
// single-writer invariant without locks. Timed deal steps are scheduled on
// the quartz clock and re-enter the loop the same way, so delays are genuine
// suspension points during which joins, actions and disconnects interleave.
type Table struct {
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	bus    *Bus

	commands chan command
	stopped  chan struct{}

	// Hand state below is loop-owned; never touch it off the command loop.
	seats             *SeatRegistry
	stage             Stage
	handID            string
	deck              *deck.Deck
	community         []deck.Card
	visibleBoardCount int
	pot               int
	activeSeat        int
	street            Street
	round             *BettingRound

	// gen counts hand lifecycle transitions. Scheduled deal steps capture it
	// and refuse to run if it moved, so a reset cancels pending choreography.
	gen       int
	steps     []dealStep
	stepIndex int
	dealTimer *quartz.Timer
}

type command struct {
	fn   func()
	done chan struct{}
}

// New creates a table. The RNG drives deck shuffles; the clock drives deal
// choreography pacing and is mockable in tests.
func New(cfg Config, logger *log.Logger, clock quartz.Clock, rng *rand.Rand) *Table {
	cfg = cfg.withDefaults()
	return &Table{
		cfg:      cfg,
		logger:   logger.WithPrefix("table"),
		clock:    clock,
		rng:      rng,
		bus:      NewBus(),
		commands: make(chan command),
		stopped:  make(chan struct{}),
		seats:    NewSeatRegistry(cfg.Seats),
		stage:    StageWaiting,
	}
}

// Subscribe registers an event subscriber. Call before Run.
func (t *Table) Subscribe(sub Subscriber) {
	t.bus.Subscribe(sub)
}

// Run processes commands until the context is cancelled
func (t *Table) Run(ctx context.Context) {
	defer close(t.stopped)
	for {
		select {
		case cmd := <-t.commands:
			cmd.fn()
			close(cmd.done)
		case <-ctx.Done():
			return
		}
	}
}

// do executes fn on the command loop and waits for it to finish. Calls made
// after the loop stopped are dropped.
func (t *Table) do(fn func()) {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case t.commands <- cmd:
		select {
		case <-cmd.done:
		case <-t.stopped:
		}
	case <-t.stopped:
	}
}

// Join assigns the lowest empty seat to connID and sends the joiner a private
// state snapshot. Fails with ErrRoomFull when every seat is taken, leaving
// seat state untouched.
func (t *Table) Join(connID string) (info PlayerInfo, err error) {
	t.do(func() {
		p, joinErr := t.seats.Join(connID)
		if joinErr != nil {
			err = joinErr
			return
		}
		info = PlayerInfo{ID: p.ConnID, Seat: p.Seat, Name: p.Name}

		t.logger.Info("player joined", "conn", connID, "seat", p.Seat)

		t.bus.SendTo(connID, InitStateEvent{
			YourSeat:          p.Seat,
			Players:           t.seats.Snapshot(),
			Stage:             t.stage,
			CommunityCards:    t.boardView(),
			VisibleBoardCount: t.visibleBoardCount,
		})
		t.bus.Broadcast(PlayerJoinedEvent{ID: p.ConnID, Seat: p.Seat, Name: p.Name})
	})
	return info, err
}

// Leave frees the seat held by connID, if any. A departure during DEALING
// aborts the hand when fewer than two seats remain; during PLAYING the
// departing seat is auto-folded, so a heads-up opponent wins on the spot.
func (t *Table) Leave(connID string) {
	t.do(func() {
		p, ok := t.seats.Leave(connID)
		if !ok {
			return
		}
		t.logger.Info("player left", "conn", connID, "seat", p.Seat)
		t.bus.Broadcast(PlayerLeftEvent{Seat: p.Seat})

		switch t.stage {
		case StageDealing:
			if t.seats.OccupiedCount() < 2 {
				t.logger.Warn("aborting deal, not enough players", "occupied", t.seats.OccupiedCount())
				t.endHand(NoWinner, 0)
			}
		case StagePlaying:
			t.foldDeparted(p)
		}
	})
}

// foldDeparted applies the auto-fold policy for a seat that vacated mid-hand
func (t *Table) foldDeparted(p *Player) {
	if t.round != nil {
		t.round.Drop(p.ConnID) // contributed chips stay in the pot
	}

	switch t.seats.OccupiedCount() {
	case 0:
		t.endHand(NoWinner, 0)
	case 1:
		winner, _ := t.seats.NextOccupied(p.Seat)
		t.endHand(winner, t.pot)
	default:
		// Tables beyond heads-up: hand continues, pass the turn along if the
		// departed seat held it.
		if t.activeSeat == p.Seat {
			if next, ok := t.seats.NextOccupied(p.Seat); ok {
				t.setTurn(next)
			}
		}
	}
}

// StartHand begins a hand if the table is WAITING with at least two seated
// players. Requests in any other stage are silently ignored so clients may
// retry without penalty.
func (t *Table) StartHand() {
	t.do(func() {
		if t.stage != StageWaiting {
			t.logger.Debug("ignoring start_game", "stage", t.stage)
			return
		}
		if t.seats.OccupiedCount() < 2 {
			t.logger.Debug("ignoring start_game, not enough players", "occupied", t.seats.OccupiedCount())
			return
		}
		t.beginHand()
	})
}

func (t *Table) beginHand() {
	t.gen++
	t.handID = handid.New()
	t.deck = deck.New()
	t.deck.Shuffle(t.rng)
	t.community = nil
	t.visibleBoardCount = 0
	t.pot = 0
	for _, connID := range t.seats.OccupiedConnIDs() {
		if p, ok := t.seats.ByConn(connID); ok {
			p.HoleCards = nil
		}
	}

	t.setStage(StageDealing)
	t.logger.Info("hand started", "hand", t.handID, "players", t.seats.OccupiedCount())

	t.steps = t.buildDealSequence()
	t.stepIndex = 0
	t.runDealStep(t.gen)
}

// beginPlaying opens the pre-flop betting round once the choreography is done
func (t *Table) beginPlaying() {
	t.street = PreFlop
	t.round = NewBettingRound(PreFlop)
	t.activeSeat = 0
	t.setStage(StagePlaying)
	t.bus.Broadcast(NewRoundEvent{Stage: t.street, ActiveSeat: t.activeSeat})
	t.bus.Broadcast(TurnChangeEvent{Seat: t.activeSeat})
	t.bus.Broadcast(HighestBetEvent{HighestBet: 0})
}

// HandleAction validates and applies a player action. Requests are dropped
// silently unless the stage is PLAYING, the claimed seat is the acting seat,
// and the connection actually owns that seat.
func (t *Table) HandleAction(connID string, action Action, seat, amount int) {
	t.do(func() {
		if t.stage != StagePlaying {
			t.logger.Debug("dropping action, not playing", "stage", t.stage, "conn", connID)
			return
		}
		p, ok := t.seats.ByConn(connID)
		if !ok || p.Seat != seat || seat != t.activeSeat {
			t.logger.Debug("dropping out-of-turn action", "conn", connID, "seat", seat, "active", t.activeSeat)
			return
		}
		if amount < 0 {
			t.logger.Debug("dropping action with negative amount", "conn", connID, "amount", amount)
			return
		}

		if action == Fold {
			winner, ok := t.seats.NextOccupied(p.Seat)
			if !ok {
				winner = NoWinner
			}
			t.logger.Info("fold", "hand", t.handID, "seat", p.Seat, "winner", winner, "pot", t.pot)
			t.endHand(winner, t.pot)
			return
		}

		contribution, reopened := t.round.Apply(connID, amount)
		t.pot += amount
		t.logger.Info("action",
			"hand", t.handID,
			"seat", p.Seat,
			"action", action,
			"amount", amount,
			"contribution", contribution,
			"pot", t.pot,
			"reopened", reopened)

		t.bus.Broadcast(PotUpdateEvent{Pot: t.pot})
		t.bus.Broadcast(HighestBetEvent{HighestBet: t.round.HighestBet})

		if t.round.Complete(t.seats.OccupiedConnIDs()) {
			t.advanceStreet()
			return
		}
		if next, ok := t.seats.NextOccupied(t.activeSeat); ok {
			t.setTurn(next)
		}
	})
}

// advanceStreet moves the hand to the next street: the flop reveals three
// community cards, turn and river one each, and a completed river ends the
// hand. Each transition resets the betting round and hands first action to
// the post-flop first actor.
func (t *Table) advanceStreet() {
	switch t.street {
	case PreFlop:
		t.revealStreet(Flop, 3)
	case Flop:
		t.revealStreet(Turn, 1)
	case Turn:
		t.revealStreet(River, 1)
	case River:
		// No showdown evaluation on this table: a full run-out splits the pot.
		t.logger.Info("run-out complete, splitting pot", "hand", t.handID, "pot", t.pot)
		t.endHand(NoWinner, t.pot)
	}
}

func (t *Table) revealStreet(next Street, reveal int) {
	t.visibleBoardCount += reveal
	for i := 0; i < t.visibleBoardCount && i < len(t.community); i++ {
		t.community[i].FaceDown = false
	}

	t.street = next
	t.round = NewBettingRound(next)
	// Post-flop, the first occupied seat after seat 0 acts first (seat 1
	// heads-up).
	first, ok := t.seats.NextOccupied(0)
	if !ok {
		first = 0
	}
	t.activeSeat = first

	t.logger.Info("street", "hand", t.handID, "street", next, "visible", t.visibleBoardCount)

	t.bus.Broadcast(DealPublicEvent{Cards: t.boardView()})
	t.bus.Broadcast(BoardCountEvent{VisibleBoardCount: t.visibleBoardCount})
	t.bus.Broadcast(NewRoundEvent{Stage: t.street, ActiveSeat: t.activeSeat})
	t.bus.Broadcast(TurnChangeEvent{Seat: t.activeSeat})
	t.bus.Broadcast(HighestBetEvent{HighestBet: 0})
}

// endHand broadcasts the result and resets the lifecycle to WAITING. The
// generation bump cancels any choreography still scheduled.
func (t *Table) endHand(winner, awarded int) {
	t.gen++
	if t.dealTimer != nil {
		t.dealTimer.Stop()
		t.dealTimer = nil
	}

	t.bus.Broadcast(HandEndedEvent{Winner: winner, Pot: awarded, HandID: t.handID})

	t.stage = StageWaiting
	t.pot = 0
	t.community = nil
	t.visibleBoardCount = 0
	t.round = nil
	t.handID = ""
	t.bus.Broadcast(StageChangeEvent{Stage: t.stage})
}

func (t *Table) setStage(stage Stage) {
	t.stage = stage
	t.bus.Broadcast(StageChangeEvent{Stage: stage})
}

func (t *Table) setTurn(seat int) {
	t.activeSeat = seat
	t.bus.Broadcast(TurnChangeEvent{Seat: seat})
}

// TableState is a point-in-time copy of the authoritative hand state
type TableState struct {
	Stage             Stage
	Street            Street
	HandID            string
	Pot               int
	ActiveSeat        int
	HighestBet        int
	RoundActionCount  int
	VisibleBoardCount int
	CommunityCards    []deck.Card
	OccupiedSeats     int
	DeckRemaining     int
}

// State returns a consistent snapshot of the table, taken on the command loop
func (t *Table) State() TableState {
	var st TableState
	t.do(func() {
		st = TableState{
			Stage:             t.stage,
			Street:            t.street,
			HandID:            t.handID,
			Pot:               t.pot,
			ActiveSeat:        t.activeSeat,
			VisibleBoardCount: t.visibleBoardCount,
			CommunityCards:    t.boardView(),
			OccupiedSeats:     t.seats.OccupiedCount(),
		}
		if t.round != nil {
			st.HighestBet = t.round.HighestBet
			st.RoundActionCount = t.round.ActionCount
		}
		if t.deck != nil {
			st.DeckRemaining = t.deck.Remaining()
		}
	})
	return st
}

// boardView returns a copy of the community cards for broadcasting. Cards
// still face down are redacted to their IDs so no client sees a street before
// the betting that gates it completes.
func (t *Table) boardView() []deck.Card {
	out := make([]deck.Card, len(t.community))
	for i, c := range t.community {
		if c.FaceDown {
			out[i] = c.Redacted()
		} else {
			out[i] = c
		}
	}
	return out
}
