package game

import "github.com/feltworks/feltd/internal/deck"

// EventType identifies a table event. The values double as the wire message
// names the transport layer sends, so the engine and the protocol cannot
// drift apart.
type EventType string

const (
	EventTypeInitState    EventType = "init_state"
	EventTypePlayerJoined EventType = "player_joined"
	EventTypePlayerLeft   EventType = "player_left"
	EventTypeStageChange  EventType = "game_stage_change"
	EventTypeDealPrivate  EventType = "deal_private"
	EventTypeDealNotify   EventType = "deal_notify"
	EventTypeDealPublic   EventType = "deal_public"
	EventTypeBoardCount   EventType = "update_board_count"
	EventTypeNewRound     EventType = "new_round"
	EventTypeTurnChange   EventType = "turn_change"
	EventTypePotUpdate    EventType = "pot_update"
	EventTypeHighestBet   EventType = "highest_bet_update"
	EventTypeHandEnded    EventType = "hand_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is any notification the table emits
type Event interface {
	EventType() EventType
}

// Subscriber receives table events. OnBroadcast events go to every connected
// session; OnAddressed events are private to the session identified by connID
// (hole cards, the join snapshot).
type Subscriber interface {
	OnBroadcast(ev Event)
	OnAddressed(connID string, ev Event)
}

// Bus fans events out to subscribers. Publishing happens only on the table's
// command loop, so no locking is needed.
type Bus struct {
	subscribers []Subscriber
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds a subscriber. Not safe to call once the table is running.
func (b *Bus) Subscribe(sub Subscriber) {
	b.subscribers = append(b.subscribers, sub)
}

// Broadcast delivers an event to every subscriber
func (b *Bus) Broadcast(ev Event) {
	for _, sub := range b.subscribers {
		sub.OnBroadcast(ev)
	}
}

// SendTo delivers an event scoped to a single connection
func (b *Bus) SendTo(connID string, ev Event) {
	for _, sub := range b.subscribers {
		sub.OnAddressed(connID, ev)
	}
}

// PlayerInfo is the public view of a seated player
type PlayerInfo struct {
	ID   string `json:"id"`
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

// InitStateEvent is sent privately to a connection that just took a seat so
// late joiners can catch up on the hand in progress.
type InitStateEvent struct {
	YourSeat          int                   `json:"yourSeat"`
	Players           map[string]PlayerInfo `json:"players"`
	Stage             Stage                 `json:"stage"`
	CommunityCards    []deck.Card           `json:"communityCards"`
	VisibleBoardCount int                   `json:"visibleBoardCount"`
}

func (e InitStateEvent) EventType() EventType { return EventTypeInitState }

// PlayerJoinedEvent announces a newly seated player
type PlayerJoinedEvent struct {
	ID   string `json:"id"`
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

func (e PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }

// PlayerLeftEvent announces a vacated seat
type PlayerLeftEvent struct {
	Seat int `json:"seat"`
}

func (e PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }

// StageChangeEvent announces a hand lifecycle transition
type StageChangeEvent struct {
	Stage Stage `json:"stage"`
}

func (e StageChangeEvent) EventType() EventType { return EventTypeStageChange }

// DealPrivateEvent carries a literal hole card to its owner only
type DealPrivateEvent struct {
	Card deck.Card `json:"card"`
	Seat int       `json:"seat"`
}

func (e DealPrivateEvent) EventType() EventType { return EventTypeDealPrivate }

// DealNotifyEvent tells everyone a card landed on a seat. It carries only the
// opaque card ID so observers cannot infer hidden cards.
type DealNotifyEvent struct {
	Seat   int    `json:"seat"`
	CardID string `json:"cardId"`
}

func (e DealNotifyEvent) EventType() EventType { return EventTypeDealNotify }

// DealPublicEvent carries the community board; cards may be flagged face down
type DealPublicEvent struct {
	Cards []deck.Card `json:"cards"`
}

func (e DealPublicEvent) EventType() EventType { return EventTypeDealPublic }

// BoardCountEvent announces how many community cards are visible
type BoardCountEvent struct {
	VisibleBoardCount int `json:"visibleBoardCount"`
}

func (e BoardCountEvent) EventType() EventType { return EventTypeBoardCount }

// NewRoundEvent announces the start of a betting round
type NewRoundEvent struct {
	Stage      Street `json:"stage"`
	ActiveSeat int    `json:"activeSeat"`
}

func (e NewRoundEvent) EventType() EventType { return EventTypeNewRound }

// TurnChangeEvent announces whose turn it is
type TurnChangeEvent struct {
	Seat int `json:"seat"`
}

func (e TurnChangeEvent) EventType() EventType { return EventTypeTurnChange }

// PotUpdateEvent announces the total pot
type PotUpdateEvent struct {
	Pot int `json:"pot"`
}

func (e PotUpdateEvent) EventType() EventType { return EventTypePotUpdate }

// HighestBetEvent announces the current street's high-water contribution
type HighestBetEvent struct {
	HighestBet int `json:"highestBet"`
}

func (e HighestBetEvent) EventType() EventType { return EventTypeHighestBet }

// HandEndedEvent announces the end of a hand. Winner is a seat index, or
// NoWinner when the hand was aborted or the pot split.
type HandEndedEvent struct {
	Winner int    `json:"winner"`
	Pot    int    `json:"pot"`
	HandID string `json:"handId,omitempty"`
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }
