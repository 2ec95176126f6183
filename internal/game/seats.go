package game

import (
	"errors"
	"fmt"

	"github.com/feltworks/feltd/internal/deck"
)

// ErrRoomFull is returned by Join when every seat is occupied
var ErrRoomFull = errors.New("room is full")

// Player is a seated connection. Owned by the seat registry; the rest of the
// engine refers to players by seat index or connection ID.
type Player struct {
	ConnID    string
	Seat      int
	Name      string
	HoleCards []deck.Card
}

// SeatRegistry maps connection identities onto a fixed-size seat pool. The
// pool size never changes for the lifetime of the table. Not safe for
// concurrent use; it is owned by the table's command loop.
type SeatRegistry struct {
	seats   []string // seat index -> conn ID, "" when empty
	players map[string]*Player
}

// NewSeatRegistry creates a registry with n empty seats
func NewSeatRegistry(n int) *SeatRegistry {
	return &SeatRegistry{
		seats:   make([]string, n),
		players: make(map[string]*Player, n),
	}
}

// Size returns the fixed seat pool size
func (r *SeatRegistry) Size() int {
	return len(r.seats)
}

// Join assigns the lowest-indexed empty seat to connID. Joining twice with
// the same connection returns the existing player.
func (r *SeatRegistry) Join(connID string) (*Player, error) {
	if p, ok := r.players[connID]; ok {
		return p, nil
	}

	seat := -1
	for i, occupant := range r.seats {
		if occupant == "" {
			seat = i
			break
		}
	}
	if seat == -1 {
		return nil, ErrRoomFull
	}

	p := &Player{
		ConnID: connID,
		Seat:   seat,
		Name:   fmt.Sprintf("Player %d", seat+1),
	}
	r.seats[seat] = connID
	r.players[connID] = p
	return p, nil
}

// Leave frees the seat held by connID. Returns the departed player, or false
// if the connection held no seat.
func (r *SeatRegistry) Leave(connID string) (*Player, bool) {
	p, ok := r.players[connID]
	if !ok {
		return nil, false
	}
	r.seats[p.Seat] = ""
	delete(r.players, connID)
	return p, true
}

// ByConn returns the player for a connection ID
func (r *SeatRegistry) ByConn(connID string) (*Player, bool) {
	p, ok := r.players[connID]
	return p, ok
}

// BySeat returns the player occupying a seat
func (r *SeatRegistry) BySeat(seat int) (*Player, bool) {
	if seat < 0 || seat >= len(r.seats) || r.seats[seat] == "" {
		return nil, false
	}
	return r.players[r.seats[seat]], true
}

// OccupiedCount returns the number of occupied seats
func (r *SeatRegistry) OccupiedCount() int {
	n := 0
	for _, occupant := range r.seats {
		if occupant != "" {
			n++
		}
	}
	return n
}

// OccupiedConnIDs returns the connection IDs of seated players in seat order
func (r *SeatRegistry) OccupiedConnIDs() []string {
	ids := make([]string, 0, len(r.seats))
	for _, occupant := range r.seats {
		if occupant != "" {
			ids = append(ids, occupant)
		}
	}
	return ids
}

// NextOccupied returns the next occupied seat after the given one in seat
// order, wrapping around and skipping empty seats. Returns false when no
// other seat is occupied.
func (r *SeatRegistry) NextOccupied(after int) (int, bool) {
	for i := 1; i <= len(r.seats); i++ {
		seat := (after + i) % len(r.seats)
		if seat == after {
			break
		}
		if r.seats[seat] != "" {
			return seat, true
		}
	}
	return 0, false
}

// Snapshot returns the public player map keyed by connection ID
func (r *SeatRegistry) Snapshot() map[string]PlayerInfo {
	out := make(map[string]PlayerInfo, len(r.players))
	for id, p := range r.players {
		out[id] = PlayerInfo{ID: p.ConnID, Seat: p.Seat, Name: p.Name}
	}
	return out
}
