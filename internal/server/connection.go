package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/feltworks/feltd/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

var connSeq atomic.Uint64

// Connection represents a WebSocket connection to a client. Its ID is the
// connection identity the seat registry tracks.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	table     *game.Table
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps an upgraded WebSocket connection
func NewConnection(conn *websocket.Conn, logger *log.Logger, table *game.Table) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := fmt.Sprintf("conn-%d", connSeq.Add(1))

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, 256),
		table:  table,
		logger: logger.WithPrefix("conn").With("conn", id),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection identity
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for delivery to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Send channel closed during shutdown
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes an inbound request. Stage and turn validation lives
// in the table; the transport only parses.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeJoinGame:
		c.handleJoinGame()

	case MessageTypeStartGame:
		c.table.StartHand()

	case MessageTypePlayerAction:
		var data PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse player action")
			return
		}
		c.handlePlayerAction(data)

	default:
		c.sendError("Unknown message type: " + msg.Type.String())
	}
}

func (c *Connection) handleJoinGame() {
	if _, err := c.table.Join(c.id); err != nil {
		if errors.Is(err, game.ErrRoomFull) {
			c.logger.Info("join rejected, room full")
			c.sendError("Room is full")
			return
		}
		c.logger.Error("join failed", "error", err)
		c.sendError("Failed to join")
		return
	}
	// The table sends init_state privately and broadcasts player_joined.
}

func (c *Connection) handlePlayerAction(data PlayerActionData) {
	action, err := game.ParseAction(data.Type)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.table.HandleAction(c.id, action, data.Seat, data.Amount)
}

// sendError sends an addressed error message to this client
func (c *Connection) sendError(message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}
