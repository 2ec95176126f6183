package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/feltworks/feltd/internal/game"
)

// Server accepts WebSocket connections and bridges them to the table: inbound
// requests become table commands, table events become outbound messages. It
// implements game.Subscriber for the fan-out side.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	table       *game.Table
	httpServer  *http.Server
}

// NewServer creates a WebSocket server bound to a table
func NewServer(addr string, logger *log.Logger, table *game.Table) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The table trusts whoever can reach it; origin checking is a
				// deployment concern.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		table:       table,
	}
}

// Start starts the WebSocket server and blocks until it stops
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("starting websocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the server and closes all connections
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "conn", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// Implicit seat release; the table decides what the departure
				// means for a hand in flight.
				s.table.Leave(conn.ID())
				s.logger.Info("client disconnected", "conn", conn.ID(), "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.table)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// OnBroadcast implements game.Subscriber: fan a table event out to every
// connected session.
func (s *Server) OnBroadcast(ev game.Event) {
	msg, err := NewEventMessage(ev)
	if err != nil {
		s.logger.Error("failed to encode event", "type", ev.EventType(), "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("failed to send event", "conn", conn.ID(), "error", err)
		}
	}

	s.logger.Debug("broadcast event", "type", ev.EventType(), "recipients", len(s.connections))
}

// OnAddressed implements game.Subscriber: deliver a seat-scoped event to its
// owning connection only.
func (s *Server) OnAddressed(connID string, ev game.Event) {
	msg, err := NewEventMessage(ev)
	if err != nil {
		s.logger.Error("failed to encode event", "type", ev.EventType(), "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.ID() == connID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("failed to send event", "conn", connID, "error", err)
			}
			return
		}
	}

	s.logger.Debug("addressed event for unknown connection", "type", ev.EventType(), "conn", connID)
}
