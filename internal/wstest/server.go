// Package wstest provides an in-process WebSocket peer for exercising the client
// against a real socket.
package wstest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Mode selects how the server answers inbound messages.
type Mode int32

const (
	// ModePong answers every inbound message with the configured pong payload.
	ModePong Mode = iota
	// ModeSilent never answers.
	ModeSilent
	// ModeEcho sends every inbound message back unchanged.
	ModeEcho
)

const readTimeout = 60 * time.Second

// OnConnectFn is called after the handshake and before the read loop starts.
type OnConnectFn = func(conn *Conn)

// Config configures a Server.
type Config struct {
	Mode Mode
	// PongMsg is sent in ModePong. Default "pong".
	PongMsg   string
	OnConnect OnConnectFn
}

// Conn is one accepted server-side connection.
type Conn struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes payload as a text frame.
func (c *Conn) Send(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(payload))
}

// Server is an httptest-backed WebSocket server listening on /ws.
type Server struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	pongMsg  string
	mode     atomic.Int32
	accepted atomic.Int32

	onConnect OnConnectFn

	mu       sync.Mutex
	conns    map[string]*Conn
	received []string
}

// NewServer starts a server. Call Close when done.
func NewServer(cfg Config) *Server {
	if cfg.PongMsg == "" {
		cfg.PongMsg = "pong"
	}
	s := &Server{
		pongMsg:   cfg.PongMsg,
		onConnect: cfg.OnConnect,
		conns:     make(map[string]*Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.mode.Store(int32(cfg.Mode))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.server = httptest.NewServer(mux)
	return s
}

// URL returns the ws:// address of the /ws endpoint.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

// SetMode changes how subsequent messages are answered.
func (s *Server) SetMode(m Mode) {
	s.mode.Store(int32(m))
}

// Accepted returns how many connections completed the handshake.
func (s *Server) Accepted() int {
	return int(s.accepted.Load())
}

// Received returns a copy of every message received so far, across connections.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// Connections returns the number of currently open connections.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// DropAll closes every open connection without a close handshake.
func (s *Server) DropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.conn.Close()
	}
}

// Close drops every connection and stops the server.
func (s *Server) Close() {
	s.DropAll()
	s.server.Close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &Conn{id: uuid.New().String(), conn: conn}
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
	s.accepted.Add(1)

	go s.handleConn(c)
}

func (s *Server) handleConn(c *Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, c.id)
		s.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readTimeout))

	if s.onConnect != nil {
		s.onConnect(c)
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		s.mu.Lock()
		s.received = append(s.received, string(data))
		s.mu.Unlock()

		switch Mode(s.mode.Load()) {
		case ModePong:
			c.Send(s.pongMsg)
		case ModeEcho:
			c.Send(string(data))
		}
	}
}
