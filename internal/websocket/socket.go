package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/luciancaetano/rews"
)

var errNoSocket = errors.New(rews.ErrMsgNoSocket)

// closeGracePeriod bounds the write of the closing frame.
const closeGracePeriod = time.Second

// socketHandlers are the listeners attached to a socket. They run on the socket's
// goroutine; the machine decides whether the socket is still current.
type socketHandlers struct {
	onOpen    func()
	onClose   func()
	onMessage func(payload string)
}

// socket is one WebSocket connection attempt and, once dialed, its connection.
type socket struct {
	id           string
	url          string
	header       http.Header
	dialer       *websocket.Dialer
	writeTimeout time.Duration
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex // guards conn and serializes writes
	conn   *websocket.Conn
	closed bool
}

func newSocket(cfg *ClientConfig, logger *slog.Logger) *socket {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()
	return &socket{
		id:     id,
		url:    cfg.URL,
		header: cfg.Header,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		writeTimeout: cfg.WriteTimeout,
		logger:       logger.With("conn_id", id),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// open dials in the background and pumps events into h until the connection ends.
// A failed dial is reported as a close.
func (s *socket) open(h socketHandlers) {
	go s.run(h)
}

func (s *socket) run(h socketHandlers) {
	s.logger.Info("Dialing websocket", "url", s.url)

	conn, resp, err := s.dialer.DialContext(s.ctx, s.url, s.header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		s.logger.Warn("Websocket dial failed", "url", s.url, "error", err)
		h.onClose()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("Websocket connection established", "url", s.url)
	h.onOpen()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Websocket closed unexpectedly", "error", err)
			} else {
				s.logger.Info("Websocket closed", "error", err)
			}
			break
		}
		h.onMessage(string(data))
	}

	s.mu.Lock()
	s.conn = nil
	s.mu.Unlock()
	conn.Close()
	h.onClose()
}

// write sends payload as a single text frame.
func (s *socket) write(payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return errNoSocket
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// connected reports whether the handshake completed and the connection is still up.
func (s *socket) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// close aborts a pending dial or closes the connection with a normal closure frame.
// It is idempotent.
func (s *socket) close() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.conn == nil {
		return
	}

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	deadline := time.Now().Add(closeGracePeriod)
	if err := s.conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		s.logger.Debug("Close frame not sent", "error", err)
	}
	if err := s.conn.Close(); err != nil {
		s.logger.Debug("Failed to close websocket", "error", err)
	}
}
