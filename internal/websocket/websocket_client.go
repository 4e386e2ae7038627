package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/rews"
	"github.com/luciancaetano/rews/internal/fsm"
)

// Client implements the rews.Client interface
type Client struct {
	id          string
	machine     *Machine
	logger      *slog.Logger
	rateLimiter *rate.Limiter // Rate limiter for outgoing messages
}

// NewClient validates cfg, fills in defaults and returns a client in the INITIAL state.
// Nothing is dialed until Connect is called.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", rews.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolved := cfg.withDefaults()

	seed := rand.Float64()
	if resolved.RandSeed != nil {
		seed = *resolved.RandSeed
	}

	id := uuid.New().String()
	logger := resolved.Logger.With("client_id", id)

	return &Client{
		id:          id,
		machine:     NewMachine(&resolved, seed, logger),
		logger:      logger,
		rateLimiter: resolved.SendRateLimit.limiter(),
	}, nil
}

// ID returns a unique identifier for this client
func (c *Client) ID() string {
	return c.id
}

// Connect injects CONNECT into the machine
func (c *Client) Connect() {
	c.machine.Dispatch(fsm.ActionConnect)
}

// Send writes payload to the live socket
func (c *Client) Send(ctx context.Context, payload string) error {
	if st := c.machine.State(); st.Tag != fsm.Open {
		return fmt.Errorf("send in state %s: %w", st.Tag, rews.ErrNotOpen)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", rews.ErrRateLimited, err)
		}
		// The machine may have left OPEN while waiting for a token.
		if st := c.machine.State(); st.Tag != fsm.Open {
			return fmt.Errorf("send in state %s: %w", st.Tag, rews.ErrNotOpen)
		}
	}

	s := c.machine.socket.Load()
	if s == nil || !s.connected() {
		return fmt.Errorf("send: %w: %s", rews.ErrNotOpen, rews.ErrMsgNoSocket)
	}
	if err := s.write(payload); err != nil {
		c.logger.Warn("Send failed", "error", err)
		return err
	}
	return nil
}

// Disconnect resets the client to INITIAL and closes the socket
func (c *Client) Disconnect() {
	c.machine.Reset()
}

// State returns the current state snapshot
func (c *Client) State() rews.State {
	return c.machine.State()
}
