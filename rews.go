package rews

import (
	"context"

	"github.com/luciancaetano/rews/internal/fsm"
)

// State is a read-only snapshot of the connection lifecycle: a tag plus the Context
// carried by every state.
type State = fsm.State

// StateTag identifies the active lifecycle state.
type StateTag = fsm.StateTag

// Context is the per-machine data carried by every State, including ReconnectAttempt.
type Context = fsm.Context

// BackoffFunc returns the reconnect delay in milliseconds for an attempt number and
// the machine's random seed in [0,1).
type BackoffFunc = fsm.BackoffFunc

const (
	StateInitial      = fsm.Initial
	StateConnecting   = fsm.Connecting
	StateOpen         = fsm.Open
	StateClosed       = fsm.Closed
	StateReconnecting = fsm.Reconnecting
)

// DefaultMaxBackoffMillis is the cap DefaultBackoff applies before jitter.
const DefaultMaxBackoffMillis = fsm.DefaultMaxBackoffMillis

// CalcBackoff returns 0 for attempt 0 and min(maxMillis, attempt²·1000) + 2000·randSeed otherwise.
func CalcBackoff(attempt int, randSeed, maxMillis float64) float64 {
	return fsm.CalcBackoff(attempt, randSeed, maxMillis)
}

// DefaultBackoff is CalcBackoff capped at DefaultMaxBackoffMillis.
func DefaultBackoff(attempt int, randSeed float64) float64 {
	return fsm.DefaultBackoff(attempt, randSeed)
}

// StateChange is delivered to the state observer after every transition, including
// transitions that keep the same tag.
type StateChange struct {
	Previous State
	Current  State
}

// Client is a WebSocket client that keeps a single logical connection alive.
//
// Dead connections are detected with an application-level ping/pong exchange and
// re-established with backoff until Disconnect is called.
//
// Example usage:
//
//	import "github.com/luciancaetano/rews/ws"
//
//	client, err := ws.New(ws.NewConfig("wss://example.com/feed", 10*time.Second, 5*time.Second,
//	    func(payload string) {
//	        log.Printf("received %s", payload)
//	    }))
//	if err != nil {
//	    return err
//	}
//	client.Connect()
//	defer client.Disconnect()
type Client interface {
	// ID returns the unique identifier of this client instance.
	ID() string

	// Connect starts connecting. It is safe to call repeatedly; calls made while
	// the client is already connecting or open have no effect.
	Connect()

	// Send writes payload as a text frame on the live socket.
	//
	// Returns ErrNotOpen unless the client is in the OPEN state. When a send rate
	// limit is configured, Send waits for a token until ctx is done.
	//
	// Example:
	//
	//	if err := client.Send(ctx, `{"op":"subscribe"}`); errors.Is(err, rews.ErrNotOpen) {
	//	    // retry after the next OPEN state change
	//	}
	Send(ctx context.Context, payload string) error

	// Disconnect stops the client: the state observer is removed, every timer is
	// cancelled, the state is forced back to INITIAL with ReconnectAttempt 0 and the
	// socket is closed. It is safe to call from any state and more than once.
	Disconnect()

	// State returns the current state snapshot.
	State() State
}
