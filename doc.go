// Package rews provides a resilient WebSocket client that keeps one logical connection
// alive over an unreliable transport.
//
// Dead connections are detected with an application-level heartbeat and re-established
// automatically with backoff. The client never gives up on its own: reconnection
// continues until Disconnect is called.
//
// # Architecture
//
// The connection lifecycle is an explicit finite-state machine. A pure transition
// function maps an action (socket opened, timer fired, message received, ...) and the
// current State to the next State plus an ordered list of effects. An interpreter
// executes those effects against a real socket and real timers; socket events and
// timer fires come back in as new actions.
//
//	INITIAL --CONNECT--> CONNECTING --OPEN--> OPEN --CLOSE--> CLOSED --RECONNECT--> RECONNECTING
//	                          ^                                                         |
//	                          +-------------------------CONNECT-------------------------+
//
// # Quick Start
//
//	import (
//	    "github.com/luciancaetano/rews/ws"
//	)
//
//	cfg := ws.NewConfig("wss://example.com/feed", 10*time.Second, 5*time.Second, func(payload string) {
//	    log.Printf("received: %s", payload)
//	})
//	client, err := ws.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.Connect()
//	defer client.Disconnect()
//
// # Heartbeat
//
// After PingTimeout without inbound traffic the client sends the ping payload (default
// "ping") as a text frame. Any inbound message counts as a liveness signal and resets
// the ping schedule. If nothing arrives within PongTimeout the connection is treated as
// dead. Messages equal to the pong payload (default "pong") are not forwarded to
// OnMessage.
//
// # Backoff
//
// Reconnect attempt n waits min(30s, n²·1s) plus up to 2s of jitter. The jitter seed is
// drawn once per client so that many clients restarted together spread out. The attempt
// counter resets on every successful open and is visible as
// State().Context.ReconnectAttempt; callers that want a retry ceiling inspect it from
// OnStateChange and call Disconnect.
//
// # Errors
//
//   - Send outside the OPEN state returns ErrNotOpen
//   - Socket closes and heartbeat timeouts are not errors; they show up only as state changes
//   - Invalid configuration is rejected by ws.New with ErrInvalidConfig
//
// # Important
//
//   - OnStateChange runs while the machine is dispatching; do not call Connect or
//     Disconnect from it synchronously
//   - OnMessage runs on the socket's read goroutine
//   - Disconnect removes the OnStateChange observer
package rews
