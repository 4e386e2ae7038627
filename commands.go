package rews

import "errors"

// Default heartbeat payloads.
const (
	DefaultPingMsg = "ping"
	DefaultPongMsg = "pong"
)

// Standard error messages
const (
	// Misuse errors
	ErrMsgNotOpen = "operation requires the OPEN state"

	// Configuration errors
	ErrMsgInvalidConfig = "invalid config"

	// Transport errors
	ErrMsgRateLimited = "send rate limit exceeded"
	ErrMsgNoSocket    = "no socket is open"
)

var (
	// ErrNotOpen is returned by Send when the client is not in the OPEN state.
	ErrNotOpen = errors.New(ErrMsgNotOpen)

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New(ErrMsgInvalidConfig)

	// ErrRateLimited is returned by Send when no token became available before ctx was done.
	ErrRateLimited = errors.New(ErrMsgRateLimited)
)
