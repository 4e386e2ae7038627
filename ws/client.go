package ws

import (
	"time"

	"github.com/luciancaetano/rews"
	"github.com/luciancaetano/rews/internal/websocket"
)

type Config = websocket.ClientConfig
type RateLimitConfig = websocket.RateLimitConfig
type OnMessageFn = websocket.OnMessageFn
type OnStateChangeFn = websocket.OnStateChangeFn

// New creates a resilient WebSocket client from cfg.
//
// The configuration is validated and copied; later changes to cfg have no effect.
// Invalid configurations return an error wrapping rews.ErrInvalidConfig. The returned
// client is in the INITIAL state until Connect is called.
//
// Example:
//
//	cfg := ws.NewConfig("wss://example.com/feed", 10*time.Second, 5*time.Second, func(payload string) {
//	    log.Printf("received: %s", payload)
//	})
//	cfg.OnStateChange = func(change rews.StateChange) {
//	    log.Printf("%s -> %s", change.Previous.Tag, change.Current.Tag)
//	}
//	client, err := ws.New(cfg)
func New(cfg *Config) (rews.Client, error) {
	client, err := websocket.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewConfig returns a Config with the required fields set and every optional field
// left at its default.
func NewConfig(url string, pingTimeout, pongTimeout time.Duration, onMessage OnMessageFn) *Config {
	return &Config{
		URL:         url,
		PingTimeout: pingTimeout,
		PongTimeout: pongTimeout,
		OnMessage:   onMessage,
	}
}

// Seed returns a pointer to seed for Config.RandSeed.
func Seed(seed float64) *float64 {
	return &seed
}

// DefaultRateLimitConfig returns the default send rate limit configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return websocket.DefaultRateLimitConfig()
}

// NoRateLimit returns a configuration with send rate limiting disabled
func NoRateLimit() *RateLimitConfig {
	return websocket.NoRateLimit()
}
