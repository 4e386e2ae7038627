package websocket

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/luciancaetano/rews"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

// OnMessageFn receives every inbound payload except the pong payload.
type OnMessageFn = func(payload string)

// OnStateChangeFn observes every transition of the machine.
//
// It runs while the machine is dispatching, so it may call State and Send but must
// not call Connect or Disconnect synchronously; start a goroutine for that.
type OnStateChangeFn = func(change rews.StateChange)

// ClientConfig is consumed once by NewClient.
type ClientConfig struct {
	// URL is the ws:// or wss:// endpoint. Required.
	URL string
	// PingTimeout is the idle time in OPEN before a ping is sent. Required, >= 0.
	PingTimeout time.Duration
	// PongTimeout is how long to wait for any reply to a ping. Required, >= 0.
	PongTimeout time.Duration
	// Backoff paces reconnects. Optional; default rews.DefaultBackoff.
	Backoff rews.BackoffFunc
	// RandSeed fixes the backoff jitter seed, in [0,1). Optional; default random per client.
	RandSeed *float64
	// PingMsg and PongMsg are the heartbeat payloads. Optional; default "ping"/"pong".
	PingMsg string
	PongMsg string
	// OnMessage is called for every inbound non-pong payload. Required.
	OnMessage OnMessageFn
	// OnStateChange observes transitions. Optional.
	OnStateChange OnStateChangeFn
	// Header is sent with the opening handshake. Optional.
	Header http.Header
	// HandshakeTimeout bounds the opening handshake. Optional; default 10s.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds every frame write. Optional; default 10s.
	WriteTimeout time.Duration
	// SendRateLimit throttles Send. Optional; default nil (unlimited).
	SendRateLimit *RateLimitConfig
	// Logger receives lifecycle logs. Optional; default text handler on stderr.
	Logger *slog.Logger
}

// RateLimitConfig defines the outbound token bucket applied to Send
type RateLimitConfig struct {
	// MessagesPerSecond defines how many messages can be sent per second
	MessagesPerSecond rate.Limit
	// Burst defines the maximum burst size (token bucket capacity)
	Burst int
	// Enabled determines if rate limiting is active
	Enabled bool
}

// DefaultRateLimitConfig returns the default rate limit configuration
// Allows 100 messages per second with burst of 200
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MessagesPerSecond: 100,
		Burst:             200,
		Enabled:           true,
	}
}

// NoRateLimit returns a configuration with rate limiting disabled
func NoRateLimit() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled: false,
	}
}

func (r *RateLimitConfig) limiter() *rate.Limiter {
	if r == nil || !r.Enabled {
		return nil
	}
	return rate.NewLimiter(r.MessagesPerSecond, r.Burst)
}

// Validate reports the first missing or malformed required field.
func (c *ClientConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", rews.ErrInvalidConfig)
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: url: %w", rews.ErrInvalidConfig, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: url scheme must be ws or wss, got %q", rews.ErrInvalidConfig, u.Scheme)
	}
	if c.PingTimeout < 0 {
		return fmt.Errorf("%w: ping timeout must not be negative", rews.ErrInvalidConfig)
	}
	if c.PongTimeout < 0 {
		return fmt.Errorf("%w: pong timeout must not be negative", rews.ErrInvalidConfig)
	}
	if c.OnMessage == nil {
		return fmt.Errorf("%w: onMessage is required", rews.ErrInvalidConfig)
	}
	if c.RandSeed != nil && (*c.RandSeed < 0 || *c.RandSeed >= 1) {
		return fmt.Errorf("%w: rand seed must be in [0,1), got %v", rews.ErrInvalidConfig, *c.RandSeed)
	}
	if c.SendRateLimit != nil && c.SendRateLimit.Enabled && c.SendRateLimit.Burst <= 0 {
		return fmt.Errorf("%w: send rate limit burst must be positive", rews.ErrInvalidConfig)
	}
	return nil
}

// withDefaults returns a copy of c with every optional field filled in.
func (c ClientConfig) withDefaults() ClientConfig {
	if c.Backoff == nil {
		c.Backoff = rews.DefaultBackoff
	}
	if c.PingMsg == "" {
		c.PingMsg = rews.DefaultPingMsg
	}
	if c.PongMsg == "" {
		c.PongMsg = rews.DefaultPongMsg
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return c
}
