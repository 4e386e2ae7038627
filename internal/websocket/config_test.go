package websocket

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luciancaetano/rews"
)

func validConfig() ClientConfig {
	return ClientConfig{
		URL:         "ws://localhost:8080/ws",
		PingTimeout: time.Second,
		PongTimeout: time.Second,
		OnMessage:   func(string) {},
	}
}

func TestClientConfigValidate(t *testing.T) {
	t.Parallel()

	seed := 1.0
	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ClientConfig) {}},
		{name: "wss scheme", mutate: func(c *ClientConfig) { c.URL = "wss://example.com/feed" }},
		{name: "zero timeouts", mutate: func(c *ClientConfig) { c.PingTimeout, c.PongTimeout = 0, 0 }},
		{name: "missing url", mutate: func(c *ClientConfig) { c.URL = "" }, wantErr: true},
		{name: "http scheme", mutate: func(c *ClientConfig) { c.URL = "http://example.com" }, wantErr: true},
		{name: "unparsable url", mutate: func(c *ClientConfig) { c.URL = "ws://[::1" }, wantErr: true},
		{name: "negative ping", mutate: func(c *ClientConfig) { c.PingTimeout = -1 }, wantErr: true},
		{name: "negative pong", mutate: func(c *ClientConfig) { c.PongTimeout = -1 }, wantErr: true},
		{name: "missing onMessage", mutate: func(c *ClientConfig) { c.OnMessage = nil }, wantErr: true},
		{name: "seed out of range", mutate: func(c *ClientConfig) { c.RandSeed = &seed }, wantErr: true},
		{
			name: "enabled rate limit without burst",
			mutate: func(c *ClientConfig) {
				c.SendRateLimit = &RateLimitConfig{MessagesPerSecond: 10, Enabled: true}
			},
			wantErr: true,
		},
		{name: "disabled rate limit", mutate: func(c *ClientConfig) { c.SendRateLimit = NoRateLimit() }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, rews.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestClientConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig().withDefaults()

	assert.Equal(t, rews.DefaultPingMsg, cfg.PingMsg)
	assert.Equal(t, rews.DefaultPongMsg, cfg.PongMsg)
	assert.Equal(t, defaultHandshakeTimeout, cfg.HandshakeTimeout)
	assert.Equal(t, defaultWriteTimeout, cfg.WriteTimeout)
	assert.NotNil(t, cfg.Logger)
	require.NotNil(t, cfg.Backoff)
	assert.InDelta(t, 16000.0, cfg.Backoff(4, 0), 1e-9)

	custom := validConfig()
	custom.PingMsg, custom.PongMsg = "MyPing", "MyPong"
	custom = custom.withDefaults()
	assert.Equal(t, "MyPing", custom.PingMsg)
	assert.Equal(t, "MyPong", custom.PongMsg)
}

func TestRateLimiterCreation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *RateLimitConfig
		wantNil bool
	}{
		{name: "with rate limiting enabled", config: DefaultRateLimitConfig(), wantNil: false},
		{name: "with rate limiting disabled", config: NoRateLimit(), wantNil: true},
		{name: "with nil config", config: nil, wantNil: true},
		{
			name:    "with custom config enabled",
			config:  &RateLimitConfig{MessagesPerSecond: 10, Burst: 20, Enabled: true},
			wantNil: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limiter := tt.config.limiter()
			assert.Equal(t, tt.wantNil, limiter == nil)
			if limiter != nil {
				assert.True(t, limiter.Allow(), "first request should be allowed")
			}
		})
	}
}
