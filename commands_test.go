package rews_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luciancaetano/rews"
)

func TestConstants(t *testing.T) {
	t.Parallel()

	t.Run("heartbeat payloads", func(t *testing.T) {
		assert.Equal(t, "ping", rews.DefaultPingMsg)
		assert.Equal(t, "pong", rews.DefaultPongMsg)
	})

	t.Run("error messages", func(t *testing.T) {
		errorMessages := []struct {
			name  string
			value string
		}{
			{"ErrMsgNotOpen", rews.ErrMsgNotOpen},
			{"ErrMsgInvalidConfig", rews.ErrMsgInvalidConfig},
			{"ErrMsgRateLimited", rews.ErrMsgRateLimited},
			{"ErrMsgNoSocket", rews.ErrMsgNoSocket},
		}

		for _, em := range errorMessages {
			t.Run(em.name, func(t *testing.T) {
				assert.NotEmpty(t, em.value)
			})
		}
	})

	t.Run("sentinel errors are distinct", func(t *testing.T) {
		assert.False(t, errors.Is(rews.ErrNotOpen, rews.ErrInvalidConfig))
		assert.False(t, errors.Is(rews.ErrRateLimited, rews.ErrNotOpen))
		assert.Contains(t, rews.ErrNotOpen.Error(), "OPEN")
	})
}

func TestBackoffReexports(t *testing.T) {
	t.Parallel()

	assert.Zero(t, rews.DefaultBackoff(0, 0.7))
	assert.InDelta(t, 1000.0, rews.DefaultBackoff(1, 0), 1e-9)
	assert.InDelta(t, 30000.0, rews.DefaultBackoff(6, 0), 1e-9)
	assert.InDelta(t, 37000.0, rews.CalcBackoff(6, 0.5, 60000), 1e-9)
	assert.Equal(t, "OPEN", rews.StateOpen.String())
}
