package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Game.MinPlayers)
	assert.Equal(t, 5*time.Second, cfg.Game.RoundDelay)
	assert.Equal(t, 5*time.Minute, cfg.Game.EmptyRoomTTL)
	assert.Equal(t, 30*time.Second, cfg.Game.SweepInterval)
	assert.False(t, cfg.Game.PlaceholderOnFailure)
	assert.Equal(t, time.Second, cfg.OpenAI.RequestDelay)
	assert.NotEmpty(t, cfg.Server.Address)
}
