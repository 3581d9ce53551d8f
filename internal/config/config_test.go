package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetmesh/dispatch/internal/config"
)

func TestFromEnv(t *testing.T) {
	t.Run("requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := config.FromEnv()
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/dispatch")

		cfg, err := config.FromEnv()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 10*time.Minute, cfg.DefaultTaskTimeout)
		assert.Equal(t, 5*time.Second, cfg.AsyncBroadcastFloor)
		assert.Equal(t, 100, cfg.SweepBatchSize)
		assert.Equal(t, 50000, cfg.CriticalTaskLimit)
		assert.Equal(t, 30*time.Minute, cfg.ProofTTL)
		assert.Equal(t, 5*time.Minute, cfg.OfflineGrace)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/dispatch")
		t.Setenv("PORT", "9090")
		t.Setenv("DEFAULT_TASK_TIMEOUT_SECONDS", "60")
		t.Setenv("OPTIONAL_TASK_LIMIT", "42")

		cfg, err := config.FromEnv()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, time.Minute, cfg.DefaultTaskTimeout)
		assert.Equal(t, 42, cfg.OptionalTaskLimit)
	})

	t.Run("invalid numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/dispatch")
		t.Setenv("SWEEP_BATCH_SIZE", "not-a-number")
		t.Setenv("DEFAULT_TASK_TIMEOUT_SECONDS", "-5")

		cfg, err := config.FromEnv()
		require.NoError(t, err)

		assert.Equal(t, 100, cfg.SweepBatchSize)
		assert.Equal(t, 10*time.Minute, cfg.DefaultTaskTimeout)
	})
}
