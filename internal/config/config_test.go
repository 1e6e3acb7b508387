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

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "./uploads", cfg.Storage.LocalDir)
	assert.Equal(t, 5*time.Second, cfg.Training.StartDelay)
	assert.Equal(t, 30*time.Second, cfg.Training.RunDuration)
	assert.InDelta(t, 0.9, cfg.Training.SuccessRate, 1e-9)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TRAINING_START_DELAY", "100ms")
	t.Setenv("TRAINING_RUN_DURATION", "2s")
	t.Setenv("TRAINING_SUCCESS_RATE", "0.5")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("STORAGE_S3_BUCKET", "trainbench")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 100*time.Millisecond, cfg.Training.StartDelay)
	assert.Equal(t, 2*time.Second, cfg.Training.RunDuration)
	assert.InDelta(t, 0.5, cfg.Training.SuccessRate, 1e-9)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "trainbench", cfg.Storage.S3Bucket)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("non-numeric port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "eighty")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("success rate out of range", func(t *testing.T) {
		t.Setenv("TRAINING_SUCCESS_RATE", "1.5")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TRAINING_RUN_DURATION", "30")
		_, err := Load()
		assert.Error(t, err)
	})
}
