package config

import (
	"testing"
	"time"

	"github.com/jason-s-yu/roshambo/internal/fees"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "FEE_PLAY", "WINNER_BONUS_BPS", "TOKEN_EXPIRE_TIME", "HISTORIAN_BATCH_SIZE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, fees.DefaultSchedule(), cfg.Fees)
	assert.Zero(t, cfg.TokenExpire)
	assert.Equal(t, 20, cfg.HistorianBatchSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("FEE_PLAY", "42")
	t.Setenv("FEE_STAKE", "")
	t.Setenv("TOKEN_EXPIRE_TIME", "72h")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "6543")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, models.Amount(42), cfg.Fees.Play)
	assert.Equal(t, fees.DefaultSchedule().Stake, cfg.Fees.Stake)
	assert.Equal(t, 72*time.Hour, cfg.TokenExpire)
	assert.Contains(t, cfg.PostgresURL(), "@db:6543/")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORE_BACKEND", "etcd")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "")
	t.Setenv("WINNER_BONUS_BPS", "20000")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("WINNER_BONUS_BPS", "")
	t.Setenv("TOKEN_EXPIRE_TIME", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFees(t *testing.T) {
	for _, key := range []string{"FEE_ROOM", "FEE_JOIN_REQUEST", "FEE_GAME", "FEE_PLAY", "FEE_STAKE", "WINNER_BONUS_BPS"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "not-a-number")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}

	t.Setenv("FEE_ROOM", "-5")
	_, err := Load()
	assert.Error(t, err)
}
