package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.App.DataDir)
	assert.Equal(t, "data/processed", cfg.App.ProcessedDir)
	assert.Equal(t, "nse_equity", cfg.App.Session)
	assert.Equal(t, 0.2, cfg.Train.TestFraction)
	assert.Equal(t, 3, cfg.Train.CVFolds)
	assert.Equal(t, uint64(42), cfg.Train.Seed)
	assert.Equal(t, []int{50}, cfg.Train.NEstimators)
	assert.Equal(t, "stock_predictor_v", cfg.Train.ModelNamePrefix)
	assert.Equal(t, 24*time.Hour, cfg.FeatureStore.OnlineTTL)
	assert.False(t, cfg.EventKafka.Enabled)
	assert.Equal(t, 8812, cfg.QuestDB.Port)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_DATA_DIR", "/srv/raw")
	t.Setenv("TRAIN_MAX_DEPTH", "5,10,20")
	t.Setenv("TRAIN_REGISTER_MODEL", "false")
	t.Setenv("FEATURE_STORE_ONLINE_TTL", "90m")
	t.Setenv("EVENT_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/raw", cfg.App.DataDir)
	assert.Equal(t, []int{5, 10, 20}, cfg.Train.MaxDepth)
	assert.False(t, cfg.Train.RegisterModel)
	assert.Equal(t, 90*time.Minute, cfg.FeatureStore.OnlineTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.EventKafka.Brokers)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TRAIN_CV_FOLDS", "three")

	_, err := Load()
	assert.Error(t, err)
}
