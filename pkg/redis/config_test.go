package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{name: "default is valid"},
		{name: "no address", mutate: func(c *Config) { c.Addrs = nil }, field: "addrs"},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "sentinel" }, field: "mode"},
		{name: "zero timeout", mutate: func(c *Config) { c.ConnectTimeout = 0 }, field: "connect_timeout"},
		{name: "zero pool", mutate: func(c *Config) { c.PoolSize = 0 }, field: "pool_size"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, field: "max_retries"},
		{name: "negative backoff", mutate: func(c *Config) { c.MaxRetryBackoff = -time.Second }, field: "max_retry_backoff"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tc.mutate != nil {
				tc.mutate(cfg)
			}

			err := cfg.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			details, ok := err.(*errors.ErrorDetails)
			if assert.True(t, ok) {
				assert.Equal(t, string(errors.RedisConfigError), details.Code)
				assert.Equal(t, tc.field, details.Field)
			}
		})
	}
}

func TestConfig_ValidateNil(t *testing.T) {
	var cfg *Config
	assert.True(t, errors.ErrorCodeEquals(cfg.Validate(), string(errors.RedisConfigError)))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "stock-predictor:stock_features:stock_features_v0:AARTIIND", Key("stock-predictor:", "stock_features", "stock_features_v0", "AARTIIND"))
	assert.Equal(t, "models", Key("", "models"))
}

func TestClient_ConnectInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addrs = nil

	err := NewClient(nil, cfg).Connect(t.Context())
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConfigError)))
}
