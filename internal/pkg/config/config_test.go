package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"PORT":         "8080",
		"ENV":          "production",
		"TOKEN_TTL":    "1h",
		"STORE_DRIVER": "mongo",
		"MONGO_DB":     "bazaar_test",
		"REDIS_ADDR":   "localhost:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "bazaar_test", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"STORE_DRIVER": "sqlite",
	}))
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestPrettyLogs(t *testing.T) {
	cases := []struct {
		env    string
		pretty string
		want   bool
	}{
		{"development", "true", true},
		{"development", "false", false},
		{"production", "true", false},
	}

	for _, tc := range cases {
		t.Run(tc.env+"/"+tc.pretty, func(t *testing.T) {
			cfg, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
				"JWT_SECRET": "s3cret",
				"ENV":        tc.env,
				"LOG_PRETTY": tc.pretty,
			}))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.PrettyLogs())
		})
	}
}
