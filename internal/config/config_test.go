package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.Development())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "chatdb", cfg.Mongo.Database)
	assert.Equal(t, 15*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.OperationTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.MetricsEnabled())
	assert.Equal(t, "chatdb_init", cfg.Metrics.Job)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "chatdb", cfg.Mongo.Database)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
mongodb:
  uri: mongodb://mongo:27017
  database: chatdb_staging
  connect_timeout_seconds: 3
  operation_timeout_seconds: 4
log:
  level: debug
metrics:
  pushgateway_url: http://pushgateway:9091
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Development())
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "chatdb_staging", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 4*time.Second, cfg.OperationTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.MetricsEnabled())
	assert.Equal(t, "chatdb_init", cfg.Metrics.Job)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
mongodb:
  uri: mongodb://from-file:27017
  database: from_file
`)

	tests := []struct {
		name   string
		env    map[string]string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "MONGODB_URI wins over file",
			env:  map[string]string{"MONGODB_URI": "mongodb://from-env:27017"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mongodb://from-env:27017", cfg.Mongo.URI)
				assert.Equal(t, "from_file", cfg.Mongo.Database)
			},
		},
		{
			name: "legacy MONGO_URI and MONGO_DB",
			env:  map[string]string{"MONGO_URI": "mongodb://legacy:27017", "MONGO_DB": "legacy_db"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mongodb://legacy:27017", cfg.Mongo.URI)
				assert.Equal(t, "legacy_db", cfg.Mongo.Database)
			},
		},
		{
			name: "nested keys map to underscored names",
			env: map[string]string{
				"APP_ENV":                           "production",
				"LOG_LEVEL":                         "warn",
				"MONGODB_OPERATION_TIMEOUT_SECONDS": "30",
				"METRICS_PUSHGATEWAY_URL":           "http://pg:9091",
				"METRICS_JOB":                       "seed_job",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "production", cfg.App.Env)
				assert.Equal(t, "warn", cfg.Log.Level)
				assert.Equal(t, 30*time.Second, cfg.OperationTimeout)
				assert.Equal(t, "http://pg:9091", cfg.Metrics.PushgatewayURL)
				assert.Equal(t, "seed_job", cfg.Metrics.Job)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(path)
			require.NoError(t, err)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty database", "mongodb:\n  database: \"\"\n"},
		{"zero connect timeout", "mongodb:\n  connect_timeout_seconds: 0\n"},
		{"negative operation timeout", "mongodb:\n  operation_timeout_seconds: -1\n"},
		{"metrics without job", "metrics:\n  pushgateway_url: http://pg:9091\n  job: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "mongodb: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
