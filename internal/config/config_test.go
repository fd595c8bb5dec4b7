package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".app.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "50051", cfg.Server.GRPCPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/counter.json", cfg.Store.Path)
	assert.Equal(t, 30*time.Second, cfg.Store.ProbeInterval)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNewConfig_FileAndEnvPrecedence(t *testing.T) {
	path := writeEnvFile(t, `HTTP_PORT=9000
STORE_PATH=/var/lib/tally/counter.json
STORE_PROBE_INTERVAL=1m
CORS_ALLOWED_ORIGINS=https://a.example, https://b.example
LOG_LEVEL=debug
`)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "/var/lib/tally/counter.json", cfg.Store.Path)
	assert.Equal(t, time.Minute, cfg.Store.ProbeInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestNewConfig_PostgresBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_USER", "tally")
	t.Setenv("DATABASE_PASSWORD", "p@ss")
	t.Setenv("DATABASE_NAME", "tally")

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "host=db port=5432 user=tally password=p@ss dbname=tally sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, "postgres://tally:p%40ss@db:5432/tally?sslmode=disable", cfg.Database.GetURL())
}

func TestNewConfig_IncompleteBackends(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := NewConfig("")
		assert.ErrorContains(t, err, "database configuration is incomplete")
	})

	t.Run("s3", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "s3")
		t.Setenv("S3_ACCESS_KEY_ID", "key")
		_, err := NewConfig("")
		assert.ErrorContains(t, err, "s3 configuration is incomplete")
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "redis")
		_, err := NewConfig("")
		assert.ErrorContains(t, err, "unknown store backend")
	})
}

func TestNewConfig_S3Backend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "s3")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET", "tally")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "tally", cfg.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, "tallykeeper", cfg.S3.Prefix)
}

func TestNewConfig_InvalidDurations(t *testing.T) {
	t.Setenv("STORE_PROBE_INTERVAL", "0s")
	_, err := NewConfig("")
	assert.ErrorContains(t, err, "probe interval")
}
