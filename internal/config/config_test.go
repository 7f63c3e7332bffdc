package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPositionalArgsOverride(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendHBase)
	t.Setenv("HBASE_URL", "http://from-env:8070")

	cfg, err := Load([]string{"4000", "ec2-host.example.com:8070"})
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.HTTPAddress())
	u, err := cfg.HBaseEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "ec2-host.example.com", u.Hostname())
	assert.Equal(t, "8070", u.Port())
	assert.Equal(t, "/", u.Path)
}

func TestLoadFromYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := []byte(`
http:
  port: "8081"
store:
  backend: hbase
  hbaseUrl: https://hbase.internal:8443/rest
  locationsTable: lots
feed:
  totalSpots: 40
`)
	require.NoError(t, os.WriteFile(path, yamlDoc, 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("AVAILABILITY_TABLE", "lots_stats")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "lots", cfg.Store.LocationsTable)
	assert.Equal(t, "lots_stats", cfg.Store.AvailabilityTable)
	assert.Equal(t, 40, cfg.Feed.TotalSpots)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	u, err := cfg.HBaseEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "/rest", u.Path)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendPostgres
	assert.Error(t, cfg.Validate())

	cfg.Store.DatabaseURL = "postgres://localhost/parking?sslmode=disable"
	assert.NoError(t, cfg.Validate())

	cfg.Admin.JWTSecret = "secret"
	assert.Error(t, cfg.Validate())

	cfg.Store.Backend = "cassandra"
	assert.Error(t, cfg.Validate())
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Hour, cfg.JWTExpiration())
	assert.Equal(t, 5*time.Second, cfg.FeedRetryDelay())

	cfg.Admin.JWTExpiresMinutes = 0
	assert.Equal(t, time.Hour, cfg.JWTExpiration())
}

func TestLoadIntoRejectsNonPointer(t *testing.T) {
	assert.Error(t, LoadInto(Config{}))
	assert.Error(t, LoadInto(nil))
}
