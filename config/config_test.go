package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"IMGCHAN_CACHE_DIR", "IMGCHAN_HTTP_TIMEOUT", "IMGCHAN_S3_BUCKET", "IMGCHAN_ADDR", "PGHOST", "PGPORT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheDir(), cfg.CacheDir)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.S3Bucket)
	assert.False(t, cfg.Postgres.Enabled())
	assert.Equal(t, "5432", cfg.Postgres.Port)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("IMGCHAN_CACHE_DIR", "/var/cache/imgchan")
	t.Setenv("IMGCHAN_HTTP_TIMEOUT", "5s")
	t.Setenv("IMGCHAN_S3_BUCKET", "try-imager")
	t.Setenv("PGHOST", "db")
	t.Setenv("PGPORT", "5433")
	t.Setenv("PGUSER", "u")
	t.Setenv("PGPASSWORD", "p")
	t.Setenv("PGDBNAME", "imgchan")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/imgchan", cfg.CacheDir)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "try-imager", cfg.S3Bucket)
	assert.True(t, cfg.Postgres.Enabled())
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=imgchan sslmode=disable", cfg.Postgres.DSN())
}

func TestFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("IMGCHAN_HTTP_TIMEOUT", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}
