// Package config reads the runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultAddr        = ":8080"
	defaultHTTPTimeout = 30 * time.Second
	cacheDirName       = ".imgcache"
)

// Config holds everything the commands need.
type Config struct {
	CacheDir    string
	HTTPTimeout time.Duration
	S3Bucket    string
	Addr        string
	Postgres    Postgres
}

// Postgres holds the lib/pq connection settings.
type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// Enabled reports whether a database host is configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// DSN returns the lib/pq connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s "+
		"password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.DBName)
}

// FromEnv reads the IMGCHAN_* and PG* variables.
func FromEnv() (Config, error) {
	cfg := Config{
		CacheDir:    os.Getenv("IMGCHAN_CACHE_DIR"),
		HTTPTimeout: defaultHTTPTimeout,
		S3Bucket:    os.Getenv("IMGCHAN_S3_BUCKET"),
		Addr:        getenv("IMGCHAN_ADDR", defaultAddr),
		Postgres: Postgres{
			Host:     os.Getenv("PGHOST"),
			Port:     getenv("PGPORT", "5432"),
			User:     os.Getenv("PGUSER"),
			Password: os.Getenv("PGPASSWORD"),
			DBName:   os.Getenv("PGDBNAME"),
		},
	}

	if v := os.Getenv("IMGCHAN_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid IMGCHAN_HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir()
	}
	return cfg, nil
}

// DefaultCacheDir is the .imgcache directory next to the running executable,
// or under the working directory when the executable can't be located.
func DefaultCacheDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), cacheDirName)
	}
	if abs, err := filepath.Abs(cacheDirName); err == nil {
		return abs
	}
	return cacheDirName
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
