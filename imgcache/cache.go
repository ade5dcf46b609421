// Package imgcache keeps downloaded images on disk, keyed by their URL.
//
// Entries never expire. A URL is fetched again only when its file is removed
// or when the caller bypasses the cache.
package imgcache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/imgchan/model"
	"github.com/imgchan/web/downloader"
)

const (
	defaultDirMode  = 0o755
	defaultFileMode = 0o644
)

// Cache implements the remote image cache.
type Cache struct {
	dir        string
	downloader downloader.Service
	log        zerolog.Logger
	dirMode    os.FileMode
	fileMode   os.FileMode
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// WithDirMode sets the permissions of the cache directory.
func WithDirMode(mode os.FileMode) Option {
	return func(c *Cache) {
		c.dirMode = mode
	}
}

// WithFileMode sets the permissions of cache entries.
func WithFileMode(mode os.FileMode) Option {
	return func(c *Cache) {
		c.fileMode = mode
	}
}

// New creates a cache rooted at dir. The directory is created on the first
// store, not here.
func New(dir string, d downloader.Service, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if d == nil {
		return nil, errors.New("downloader is nil")
	}
	c := &Cache{
		dir:        dir,
		downloader: d,
		log:        zerolog.Nop(),
		dirMode:    defaultDirMode,
		fileMode:   defaultFileMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the location of the cache entry for u.
func (c *Cache) Path(u *url.URL) string {
	return filepath.Join(c.dir, CacheFilename(u))
}

// Fetch returns the bytes behind u. With useCache it serves a stored entry
// when there is one and stores fresh downloads; a failed store is reported
// in Payload.Warnings and does not fail the call. Without useCache the cache
// directory is never touched.
func (c *Cache) Fetch(ctx context.Context, u *url.URL, useCache bool) (*model.Payload, error) {
	href := Href(u)
	path := c.Path(u)

	if useCache {
		if data, ok := c.lookup(path); ok {
			c.log.Info().Str("url", href).Msg("Image Downloaded (cache)")
			return &model.Payload{Data: data, Origin: model.OriginCache}, nil
		}
	}

	data, err := c.downloader.Download(ctx, href)
	if err != nil {
		c.log.Error().Err(err).Str("url", href).Msg("Failed to download image")
		return nil, &model.DownloadError{URL: href, Err: err}
	}
	c.log.Info().Str("url", href).Msg("Image Downloaded")

	payload := &model.Payload{Data: data, Origin: model.OriginNetwork}
	if useCache {
		if err := c.store(path, data); err != nil {
			c.log.Warn().Err(err).Str("url", href).Str("path", path).Msg("Unable to cache image")
			payload.Warnings = append(payload.Warnings, fmt.Errorf("caching %s: %w", href, err))
		}
	}
	return payload, nil
}

func (c *Cache) lookup(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the URL hash
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) store(path string, data []byte) error {
	// MkdirAll succeeds when another writer created the directory first.
	if err := os.MkdirAll(c.dir, c.dirMode); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".imgcache-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Chmod(tmpPath, c.fileMode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set cache file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}
