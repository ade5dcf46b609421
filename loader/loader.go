// Package loader resolves an image reference to its bytes and writes images
// back to disk.
package loader

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/imgchan/model"
)

// Fetcher fetches remote images. It is implemented by *imgcache.Cache.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL, useCache bool) (*model.Payload, error)
}

// Options tune a single Load call.
type Options struct {
	// DisableCache skips the cache lookup and store for remote references.
	DisableCache bool
}

// Loader dispatches references to the local filesystem or to a Fetcher.
type Loader struct {
	fetcher Fetcher
	log     zerolog.Logger
}

// New returns a Loader using f for remote references.
func New(f Fetcher, log zerolog.Logger) *Loader {
	return &Loader{fetcher: f, log: log}
}

// LoadString parses s with model.ParseReference and loads it.
func (l *Loader) LoadString(ctx context.Context, s string, opts Options) (*model.Payload, error) {
	return l.Load(ctx, model.ParseReference(s), opts)
}

// Load returns the bytes behind ref. Local read failures are returned as
// *model.LoadError, download failures as *model.DownloadError.
func (l *Loader) Load(ctx context.Context, ref model.Reference, opts Options) (*model.Payload, error) {
	if ref.IsRemote() {
		if l.fetcher == nil {
			return nil, &model.DownloadError{URL: ref.String(), Err: errors.New("no fetcher configured")}
		}
		return l.fetcher.Fetch(ctx, ref.URL(), !opts.DisableCache)
	}

	path := ref.Path()
	if err := ctx.Err(); err != nil {
		return nil, &model.LoadError{Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		l.log.Error().Err(err).Str("path", path).Msg("Failed to load image")
		return nil, &model.LoadError{Path: path, Err: err}
	}
	l.log.Info().Str("path", path).Msg("Image Loaded")
	return &model.Payload{Data: data, Origin: model.OriginLocal}, nil
}

// Save writes data to path, creating the parent directory when needed.
func (l *Loader) Save(path string, data []byte) error {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return &model.SaveError{Path: path, Err: err}
	}

	l.log.Info().
		Str("path", resolved).
		Float64("kb", float64(len(data))/1000).
		Msg("Saving image...")

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		l.log.Error().Err(err).Str("path", resolved).Msg("Failed to save image")
		return &model.SaveError{Path: resolved, Err: err}
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		l.log.Error().Err(err).Str("path", resolved).Msg("Failed to save image")
		return &model.SaveError{Path: resolved, Err: err}
	}
	l.log.Info().Str("path", resolved).Msg("Image saved")
	return nil
}
