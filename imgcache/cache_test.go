package imgcache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_downloader "github.com/imgchan/mock/downloader"
	"github.com/imgchan/model"
	"github.com/imgchan/web/downloader"
)

type countingServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newCountingServer(t *testing.T, body []byte) *countingServer {
	t.Helper()
	s := &countingServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestCache(t *testing.T, dir string, s *countingServer) *Cache {
	t.Helper()
	c, err := New(dir, downloader.New(s.Client()))
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	_, err := New("", downloader.New(nil))
	assert.Error(t, err)

	_, err = New(t.TempDir(), nil)
	assert.Error(t, err)

	dir := filepath.Join(t.TempDir(), "lazy")
	c, err := New(dir, downloader.New(nil))
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())
	assert.NoDirExists(t, dir)
}

func TestFetchCacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The mock has no expectations: any download fails the test.
	c, err := New(t.TempDir(), mock_downloader.NewMockService(ctrl))
	require.NoError(t, err)

	u := mustParse(t, "https://example.com/a/b/sample.jpg")
	cached := []byte("cached bytes")
	require.NoError(t, os.WriteFile(c.Path(u), cached, 0o644))

	payload, err := c.Fetch(context.Background(), u, true)
	require.NoError(t, err)
	assert.Equal(t, cached, payload.Data)
	assert.Equal(t, model.OriginCache, payload.Origin)
	assert.Empty(t, payload.Warnings)
}

func TestFetchCacheMissPopulates(t *testing.T) {
	body := []byte("remote bytes")
	s := newCountingServer(t, body)
	dir := filepath.Join(t.TempDir(), "nested", ".imgcache")
	c := newTestCache(t, dir, s)

	u := mustParse(t, s.URL+"/img/sample.jpg")

	payload, err := c.Fetch(context.Background(), u, true)
	require.NoError(t, err)
	assert.Equal(t, body, payload.Data)
	assert.Equal(t, model.OriginNetwork, payload.Origin)
	assert.Empty(t, payload.Warnings)
	assert.Equal(t, int64(1), s.hits.Load())

	stored, err := os.ReadFile(c.Path(u))
	require.NoError(t, err)
	assert.Equal(t, body, stored)

	payload, err = c.Fetch(context.Background(), u, true)
	require.NoError(t, err)
	assert.Equal(t, model.OriginCache, payload.Origin)
	assert.Equal(t, int64(1), s.hits.Load(), "second fetch must be served from disk")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFetchBypassesCache(t *testing.T) {
	body := []byte("fresh bytes")
	s := newCountingServer(t, body)
	dir := filepath.Join(t.TempDir(), "cache")
	c := newTestCache(t, dir, s)

	u := mustParse(t, s.URL+"/sample.jpg")

	payload, err := c.Fetch(context.Background(), u, false)
	require.NoError(t, err)
	assert.Equal(t, body, payload.Data)
	assert.NoDirExists(t, dir)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(c.Path(u), []byte("stale"), 0o644))

	payload, err = c.Fetch(context.Background(), u, false)
	require.NoError(t, err)
	assert.Equal(t, body, payload.Data)
	assert.Equal(t, int64(2), s.hits.Load())

	stored, err := os.ReadFile(c.Path(u))
	require.NoError(t, err)
	assert.Equal(t, []byte("stale"), stored)
}

func TestFetchUnwritableCacheIsNotFatal(t *testing.T) {
	body := []byte("remote bytes")
	s := newCountingServer(t, body)

	// A regular file where the directory should be makes every store fail,
	// even for privileged users.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	c := newTestCache(t, filepath.Join(blocker, "cache"), s)

	payload, err := c.Fetch(context.Background(), mustParse(t, s.URL+"/sample.jpg"), true)
	require.NoError(t, err)
	assert.Equal(t, body, payload.Data)
	assert.Equal(t, model.OriginNetwork, payload.Origin)
	require.Len(t, payload.Warnings, 1)
	assert.Contains(t, payload.Warnings[0].Error(), "sample.jpg")
}

func TestFetchDownloadError(t *testing.T) {
	s := newCountingServer(t, nil)
	dir := filepath.Join(t.TempDir(), "cache")
	c := newTestCache(t, dir, s)

	u := mustParse(t, s.URL+"/missing.jpg")
	payload, err := c.Fetch(context.Background(), u, true)
	assert.Nil(t, payload)

	var downloadErr *model.DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, Href(u), downloadErr.URL)

	var statusErr *downloader.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)

	assert.NoDirExists(t, dir)
}

func TestFetchPassesHref(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := mock_downloader.NewMockService(ctrl)
	d.EXPECT().Download(gomock.Any(), "https://example.com/").Return(nil, errors.New("boom"))

	c, err := New(t.TempDir(), d)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), mustParse(t, "https://EXAMPLE.com"), false)
	assert.EqualError(t, err, "failed to download image https://example.com/: boom")
}

func TestFetchConcurrentSameURL(t *testing.T) {
	body := []byte("shared bytes")
	s := newCountingServer(t, body)
	dir := filepath.Join(t.TempDir(), "cache")
	c := newTestCache(t, dir, s)
	u := mustParse(t, s.URL+"/same.jpg")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, err := c.Fetch(context.Background(), u, true)
			if err == nil && len(payload.Warnings) > 0 {
				err = payload.Warnings[0]
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	stored, err := os.ReadFile(c.Path(u))
	require.NoError(t, err)
	assert.Equal(t, body, stored)
}
