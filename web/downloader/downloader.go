package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Service downloads remote content.
type Service interface {
	Download(context.Context, string) ([]byte, error)
}

// StatusError reports a response outside of the 2xx range.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error downloading %s, status code is: %d", e.URL, e.Code)
}

type impl struct {
	client *http.Client
}

// New returns a downloader backed by client. A nil client means http.DefaultClient.
func New(client *http.Client) Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &impl{client}
}

func (s *impl) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{URL: url, Code: res.StatusCode}
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading body of %s: %w", url, err)
	}
	return b, nil
}
