package system

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves the content of a URL in a single shot. There is no retry
// logic: a failed fetch is either fatal or handled by an explicit fallback.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// HTTPFetcher fetches URLs over plain HTTP(S).
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a new HTTPFetcher. The timeout is generous because
// the standalone compose binary is tens of megabytes.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Fetch downloads the URL and returns its body
func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}
