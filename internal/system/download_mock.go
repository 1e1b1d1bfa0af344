package system

import "sync"

// MockFetcher replays canned URL responses for tests and records every
// requested URL.
type MockFetcher struct {
	mu        sync.Mutex
	Responses map[string][]byte
	Err       error // When set, every fetch fails with this error
	URLs      []string
}

// NewMockFetcher creates a new MockFetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Responses: make(map[string][]byte),
	}
}

// Fetch records the URL and returns the canned response, or placeholder
// content for URLs that were not scripted.
func (f *MockFetcher) Fetch(url string) ([]byte, error) {
	f.mu.Lock()
	f.URLs = append(f.URLs, url)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if data, ok := f.Responses[url]; ok {
		return data, nil
	}
	return []byte("mock content"), nil
}
