package system

import (
	"strings"
	"sync"
)

// MockResponse is a canned result for a scripted command.
type MockResponse struct {
	Output string
	Err    error
}

// MockCommandRunner replays scripted command results for tests and records
// every invocation. Responses are keyed by the full command line
// ("name arg1 arg2 ..."); a key also matches as a prefix, with the longest
// matching key winning. Unscripted commands succeed with empty output.
type MockCommandRunner struct {
	mu              sync.Mutex
	Responses       map[string]MockResponse
	MissingCommands map[string]bool
	Calls           []string
}

// NewMockCommandRunner creates a new MockCommandRunner.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Responses:       make(map[string]MockResponse),
		MissingCommands: make(map[string]bool),
	}
}

// Run records the call and returns the scripted response, if any.
func (m *MockCommandRunner) Run(name string, args ...string) (string, error) {
	full := strings.Join(append([]string{name}, args...), " ")

	m.mu.Lock()
	m.Calls = append(m.Calls, full)
	m.mu.Unlock()

	if resp, ok := m.Responses[full]; ok {
		return resp.Output, resp.Err
	}

	// Longest-prefix match so scripts don't need to spell out every argument
	bestLen := -1
	var best MockResponse
	for key, resp := range m.Responses {
		if strings.HasPrefix(full, key) && len(key) > bestLen {
			bestLen = len(key)
			best = resp
		}
	}
	if bestLen >= 0 {
		return best.Output, best.Err
	}

	return "", nil
}

// RunEnv records the call like Run; the extra environment is ignored.
func (m *MockCommandRunner) RunEnv(env []string, name string, args ...string) (string, error) {
	return m.Run(name, args...)
}

// LookPath reports true unless the command was marked missing.
func (m *MockCommandRunner) LookPath(name string) bool {
	return !m.MissingCommands[name]
}

// CalledWith reports whether any recorded call starts with the given prefix.
func (m *MockCommandRunner) CalledWith(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.Calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}
