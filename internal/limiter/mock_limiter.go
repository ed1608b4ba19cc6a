package limiter

import "sync"

// MockLimiter is a test double for the Limiter interface
// It allows tests to control allow/deny behavior and verify interactions
type MockLimiter struct {
	mu sync.Mutex

	// AllowResult is returned by every Allow call
	AllowResult bool

	// Track method calls for verification in tests
	AllowCalls  []string
	CloseCalled bool

	CloseError error
}

// NewMockLimiter creates a mock limiter that always answers allowResult
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{AllowResult: allowResult}
}

// Allow implements the Limiter interface
func (m *MockLimiter) Allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AllowCalls = append(m.AllowCalls, key)
	return m.AllowResult
}

// Close implements the Limiter interface
func (m *MockLimiter) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
