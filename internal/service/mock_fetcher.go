package service

import (
	"context"
	"encoding/json"

	"github.com/evyataryagoni/publicip-mcp/internal/provider"
)

// MockFetcher is a test double for the Fetcher interface
type MockFetcher struct {
	// Response returned by Fetch when Err is nil
	StatusCode int
	Body       string

	// Err makes Fetch fail like a transport error
	Err error

	// Calls counts Fetch invocations
	Calls int
}

// NewMockFetcher creates a mock answering with the given status and body
func NewMockFetcher(status int, body string) *MockFetcher {
	return &MockFetcher{StatusCode: status, Body: body}
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(_ context.Context) (*provider.Response, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &provider.Response{
		StatusCode: m.StatusCode,
		Body:       json.RawMessage(m.Body),
	}, nil
}
