package store

import (
	"context"

	"github.com/evyataryagoni/publicip-mcp/internal/models"
)

// MockCache is a test double for the Cache interface
// It allows tests to control behavior and verify interactions
type MockCache struct {
	// Info is returned by Get when set
	Info *models.IPInfo

	// Track method calls for verification in tests
	GetCalls    int
	SetCalls    []*models.IPInfo
	CloseCalled bool

	// Control behavior for error scenarios
	GetError   error
	SetError   error
	CloseError error
}

// NewMockCache creates an empty mock cache
func NewMockCache() *MockCache {
	return &MockCache{}
}

// Get implements the Cache interface
func (m *MockCache) Get(_ context.Context) (*models.IPInfo, error) {
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	if m.Info == nil {
		return nil, ErrCacheMiss
	}
	return m.Info, nil
}

// Set implements the Cache interface
func (m *MockCache) Set(_ context.Context, info *models.IPInfo) error {
	m.SetCalls = append(m.SetCalls, info)
	if m.SetError != nil {
		return m.SetError
	}
	m.Info = info
	return nil
}

// Name implements the Cache interface
func (m *MockCache) Name() string { return "mock" }

// Close implements the Cache interface
func (m *MockCache) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
