package nlu

import "context"

// MockService is a deterministic Service implementation for tests.
type MockService struct {
	Response string
	Err      error

	// Calls records every prompt passed to Analyze.
	Calls []string
}

// NewMockService creates a mock NLU service returning a fixed response.
func NewMockService(response string) *MockService {
	return &MockService{Response: response}
}

// Analyze returns the configured response or error.
func (m *MockService) Analyze(_ context.Context, prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

var _ Service = (*MockService)(nil)
