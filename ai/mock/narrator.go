package mock

import (
	"context"
	"strings"

	"github.com/symposic/agendaquery/core"
)

// MockNarrator is a test double for ai.Narrator.
// It allows custom behavior injection via function fields.
type MockNarrator struct {
	// NarrateFunc is called by Narrate if set.
	// If nil, uses default echo behavior.
	NarrateFunc func(ctx context.Context, payload string, verbosity core.Verbosity) (string, error)

	callCount int
}

// NewMockNarrator creates a mock narrator with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockNarrator().
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{}
}

// Narrate returns the first line of the payload as the narration.
func (m *MockNarrator) Narrate(ctx context.Context, payload string, verbosity core.Verbosity) (string, error) {
	m.callCount++

	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, payload, verbosity)
	}

	line := payload
	if idx := strings.IndexByte(payload, '\n'); idx >= 0 {
		line = payload[:idx]
	}
	return strings.TrimSpace(line), nil
}

// CallCount returns the number of times Narrate was called.
func (m *MockNarrator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockNarrator) Reset() {
	m.callCount = 0
	m.NarrateFunc = nil
}
