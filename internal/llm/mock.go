package llm

import (
	"context"
	"sync"
	"time"
)

// MockTurn is a single scripted response from the mock provider.
type MockTurn struct {
	Text  string
	Err   error
	Delay time.Duration // Optional delay before responding (for cancellation tests)
}

// MockProvider returns scripted responses and records every request for
// verification. Once the script runs out it keeps returning the last turn.
type MockProvider struct {
	mu        sync.Mutex
	name      string
	turns     []MockTurn
	turnIndex int
	Requests  []Request // Recorded requests for verification
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

func (m *MockProvider) Name() string { return m.name }

// AddTurn appends a scripted turn and returns the provider for chaining.
func (m *MockProvider) AddTurn(t MockTurn) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, t)
	return m
}

// AddTextResponse is a convenience for a plain text turn.
func (m *MockProvider) AddTextResponse(text string) *MockProvider {
	return m.AddTurn(MockTurn{Text: text})
}

// AddError is a convenience for a failing turn.
func (m *MockProvider) AddError(err error) *MockProvider {
	return m.AddTurn(MockTurn{Err: err})
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	var turn MockTurn
	if len(m.turns) > 0 {
		idx := m.turnIndex
		if idx >= len(m.turns) {
			idx = len(m.turns) - 1
		}
		turn = m.turns[idx]
		m.turnIndex++
	} else {
		turn = MockTurn{Text: "mock response"}
	}
	m.mu.Unlock()

	if turn.Delay > 0 {
		select {
		case <-time.After(turn.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if turn.Err != nil {
		return "", turn.Err
	}
	return turn.Text, nil
}

// LastRequest returns the most recent recorded request.
func (m *MockProvider) LastRequest() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return Request{}
	}
	return m.Requests[len(m.Requests)-1]
}
