package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// MockModelName is the genkit name the mock registers under. Point the
// graph's Model and RouterModel at this name in tests.
const MockModelName = "mock/test-model"

// MockLLM provides deterministic model responses for testing.
// It matches the request prompt (system text plus message text) against
// registered patterns and returns the corresponding response.
//
// Thread-safe for concurrent use.
type MockLLM struct {
	mu       sync.Mutex
	rules    []mockRule
	fallback string
	calls    []MockCall
}

type mockRule struct {
	pattern  string // case-insensitive substring of the full prompt
	response string
}

// MockCall records a single call to the mock model.
type MockCall struct {
	System      string // system prompt text
	UserMessage string // last user message text
	Response    string
}

// NewMockLLM creates a mock model with the given fallback response.
// The fallback is returned when no pattern matches.
func NewMockLLM(fallback string) *MockLLM {
	return &MockLLM{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When the request prompt
// contains the pattern (case-insensitive), the response is returned.
// Patterns are checked in registration order; first match wins.
func (m *MockLLM) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// AddJSONResponse registers a pattern whose response is the JSON encoding
// of v, for calls that parse structured output.
func (m *MockLLM) AddJSONResponse(pattern string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal mock response: %v", err))
	}
	m.AddResponse(pattern, string(data))
}

// Calls returns a copy of all recorded calls.
func (m *MockLLM) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]MockCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Reset clears recorded calls, keeping registered responses.
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Register registers the mock as a genkit model under MockModelName.
func (m *MockLLM) Register(g *genkit.Genkit) ai.Model {
	return genkit.DefineModel(g, MockModelName, &ai.ModelOptions{
		Label: "Mock Test Model",
		Supports: &ai.ModelSupports{
			Multiturn:  true,
			SystemRole: true,
			Media:      true,
		},
	}, m.generate)
}

func (m *MockLLM) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	var system, lastUser string
	var prompt strings.Builder
	for _, msg := range req.Messages {
		text := msg.Text()
		prompt.WriteString(text)
		prompt.WriteString("\n")
		switch msg.Role {
		case ai.RoleSystem:
			system = text
		case ai.RoleUser:
			lastUser = text
		}
	}

	m.mu.Lock()
	responseText := m.fallback
	lower := strings.ToLower(prompt.String())
	for _, r := range m.rules {
		if strings.Contains(lower, r.pattern) {
			responseText = r.response
			break
		}
	}
	m.calls = append(m.calls, MockCall{
		System:      system,
		UserMessage: lastUser,
		Response:    responseText,
	})
	m.mu.Unlock()

	if cb != nil {
		_ = cb(ctx, &ai.ModelResponseChunk{
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		})
	}

	return &ai.ModelResponse{
		Request: req,
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		},
	}, nil
}
