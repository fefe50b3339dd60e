package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model string
		want  Provider
	}{
		{"googleai/gemini-2.5-flash", ProviderGoogle},
		{"openai/gpt-4o", ProviderOpenAI},
		{"ollama/llama3", ProviderOllama},
		{"gemini-2.5-flash", ProviderGoogle},
		{"unknown/something", ProviderGoogle},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ProviderOf(tt.model))
		})
	}
}

func TestTemperatureExcluded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model string
		want  bool
	}{
		{"openai/o1", true},
		{"openai/o1-mini", true},
		{"openai/o3-mini", true},
		{"openai/o4-mini", true},
		{"openai/gpt-4o", false},
		{"googleai/gemini-2.5-flash", false},
		{"ollama/olmo", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TemperatureExcluded(tt.model))
		})
	}
}

func TestSupportsSystemRole(t *testing.T) {
	t.Parallel()

	assert.False(t, SupportsSystemRole("openai/o1"))
	assert.False(t, SupportsSystemRole("openai/o1-mini"))
	assert.True(t, SupportsSystemRole("openai/o3-mini"))
	assert.True(t, SupportsSystemRole("googleai/gemini-2.5-flash"))
}

func TestIsThinking(t *testing.T) {
	t.Parallel()

	assert.True(t, IsThinking("ollama/deepseek-r1"))
	assert.True(t, IsThinking("ollama/deepseek-r1:8b"))
	assert.True(t, IsThinking("ollama/deepseek-r1-distill"))
	assert.False(t, IsThinking("ollama/llama3"))
	assert.False(t, IsThinking("googleai/gemini-2.5-flash"))
}
