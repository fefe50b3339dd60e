package model

import "strings"

// Provider identifies a model backend by the genkit name prefix.
type Provider string

const (
	ProviderGoogle Provider = "googleai"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// ProviderOf extracts the provider from a full genkit model name. Names
// without a prefix fall back to the Google provider.
func ProviderOf(model string) Provider {
	prefix, _, ok := strings.Cut(model, "/")
	if !ok {
		return ProviderGoogle
	}
	switch Provider(prefix) {
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderOllama:
		return ProviderOllama
	default:
		return ProviderGoogle
	}
}

// modelID strips the provider prefix.
func modelID(model string) string {
	if _, id, ok := strings.Cut(model, "/"); ok {
		return id
	}
	return model
}

// temperatureExcluded lists model families that reject an explicit
// temperature parameter.
var temperatureExcluded = []string{"o1", "o3", "o4"}

// TemperatureExcluded reports whether the model must be called without a
// temperature setting.
func TemperatureExcluded(model string) bool {
	id := modelID(model)
	for _, family := range temperatureExcluded {
		if id == family || strings.HasPrefix(id, family+"-") {
			return true
		}
	}
	return false
}

// SupportsSystemRole reports whether the model accepts a system message.
// The o1 reasoning family does not; system prompts are demoted to a
// leading human message for those.
func SupportsSystemRole(model string) bool {
	id := modelID(model)
	return id != "o1" && !strings.HasPrefix(id, "o1-")
}

// thinkingModels emit their chain of thought inside a leading
// <think> span that must be stripped before the answer is used.
var thinkingModels = []string{"deepseek-r1"}

// IsThinking reports whether the model wraps reasoning in think tags.
func IsThinking(model string) bool {
	id := modelID(model)
	for _, family := range thinkingModels {
		if id == family || strings.HasPrefix(id, family+":") || strings.HasPrefix(id, family+"-") {
			return true
		}
	}
	return false
}
