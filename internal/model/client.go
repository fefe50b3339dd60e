// Package model wraps genkit model invocation for the agent core. It owns
// the provider capability tables (system-role support, temperature
// exclusions, thinking models) and the per-provider document encodings, so
// handlers never branch on provider ids themselves.
package model

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/message"
)

// Client invokes models through a genkit instance.
type Client struct {
	g      *genkit.Genkit
	logger log.Logger
}

// NewClient creates a model client.
func NewClient(g *genkit.Genkit, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{g: g, logger: logger}
}

// Genkit exposes the underlying instance for test model registration.
func (c *Client) Genkit() *genkit.Genkit { return c.g }

// Options tunes a single generate call. Model is the full genkit model
// name (e.g. "googleai/gemini-2.0-flash"). Temperature is applied unless
// the model is temperature-excluded; MaxTokens of zero means provider
// default.
type Options struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Generate runs a chat completion and returns the response text. When the
// model does not support a system role, the system prompt is sent as the
// first human message instead.
func (c *Client) Generate(ctx context.Context, system string, msgs []message.Message, opts Options) (string, error) {
	resp, err := genkit.Generate(ctx, c.g, c.buildOptions(system, msgs, opts, nil)...)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", opts.Model, err)
	}
	return resp.Text(), nil
}

// Choice runs a generation constrained to the structured shape T and
// decodes the result. A response that cannot be decoded is a model
// contract violation and surfaces as an error.
func Choice[T any](ctx context.Context, c *Client, system string, msgs []message.Message, opts Options) (T, error) {
	var out T
	resp, err := genkit.Generate(ctx, c.g, c.buildOptions(system, msgs, opts, out)...)
	if err != nil {
		return out, fmt.Errorf("generate structured with %s: %w", opts.Model, err)
	}
	if err := resp.Output(&out); err != nil {
		return out, fmt.Errorf("decode structured output from %s: %w", opts.Model, err)
	}
	return out, nil
}

func (c *Client) buildOptions(system string, msgs []message.Message, opts Options, outputType any) []ai.GenerateOption {
	modelMsgs := message.ToModelMessages(msgs)

	genOpts := []ai.GenerateOption{ai.WithModelName(opts.Model)}

	if system != "" {
		if SupportsSystemRole(opts.Model) {
			genOpts = append(genOpts, ai.WithSystem(system))
		} else {
			prefixed := make([]*ai.Message, 0, len(modelMsgs)+1)
			prefixed = append(prefixed, ai.NewUserMessage(ai.NewTextPart(system)))
			prefixed = append(prefixed, modelMsgs...)
			modelMsgs = prefixed
		}
	}
	genOpts = append(genOpts, ai.WithMessages(modelMsgs...))

	if cfg := c.generationConfig(opts); cfg != nil {
		genOpts = append(genOpts, ai.WithConfig(cfg))
	}
	if outputType != nil {
		genOpts = append(genOpts, ai.WithOutputType(outputType))
	}
	return genOpts
}

// generationConfig builds the provider tuning config. Only the Google
// provider takes an explicit config struct; other providers run with
// their defaults.
func (c *Client) generationConfig(opts Options) *genai.GenerateContentConfig {
	if ProviderOf(opts.Model) != ProviderGoogle {
		return nil
	}
	cfg := &genai.GenerateContentConfig{}
	applied := false
	if opts.Temperature != nil && !TemperatureExcluded(opts.Model) {
		cfg.Temperature = opts.Temperature
		applied = true
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
		applied = true
	}
	if !applied {
		return nil
	}
	return cfg
}

// Temp is a convenience for Options.Temperature literals.
func Temp(v float32) *float32 { return &v }
