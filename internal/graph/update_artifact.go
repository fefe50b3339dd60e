package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
)

// highlightContextWindow is how many characters of surrounding code are
// shown on each side of a highlighted selection.
const highlightContextWindow = 500

// updateArtifact rewrites the highlighted span of a code artifact and
// splices the result back, leaving the rest of the code untouched.
func (g *Graph) updateArtifact(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	current, ok := t.Artifact.Current()
	if !ok {
		return state.Delta{}, ErrNoArtifact
	}
	code, ok := current.(artifact.Code)
	if !ok {
		return state.Delta{}, fmt.Errorf("%w: expected code", ErrWrongArtifactType)
	}
	if t.HighlightedCode == nil {
		return state.Delta{}, ErrNoHighlight
	}
	human, err := recentHuman(t)
	if err != nil {
		return state.Delta{}, err
	}

	text := code.Code
	start := clamp(t.HighlightedCode.StartCharIndex, 0, len(text))
	end := clamp(t.HighlightedCode.EndCharIndex, start, len(text))

	windowStart := max(0, start-highlightContextWindow)
	windowEnd := min(len(text), end+highlightContextWindow)

	system := fmt.Sprintf(updateHighlightedArtifactPrompt,
		text[start:end],
		text[windowStart:start],
		text[end:windowEnd],
		g.reflections(ctx, in.AssistantID, false),
	)

	msgs := append(contextDocumentMessages(t), human)
	opts := g.mainOpts()
	opts.Temperature = model.Temp(0)
	replacement, err := g.client.Generate(ctx, system, msgs, opts)
	if err != nil {
		return state.Delta{}, fmt.Errorf("update highlighted code: %w", err)
	}

	updatedCode := code
	updatedCode.Index = t.Artifact.NextIndex()
	updatedCode.Code = text[:start] + replacement + text[end:]

	updated, err := t.Artifact.Append(updatedCode)
	if err != nil {
		return state.Delta{}, fmt.Errorf("append artifact version: %w", err)
	}
	return state.Delta{Artifact: &updated}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
