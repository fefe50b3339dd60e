package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
)

// followupMaxTokens keeps the followup short.
const followupMaxTokens = 250

// generateFollowup writes the short message that accompanies a changed
// artifact. Reflection style rules are excluded here: the followup is
// conversation, not content.
func (g *Graph) generateFollowup(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	artifactBody := "No artifacts generated yet."
	if content, ok := t.Artifact.Current(); ok {
		artifactBody = content.Body()
	}

	prompt := fmt.Sprintf(followupArtifactPrompt,
		artifactBody,
		g.reflections(ctx, in.AssistantID, true),
		message.FormatConversation(t.Internal),
	)

	text, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(prompt)},
		model.Options{Model: g.cfg.RouterModel, MaxTokens: followupMaxTokens})
	if err != nil {
		return state.Delta{}, err
	}

	followup := message.NewAI(text)
	return state.Delta{
		Messages: []message.Message{followup},
		Internal: []message.Message{followup},
	}, nil
}
