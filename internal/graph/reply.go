package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/state"
)

// replyToGeneralInput answers conversationally without touching the
// artifact.
func (g *Graph) replyToGeneralInput(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	system := fmt.Sprintf(replyPrompt,
		g.reflections(ctx, in.AssistantID, false),
		artifactPromptSection(t.Artifact),
	)

	msgs := append(contextDocumentMessages(t), t.Internal...)
	text, err := g.client.Generate(ctx, system, msgs, g.mainOpts())
	if err != nil {
		return state.Delta{}, fmt.Errorf("reply to general input: %w", err)
	}

	delta := state.Delta{}
	text = g.stripThinking(&delta, text)

	reply := message.NewAI(text)
	delta.Messages = append(delta.Messages, reply)
	delta.Internal = append(delta.Internal, reply)
	return delta, nil
}
