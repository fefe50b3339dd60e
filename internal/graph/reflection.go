package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/memory"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/state"
)

type generatedReflections struct {
	StyleRules []string `json:"styleRules" jsonschema_description:"The complete new list of style rules and guidelines."`
	Content    []string `json:"content" jsonschema_description:"The complete new list of memories/facts about the user."`
}

// scheduleReflection queues a background reflection run for this thread.
// Rapid consecutive turns supersede each other, so the run analyzes the
// conversation as it stands when the delay elapses.
func (g *Graph) scheduleReflection(in RunInput, t *state.Turn) {
	msgs := append([]message.Message(nil), t.Internal...)
	art := t.Artifact

	err := g.queue.Enqueue(queue.Job{
		Graph: "reflection",
		Key:   "reflection:" + in.ThreadID,
		Delay: g.cfg.ReflectionDelay,
		Run: func(ctx context.Context) error {
			return g.Reflect(ctx, in.AssistantID, msgs, art)
		},
	})
	if err != nil {
		g.logger.Error("scheduling reflection failed", "error", err)
	}
}

// Reflect regenerates the assistant's stored reflections from the
// conversation and artifact, replacing the previous set.
func (g *Graph) Reflect(ctx context.Context, assistantID string, msgs []message.Message, a artifact.Artifact) error {
	ctx, span := g.tracer.Start(ctx, "graph.reflect")
	defer span.End()

	existing, _, err := g.memory.Get(ctx, assistantID)
	if err != nil {
		return fmt.Errorf("load reflections: %w", err)
	}

	system := fmt.Sprintf(reflectionSystemPrompt, existing.Format(false))
	prompt := fmt.Sprintf(reflectionUserPrompt,
		message.FormatConversation(msgs),
		artifactPromptSection(a),
	)

	out, err := model.Choice[generatedReflections](ctx, g.client, system,
		[]message.Message{message.NewHuman(prompt)},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		return fmt.Errorf("generate reflections: %w", err)
	}

	updated := memory.Reflections{StyleRules: out.StyleRules, Content: out.Content}
	if err := g.memory.Save(ctx, assistantID, updated); err != nil {
		return fmt.Errorf("save reflections: %w", err)
	}
	g.logger.Debug("reflections updated",
		"styleRules", len(updated.StyleRules), "content", len(updated.Content))
	return nil
}
