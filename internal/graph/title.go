package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/state"
)

// scheduleTitle queues thread title generation for a fresh conversation.
// It runs in the background after the turn is persisted.
func (g *Graph) scheduleTitle(in RunInput, t *state.Turn) {
	messages := append([]message.Message(nil), t.Messages...)
	art := t.Artifact

	err := g.queue.Enqueue(queue.Job{
		Graph: "thread_title",
		Key:   "title:" + in.ThreadID,
		Delay: g.cfg.TitleDelay,
		Run: func(ctx context.Context) error {
			title, err := g.GenerateTitle(ctx, messages, art)
			if err != nil {
				return err
			}
			rec, err := g.threads.Load(ctx, in.UserID, in.ThreadID)
			if err != nil {
				return fmt.Errorf("load thread for title: %w", err)
			}
			return g.threads.SetTitle(ctx, in.UserID, rec, title)
		},
	})
	if err != nil {
		g.logger.Error("scheduling title generation failed", "error", err)
	}
}

// GenerateTitle produces a short thread title from the opening exchange.
func (g *Graph) GenerateTitle(ctx context.Context, msgs []message.Message, a artifact.Artifact) (string, error) {
	artifactSection := ""
	if content, ok := a.Current(); ok {
		artifactSection = fmt.Sprintf(currentArtifactPrompt, artifact.Format(content, true))
	}

	prompt := fmt.Sprintf(threadTitlePrompt,
		message.FormatConversation(msgs),
		artifactSection,
	)

	title, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(prompt)},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return strings.Trim(strings.TrimSpace(title), `"`), nil
}
