package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/state"
)

// scheduleSummarization queues compaction of an oversized internal
// history. The job runs after the turn is persisted and writes the
// compacted history to the thread record; the summarized marker makes
// the merge replace the old history instead of appending.
func (g *Graph) scheduleSummarization(in RunInput, t *state.Turn) {
	history := append([]message.Message(nil), t.Internal...)

	err := g.queue.Enqueue(queue.Job{
		Graph: "summarizer",
		Key:   "summarize:" + in.ThreadID,
		Run: func(ctx context.Context) error {
			summary, err := g.summarize(ctx, history)
			if err != nil {
				return err
			}
			rec, err := g.threads.Load(ctx, in.UserID, in.ThreadID)
			if err != nil {
				return fmt.Errorf("load thread for summary: %w", err)
			}
			rec.Internal = message.Merge(rec.Internal, []message.Message{summary})
			if err := g.threads.Save(ctx, in.UserID, rec); err != nil {
				return err
			}
			g.logger.Info("internal history summarized", "chars", message.TotalChars(rec.Internal))
			return nil
		},
	})
	if err != nil {
		g.logger.Error("scheduling summarization failed", "error", err)
	}
}

// summarize collapses a conversation history into a single summary
// message carrying the summarized marker.
func (g *Graph) summarize(ctx context.Context, history []message.Message) (message.Message, error) {
	ctx, span := g.tracer.Start(ctx, "graph.summarize")
	defer span.End()

	prompt := fmt.Sprintf(summarizerPrompt, message.FormatConversation(history))

	summary, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(prompt)},
		model.Options{Model: g.cfg.Model})
	if err != nil {
		return message.Message{}, fmt.Errorf("summarize conversation: %w", err)
	}

	return message.NewAI("Summary of the conversation so far:\n\n" + summary).
		WithMarker(message.SummarizedKey).
		WithMarker(message.HideFromUIKey), nil
}
