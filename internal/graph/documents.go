package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
)

// prepareDocuments keeps at most one document carrier message in the
// histories. New attachments become a hidden carrier message; otherwise,
// an existing carrier encoded for a different provider is rebuilt for
// the current one. At most one of the two happens per turn.
func (g *Graph) prepareDocuments(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	if len(in.Documents) > 0 {
		msg, err := model.EncodeDocumentMessage(ctx, g.cfg.Provider, in.Documents, g.pdf)
		if err != nil {
			return state.Delta{}, fmt.Errorf("encode context documents: %w", err)
		}
		return state.Delta{
			Messages: []message.Message{msg},
			Internal: []message.Message{msg},
		}, nil
	}

	idx := model.FindDocumentMessage(t.Internal)
	if idx < 0 {
		return state.Delta{}, nil
	}
	fixed, err := model.ReencodeDocumentMessage(ctx, g.cfg.Provider, t.Internal[idx], g.pdf)
	if err != nil {
		return state.Delta{}, fmt.Errorf("fix context document message: %w", err)
	}
	if fixed == nil {
		return state.Delta{}, nil
	}
	return state.Delta{
		Remove:   []string{t.Internal[idx].ID},
		Messages: []message.Message{*fixed},
		Internal: []message.Message{*fixed},
	}, nil
}

// contextDocumentMessages returns the carrier message for inclusion in a
// model call, or nil when no documents are attached.
func contextDocumentMessages(t *state.Turn) []message.Message {
	idx := model.FindDocumentMessage(t.Internal)
	if idx < 0 {
		return nil
	}
	return []message.Message{t.Internal[idx]}
}
