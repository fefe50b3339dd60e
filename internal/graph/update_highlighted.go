package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
)

// updateHighlightedText rewrites the markdown block containing the
// user's selection and replaces that block in the artifact. A block that
// no longer exists in the artifact text is a fatal error: splicing a
// replacement for it would corrupt the document.
func (g *Graph) updateHighlightedText(ctx context.Context, _ RunInput, t *state.Turn) (state.Delta, error) {
	current, ok := t.Artifact.Current()
	if !ok {
		return state.Delta{}, ErrNoArtifact
	}
	md, ok := current.(artifact.Markdown)
	if !ok {
		return state.Delta{}, fmt.Errorf("%w: expected markdown", ErrWrongArtifactType)
	}
	if t.HighlightedText == nil {
		return state.Delta{}, ErrNoHighlight
	}
	human, err := recentHuman(t)
	if err != nil {
		return state.Delta{}, err
	}

	highlight := t.HighlightedText
	if !strings.Contains(highlight.FullMarkdown, highlight.MarkdownBlock) {
		return state.Delta{}, ErrBlockNotFound
	}

	system := fmt.Sprintf(updateHighlightedTextPrompt,
		highlight.SelectedText,
		highlight.MarkdownBlock,
	)

	msgs := append(contextDocumentMessages(t), human)
	opts := g.mainOpts()
	opts.Temperature = model.Temp(0)
	newBlock, err := g.client.Generate(ctx, system, msgs, opts)
	if err != nil {
		return state.Delta{}, fmt.Errorf("update highlighted text: %w", err)
	}

	updatedMD := md
	updatedMD.Index = t.Artifact.NextIndex()
	updatedMD.Markdown = strings.Replace(highlight.FullMarkdown, highlight.MarkdownBlock, newBlock, 1)

	updated, err := t.Artifact.Append(updatedMD)
	if err != nil {
		return state.Delta{}, fmt.Errorf("append artifact version: %w", err)
	}
	return state.Delta{Artifact: &updated}, nil
}
