package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/koopa0/canvas/internal/actions"
	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/state"
)

// customAction rewrites the artifact using instructions the user saved
// as a quick action. The action's flags control which optional context
// blocks are included in the prompt.
func (g *Graph) customAction(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	if t.CustomQuickActionID == "" {
		return state.Delta{}, fmt.Errorf("graph: no custom quick action ID found")
	}

	action, err := actions.Load(ctx, g.store, in.UserID, t.CustomQuickActionID)
	if err != nil {
		return state.Delta{}, fmt.Errorf("load custom quick action %s: %w", t.CustomQuickActionID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<custom-instructions>\n%s\n</custom-instructions>", action.Prompt)

	if action.IncludeReflections {
		fmt.Fprintf(&b, "\n\n"+customActionReflectionsPrompt, g.reflections(ctx, in.AssistantID, false))
	}
	if action.IncludePrefix {
		prompt := b.String()
		b.Reset()
		b.WriteString(customActionPrefixPrompt)
		b.WriteString("\n\n")
		b.WriteString(prompt)
	}
	if action.IncludeRecentHistory {
		recent := t.Internal
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		fmt.Fprintf(&b, "\n\n"+customActionConversationPrompt, message.FormatConversation(recent))
	}

	current, hasArtifact := t.Artifact.Current()
	artifactBody := "No artifacts generated yet."
	if hasArtifact {
		artifactBody = current.Body()
	}
	fmt.Fprintf(&b, "\n\n"+customActionArtifactPrompt, artifactBody)

	text, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(b.String())},
		g.mainOpts())
	if err != nil {
		return state.Delta{}, fmt.Errorf("run custom quick action: %w", err)
	}

	// Without an artifact there is nothing to rewrite; the action ran
	// for its side effects only.
	if !hasArtifact {
		return state.Delta{}, nil
	}

	var content artifact.Content
	switch v := current.(type) {
	case artifact.Markdown:
		v.Index = t.Artifact.NextIndex()
		v.Markdown = text
		content = v
	case artifact.Code:
		v.Index = t.Artifact.NextIndex()
		v.Code = text
		content = v
	}

	updated, err := t.Artifact.Append(content)
	if err != nil {
		return state.Delta{}, fmt.Errorf("append artifact version: %w", err)
	}
	return state.Delta{Artifact: &updated}, nil
}
