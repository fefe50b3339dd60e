package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/state"
)

// rewriteArtifactTheme applies a style transformation to a markdown
// artifact. Exactly one theme flag should be set; when several are, the
// first in precedence order wins: language, reading level, length,
// emojis.
func (g *Graph) rewriteArtifactTheme(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	current, ok := t.Artifact.Current()
	if !ok {
		return state.Delta{}, ErrNoArtifact
	}
	md, ok := current.(artifact.Markdown)
	if !ok {
		return state.Delta{}, fmt.Errorf("%w: expected markdown", ErrWrongArtifactType)
	}

	reflections := g.reflections(ctx, in.AssistantID, false)

	var prompt string
	switch {
	case t.Language != "":
		prompt = fmt.Sprintf(changeArtifactLanguagePrompt, t.Language, md.Markdown, reflections)
	case t.ReadingLevel == state.ReadingLevelPirate:
		prompt = fmt.Sprintf(changeToPiratePrompt, md.Markdown, reflections)
	case t.ReadingLevel != "":
		prompt = fmt.Sprintf(changeReadingLevelPrompt, t.ReadingLevel.Description(), md.Markdown, reflections)
	case t.ArtifactLength != "":
		prompt = fmt.Sprintf(changeArtifactLengthPrompt, t.ArtifactLength.Description(), md.Markdown, reflections)
	case t.RegenerateWithEmojis:
		prompt = fmt.Sprintf(addEmojisPrompt, md.Markdown, reflections)
	default:
		return state.Delta{}, ErrNoThemeSelected
	}

	text, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(prompt)},
		g.mainOpts())
	if err != nil {
		return state.Delta{}, fmt.Errorf("rewrite artifact theme: %w", err)
	}

	delta := state.Delta{}
	text = g.stripThinking(&delta, text)

	updatedMD := md
	updatedMD.Index = t.Artifact.NextIndex()
	updatedMD.Markdown = text

	updated, err := t.Artifact.Append(updatedMD)
	if err != nil {
		return state.Delta{}, fmt.Errorf("append artifact version: %w", err)
	}
	delta.Artifact = &updated
	return delta, nil
}

// rewriteCodeArtifactTheme applies a code transformation to a code
// artifact. Precedence when several flags are set: comments, language
// port, logs, bug fixes.
func (g *Graph) rewriteCodeArtifactTheme(ctx context.Context, t *state.Turn) (state.Delta, error) {
	current, ok := t.Artifact.Current()
	if !ok {
		return state.Delta{}, ErrNoArtifact
	}
	code, ok := current.(artifact.Code)
	if !ok {
		return state.Delta{}, fmt.Errorf("%w: expected code", ErrWrongArtifactType)
	}

	var prompt string
	switch {
	case t.AddComments:
		prompt = fmt.Sprintf(addCommentsToCodePrompt, code.Code)
	case t.PortLanguage != "":
		prompt = fmt.Sprintf(portLanguageCodePrompt, t.PortLanguage.Label(), code.Code)
	case t.AddLogs:
		prompt = fmt.Sprintf(addLogsToCodePrompt, code.Code)
	case t.FixBugs:
		prompt = fmt.Sprintf(fixBugsCodePrompt, code.Code)
	default:
		return state.Delta{}, ErrNoThemeSelected
	}

	text, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(prompt)},
		g.mainOpts())
	if err != nil {
		return state.Delta{}, fmt.Errorf("rewrite code artifact theme: %w", err)
	}

	delta := state.Delta{}
	text = g.stripThinking(&delta, text)

	updatedCode := code
	updatedCode.Index = t.Artifact.NextIndex()
	updatedCode.Code = text
	if t.PortLanguage != "" {
		updatedCode.Language = string(t.PortLanguage)
	}

	updated, err := t.Artifact.Append(updatedCode)
	if err != nil {
		return state.Delta{}, fmt.Errorf("append artifact version: %w", err)
	}
	delta.Artifact = &updated
	return delta, nil
}
