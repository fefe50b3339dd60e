package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
)

type artifactMeta struct {
	Type         string `json:"type" jsonschema:"enum=code,enum=text" jsonschema_description:"The type of the artifact to generate."`
	Title        string `json:"title,omitempty" jsonschema_description:"The new title to give the artifact."`
	Language     string `json:"language,omitempty" jsonschema_description:"The language of the code artifact (if applicable)."`
	IsValidReact bool   `json:"isValidReact,omitempty" jsonschema_description:"Whether the code is valid React (if applicable)."`
}

// rewriteArtifact regenerates the whole artifact from the user's
// request, optionally switching its type or title first.
func (g *Graph) rewriteArtifact(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	current, ok := t.Artifact.Current()
	if !ok {
		return state.Delta{}, ErrNoArtifact
	}
	human, err := recentHuman(t)
	if err != nil {
		return state.Delta{}, err
	}

	meta := g.classifyRewriteMeta(ctx, current, human)
	isNewType := meta.Type != contentType(current)

	system := fmt.Sprintf(updateEntireArtifactPrompt,
		current.Body(),
		g.reflections(ctx, in.AssistantID, false),
		metaPromptSection(isNewType, meta),
	)

	msgs := append(contextDocumentMessages(t), human)
	text, err := g.client.Generate(ctx, system, msgs, g.mainOpts())
	if err != nil {
		return state.Delta{}, fmt.Errorf("rewrite artifact: %w", err)
	}

	delta := state.Delta{}
	text = g.stripThinking(&delta, text)

	content := rebuildContent(t.Artifact, current, meta, text)
	updated, err := t.Artifact.Append(content)
	if err != nil {
		return state.Delta{}, fmt.Errorf("append artifact version: %w", err)
	}
	delta.Artifact = &updated
	return delta, nil
}

// classifyRewriteMeta asks the router model whether the rewrite changes
// the artifact's type or title. On any failure it keeps the current meta.
func (g *Graph) classifyRewriteMeta(ctx context.Context, current artifact.Content, human message.Message) artifactMeta {
	fallback := currentMeta(current)

	system := fmt.Sprintf(titleTypeRewritePrompt, artifact.Format(current, true))
	meta, err := model.Choice[artifactMeta](ctx, g.client, system,
		[]message.Message{human},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		g.logger.Warn("rewrite meta classification failed, keeping current meta", "error", err)
		return fallback
	}

	if meta.Type == "" {
		meta.Type = fallback.Type
	}
	if meta.Title == "" {
		meta.Title = fallback.Title
	}
	if meta.Language == "" {
		meta.Language = fallback.Language
	}
	if !meta.IsValidReact {
		meta.IsValidReact = fallback.IsValidReact
	}
	return meta
}

func currentMeta(c artifact.Content) artifactMeta {
	switch v := c.(type) {
	case artifact.Code:
		return artifactMeta{Type: "code", Title: v.Title, Language: v.Language, IsValidReact: v.ValidReact}
	case artifact.Markdown:
		return artifactMeta{Type: "text", Title: v.Title}
	}
	return artifactMeta{Type: "text"}
}

func contentType(c artifact.Content) string {
	if _, ok := c.(artifact.Code); ok {
		return "code"
	}
	return "text"
}

func metaPromptSection(isNewType bool, meta artifactMeta) string {
	if !isNewType {
		return ""
	}
	titleSection := ""
	if meta.Title != "" && meta.Type != "code" {
		titleSection = "And its title is (do NOT include this in your response):\n" + meta.Title
	}
	return fmt.Sprintf(updateMetaPrompt, meta.Type, titleSection)
}

func rebuildContent(a artifact.Artifact, current artifact.Content, meta artifactMeta, body string) artifact.Content {
	index := a.NextIndex()
	if meta.Type == "code" {
		language := meta.Language
		if language == "" {
			if code, ok := current.(artifact.Code); ok {
				language = code.Language
			}
		}
		if language == "" {
			language = "other"
		}
		return artifact.Code{
			Index:      index,
			Title:      meta.Title,
			Language:   language,
			Code:       body,
			ValidReact: meta.IsValidReact,
		}
	}
	return artifact.Markdown{
		Index:    index,
		Title:    meta.Title,
		Markdown: body,
	}
}

// stripThinking removes a reasoning span from model output, surfacing it
// as an assistant message in both histories.
func (g *Graph) stripThinking(delta *state.Delta, text string) string {
	if !model.IsThinking(g.cfg.Model) {
		return text
	}
	thinking, answer := model.SplitThinking(text)
	if thinking == "" {
		return text
	}
	msg := message.NewAI(thinking)
	delta.Messages = append(delta.Messages, msg)
	delta.Internal = append(delta.Internal, msg)
	return answer
}
