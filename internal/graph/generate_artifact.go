package graph

import (
	"context"
	"fmt"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
)

type generatedArtifact struct {
	Type         string `json:"type" jsonschema:"enum=code,enum=text" jsonschema_description:"The content type of the artifact generated."`
	Language     string `json:"language,omitempty" jsonschema_description:"The language/programming language of the artifact generated. If generating code, it should be one of the options, or 'other'. If not generating code, the language should ALWAYS be 'other'."`
	IsValidReact bool   `json:"isValidReact,omitempty" jsonschema_description:"Whether or not the generated code is valid React code. Only populate this field if generating code."`
	Artifact     string `json:"artifact" jsonschema_description:"The content of the artifact to generate."`
	Title        string `json:"title" jsonschema_description:"A short title to give to the artifact. Should be less than 5 words."`
}

// generateArtifact creates the first version of a new artifact from the
// conversation.
func (g *Graph) generateArtifact(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	reflections := g.reflections(ctx, in.AssistantID, false)
	system := fmt.Sprintf(newArtifactPrompt, reflections, disableChainOfThought(g.cfg.Model))

	msgs := append(contextDocumentMessages(t), t.Internal...)

	out, err := model.Choice[generatedArtifact](ctx, g.client, system, msgs, g.mainOpts())
	if err != nil {
		return state.Delta{}, fmt.Errorf("generate artifact: %w", err)
	}

	var content artifact.Content
	if out.Type == "code" {
		language := out.Language
		if language == "" {
			language = "other"
		}
		content = artifact.Code{
			Index:      1,
			Title:      out.Title,
			Language:   language,
			Code:       out.Artifact,
			ValidReact: out.IsValidReact,
		}
	} else {
		content = artifact.Markdown{
			Index:    1,
			Title:    out.Title,
			Markdown: out.Artifact,
		}
	}

	a := artifact.New(content)
	return state.Delta{Artifact: &a}, nil
}
