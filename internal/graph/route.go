package graph

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
	"github.com/koopa0/canvas/internal/web"
)

// generatePath decides the route for this turn. Deterministic signals
// win in a fixed order; only when none are set does the model choose
// between replying and generating or rewriting the artifact.
//
// Along the way it performs the turn's message preparation: attaching
// context documents (or re-encoding a stale document message for the
// current provider, never both), and splicing pasted URL contents into
// the last human message.
func (g *Graph) generatePath(ctx context.Context, in RunInput, t *state.Turn) (state.Route, state.Delta, error) {
	ctx, span := g.tracer.Start(ctx, "graph.generatePath")
	defer span.End()

	delta, err := g.prepareDocuments(ctx, in, t)
	if err != nil {
		return "", state.Delta{}, err
	}

	if route, ok := deterministicRoute(t); ok {
		return route, delta, nil
	}

	if err := g.includeURLContents(ctx, t); err != nil {
		g.logger.Warn("including URL contents failed", "error", err)
	}

	route, err := g.dynamicRoute(ctx, t)
	if err != nil {
		return "", state.Delta{}, err
	}
	return route, delta, nil
}

// deterministicRoute applies the fixed-priority routing signals.
func deterministicRoute(t *state.Turn) (state.Route, bool) {
	switch {
	case t.HighlightedCode != nil:
		return state.RouteUpdateArtifact, true
	case t.HighlightedText != nil:
		return state.RouteUpdateHighlightedText, true
	case t.Language != "" || t.ArtifactLength != "" || t.ReadingLevel != "" || t.RegenerateWithEmojis:
		return state.RouteRewriteArtifactTheme, true
	case t.AddComments || t.AddLogs || t.PortLanguage != "" || t.FixBugs:
		return state.RouteRewriteCodeArtifactTheme, true
	case t.CustomQuickActionID != "":
		return state.RouteCustomAction, true
	case t.WebSearchEnabled:
		return state.RouteWebSearch, true
	}
	return "", false
}

type includeURLChoice struct {
	ShouldIncludeURLContents bool `json:"shouldIncludeUrlContents" jsonschema_description:"Whether or not to include the contents of the URL in the prompt."`
}

// includeURLContents checks the last human message for pasted URLs, asks
// a small model whether the user wants their contents inlined, and if so
// fetches each page and splices it in place of its URL. Pages that fail
// to fetch leave their URL untouched.
func (g *Graph) includeURLContents(ctx context.Context, t *state.Turn) error {
	if len(t.Internal) == 0 {
		return nil
	}
	last := t.Internal[len(t.Internal)-1]
	if last.Role != message.RoleHuman {
		return nil
	}
	text := last.Text()
	urls := web.ExtractURLs(text)
	if len(urls) == 0 {
		return nil
	}

	choice, err := model.Choice[includeURLChoice](ctx, g.client, "",
		[]message.Message{message.NewHuman(fmt.Sprintf(includeURLPrompt, text))},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		return fmt.Errorf("classify URL inclusion: %w", err)
	}
	if !choice.ShouldIncludeURLContents {
		return nil
	}

	contents := g.fetcher.FetchAll(ctx, urls)
	if len(contents) == 0 {
		return nil
	}

	updated := last
	updated.Parts = []*ai.Part{ai.NewTextPart(web.SpliceURLContents(text, contents))}
	t.Internal[len(t.Internal)-1] = updated
	return nil
}

type routeChoice struct {
	Route string `json:"route" jsonschema_description:"The route to take based on the user's query."`
}

// dynamicRoute asks the router model to choose between replying and the
// artifact route available in the current state. An unrecognized answer
// falls back to replying.
func (g *Graph) dynamicRoute(ctx context.Context, t *state.Turn) (state.Route, error) {
	artifactRoute := state.RouteGenerateArtifact
	options := routeOptionsNoArtifact
	if !t.Artifact.Empty() {
		artifactRoute = state.RouteRewriteArtifact
		options = routeOptionsHasArtifact
	}

	prompt := fmt.Sprintf(routeQueryPrompt,
		options,
		message.FormatRecent(t.Internal, 3),
		artifactPromptSection(t.Artifact),
	)

	choice, err := model.Choice[routeChoice](ctx, g.client, "",
		[]message.Message{message.NewHuman(prompt)},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		return "", fmt.Errorf("dynamic route: %w", err)
	}

	switch state.Route(choice.Route) {
	case artifactRoute:
		return artifactRoute, nil
	case state.RouteReplyToGeneralInput:
		return state.RouteReplyToGeneralInput, nil
	default:
		g.logger.Warn("router returned unknown route, defaulting to reply", "route", choice.Route)
		return state.RouteReplyToGeneralInput, nil
	}
}
