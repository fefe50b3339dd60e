package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
	"github.com/koopa0/canvas/internal/web"
)

type searchClassification struct {
	ShouldSearch bool `json:"shouldSearch" jsonschema_description:"Whether or not to search the web based on the user's latest message."`
}

// webSearch runs the search subgraph: classify whether the latest
// message warrants a search, generate a query, execute it, and record
// the results as a hidden message. It then routes to the artifact
// handler appropriate for the current state.
func (g *Graph) webSearch(ctx context.Context, in RunInput, t *state.Turn) (state.Delta, error) {
	results, err := g.runSearch(ctx, t)
	if err != nil {
		return state.Delta{}, err
	}

	if len(results) > 0 {
		t.WebSearchResults = results
		resultsMsg, err := searchResultsMessage(results)
		if err != nil {
			return state.Delta{}, err
		}
		t.Apply(state.Delta{
			Messages: []message.Message{resultsMsg},
			Internal: []message.Message{resultsMsg},
		})
	}

	return g.dispatch(ctx, g.routePostWebSearch(t), in, t)
}

// routePostWebSearch picks the artifact handler to run after the search
// completes.
func (g *Graph) routePostWebSearch(t *state.Turn) state.Route {
	if t.Artifact.Empty() {
		return state.RouteGenerateArtifact
	}
	return state.RouteRewriteArtifact
}

// runSearch classifies, builds the query, and executes the search. A
// provider failure degrades to no results so the turn still completes.
func (g *Graph) runSearch(ctx context.Context, t *state.Turn) ([]web.SearchResult, error) {
	ctx, span := g.tracer.Start(ctx, "graph.webSearch.subgraph")
	defer span.End()

	if g.search == nil {
		g.logger.Warn("web search requested but no search client configured")
		return nil, nil
	}

	last, ok := message.LastHuman(t.Internal)
	if !ok {
		return nil, ErrNoRecentHuman
	}

	classification, err := model.Choice[searchClassification](ctx, g.client, "",
		[]message.Message{message.NewHuman(fmt.Sprintf(classifierPrompt, last.Text()))},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		return nil, fmt.Errorf("classify search intent: %w", err)
	}
	if !classification.ShouldSearch {
		return nil, nil
	}

	query, err := g.generateSearchQuery(ctx, t)
	if err != nil {
		return nil, err
	}

	results, err := g.search.Search(ctx, query)
	if err != nil {
		g.logger.Warn("web search failed, continuing without results", "error", err)
		return nil, nil
	}
	return results, nil
}

// generateSearchQuery turns the latest message into a search engine
// friendly query. A failure falls back to the raw message text.
func (g *Graph) generateSearchQuery(ctx context.Context, t *state.Turn) (string, error) {
	prompt := fmt.Sprintf(queryGeneratorPrompt,
		message.FormatConversation(t.Internal),
		"The current date is "+time.Now().Format("Jan 2, 2006, 3:04 PM"),
	)

	query, err := g.client.Generate(ctx, "",
		[]message.Message{message.NewHuman(prompt)},
		model.Options{Model: g.cfg.RouterModel, Temperature: model.Temp(0)})
	if err != nil {
		last, ok := message.LastHuman(t.Internal)
		if !ok {
			return "", fmt.Errorf("generate search query: %w", err)
		}
		g.logger.Warn("query generation failed, using raw message", "error", err)
		return last.Text(), nil
	}
	return strings.TrimSpace(query), nil
}

// searchResultsMessage renders the results as a hidden human message so
// downstream handlers see them as conversation context.
func searchResultsMessage(results []web.SearchResult) (message.Message, error) {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "<result url=%q title=%q>\n%s\n</result>", r.URL, r.Title, r.Content)
	}

	raw, err := json.Marshal(results)
	if err != nil {
		return message.Message{}, fmt.Errorf("marshal search results: %w", err)
	}

	msg := message.NewHuman(fmt.Sprintf(webSearchResultsPrompt, b.String())).
		WithMarker(message.HideFromUIKey).
		WithMarker(message.WebSearchResultsKey)
	msg.Metadata["webSearchResults"] = string(raw)
	return msg, nil
}
