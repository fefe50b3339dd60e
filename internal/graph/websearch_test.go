package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/graph"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/web"
)

type fakeSearch struct {
	query   string
	results []web.SearchResult
	err     error
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]web.SearchResult, error) {
	f.query = query
	return f.results, f.err
}

func TestRunWebSearch(t *testing.T) {
	t.Parallel()

	fake := &fakeSearch{results: []web.SearchResult{{
		URL:     "https://go.dev/blog/go1.25",
		Title:   "Go 1.25 Released",
		Content: "Go 1.25 ships with faster builds.",
	}}}
	h := newHarness(t, func(d *graph.Deps) { d.Search = fake })

	h.mock.AddJSONResponse("classifying the user's latest message", map[string]any{"shouldSearch": true})
	h.mock.AddResponse("writing a query to search the web", "go 1.25 release notes")
	h.mock.AddJSONResponse("generating a new artifact", map[string]any{
		"type":     "text",
		"language": "other",
		"artifact": "# Go 1.25\n\nFaster builds.",
		"title":    "Go 1.25 Summary",
	})
	h.mock.AddResponse("generating a followup", "Summary's ready!")

	turn := turnWith("what's new in go 1.25?")
	turn.WebSearchEnabled = true

	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	assert.Equal(t, "go 1.25 release notes", fake.query)

	// Results land as a hidden message in both histories.
	hidden, ok := findMarked(turn.Internal, message.WebSearchResultsKey)
	require.True(t, ok)
	assert.True(t, hidden.Marked(message.HideFromUIKey))
	assert.Contains(t, hidden.Text(), "Go 1.25 ships with faster builds.")

	var stored []web.SearchResult
	raw, _ := hidden.Metadata["webSearchResults"].(string)
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "https://go.dev/blog/go1.25", stored[0].URL)

	_, ok = findMarked(turn.Messages, message.WebSearchResultsKey)
	assert.True(t, ok)

	// The search route falls through to artifact generation.
	assert.False(t, turn.Artifact.Empty())
	assert.Nil(t, turn.WebSearchResults)
}

func TestRunWebSearchProviderFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeSearch{err: errors.New("search provider is down")}
	h := newHarness(t, func(d *graph.Deps) { d.Search = fake })

	h.mock.AddJSONResponse("classifying the user's latest message", map[string]any{"shouldSearch": true})
	h.mock.AddResponse("writing a query to search the web", "go 1.25 release notes")
	h.mock.AddJSONResponse("generating a new artifact", map[string]any{
		"type":     "text",
		"language": "other",
		"artifact": "# Go 1.25\n\nWhat I know offline.",
		"title":    "Go 1.25 Summary",
	})
	h.mock.AddResponse("generating a followup", "Done!")

	turn := turnWith("what's new in go 1.25?")
	turn.WebSearchEnabled = true

	// The failed search is swallowed; the turn completes without results.
	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	assert.Equal(t, "go 1.25 release notes", fake.query)
	_, ok := findMarked(turn.Internal, message.WebSearchResultsKey)
	assert.False(t, ok)
	assert.False(t, turn.Artifact.Empty())
}

func TestRunWebSearchDeclined(t *testing.T) {
	t.Parallel()

	fake := &fakeSearch{}
	h := newHarness(t, func(d *graph.Deps) { d.Search = fake })

	h.mock.AddJSONResponse("classifying the user's latest message", map[string]any{"shouldSearch": false})
	h.mock.AddJSONResponse("generating a new artifact", map[string]any{
		"type":     "text",
		"language": "other",
		"artifact": "Poem body",
		"title":    "Poem",
	})
	h.mock.AddResponse("generating a followup", "Done!")

	turn := turnWith("write me a poem")
	turn.WebSearchEnabled = true

	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	assert.Empty(t, fake.query)
	_, ok := findMarked(turn.Internal, message.WebSearchResultsKey)
	assert.False(t, ok)
	assert.False(t, turn.Artifact.Empty())
}

func TestRunWebSearchWithoutClient(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddJSONResponse("generating a new artifact", map[string]any{
		"type":     "text",
		"language": "other",
		"artifact": "Body",
		"title":    "Title",
	})
	h.mock.AddResponse("generating a followup", "Done!")

	turn := turnWith("search for something")
	turn.WebSearchEnabled = true

	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	_, ok := findMarked(turn.Internal, message.WebSearchResultsKey)
	assert.False(t, ok)
	assert.False(t, turn.Artifact.Empty())
}

func TestRunWebSearchRewritesExistingArtifact(t *testing.T) {
	t.Parallel()

	fake := &fakeSearch{results: []web.SearchResult{{
		URL: "https://example.com", Title: "Example", Content: "Fresh facts.",
	}}}
	h := newHarness(t, func(d *graph.Deps) { d.Search = fake })

	h.mock.AddJSONResponse("classifying the user's latest message", map[string]any{"shouldSearch": true})
	h.mock.AddResponse("writing a query to search the web", "fresh facts")
	h.mock.AddJSONResponse("analyzing the user's request to rewrite an artifact", map[string]any{
		"type": "text",
	})
	h.mock.AddResponse("requested you make an update to an artifact", "Updated with fresh facts")
	h.mock.AddResponse("generating a followup", "Refreshed!")

	turn := markdownTurn("update my doc with current info", "Stale body")
	turn.WebSearchEnabled = true

	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	require.Len(t, turn.Artifact.Contents, 2)
	assert.Equal(t, "Updated with fresh facts", currentMarkdown(t, turn).Markdown)
}
