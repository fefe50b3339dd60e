// Package web provides the search and page-retrieval services used to
// ground responses in external content.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/koopa0/canvas/internal/log"
)

// SearchResult is one hit from a web search.
type SearchResult struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

// SearchClient performs a web search for a query.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// ExaClient searches through the Exa HTTP API.
type ExaClient struct {
	baseURL    string
	apiKey     string
	numResults int
	httpClient *http.Client
	logger     log.Logger
}

// NewExaClient creates a search client. numResults of zero defaults to 5.
func NewExaClient(baseURL, apiKey string, numResults int, logger log.Logger) *ExaClient {
	if numResults <= 0 {
		numResults = 5
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &ExaClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		numResults: numResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "search"),
	}
}

type exaRequest struct {
	Query      string      `json:"query"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaResponse struct {
	Results []struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		Text          string `json:"text"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// Search runs the query and returns result pages with their text content.
func (c *ExaClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	payload, err := json.Marshal(exaRequest{
		Query:      query,
		NumResults: c.numResults,
		Contents:   exaContents{Text: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var decoded exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		results = append(results, SearchResult{
			URL:           r.URL,
			Title:         r.Title,
			Content:       r.Text,
			PublishedDate: r.PublishedDate,
		})
	}
	c.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}
