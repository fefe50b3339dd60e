package web

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/koopa0/canvas/internal/log"
)

const fetcherUserAgent = "canvas-agent/1.0"

// FetchConfig tunes the page fetcher.
type FetchConfig struct {
	Timeout     time.Duration
	MaxBodySize int
	PerSecond   float64
}

// Fetcher retrieves web pages and extracts their readable text. Article
// extraction is attempted first; pages readability cannot parse fall back
// to a plain tag-stripping walk.
type Fetcher struct {
	collector *colly.Collector
	limiter   *rate.Limiter
	logger    log.Logger
}

// NewFetcher creates a rate-limited page fetcher.
func NewFetcher(cfg FetchConfig, logger log.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 4 << 20
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 2
	}
	if logger == nil {
		logger = log.NewNop()
	}

	c := colly.NewCollector(
		colly.UserAgent(fetcherUserAgent),
		colly.MaxBodySize(cfg.MaxBodySize),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		collector: c,
		limiter:   rate.NewLimiter(rate.Limit(cfg.PerSecond), 1),
		logger:    logger.With("component", "fetcher"),
	}
}

// Fetch retrieves one page and returns its extracted text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", fmt.Errorf("validate %s: %w", rawURL, err)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var (
		body     []byte
		fetchErr error
	)
	c := f.collector.Clone()
	c.OnResponse(func(r *colly.Response) { body = r.Body })
	c.OnError(func(_ *colly.Response, err error) { fetchErr = err })

	if err := c.Visit(rawURL); err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	c.Wait()
	if fetchErr != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("fetch %s: empty response", rawURL)
	}
	return f.extract(rawURL, body), nil
}

// FetchAll retrieves several pages, returning the text keyed by URL.
// Pages that fail are logged and left out of the result.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) map[string]string {
	contents := make(map[string]string, len(urls))
	for _, u := range urls {
		text, err := f.Fetch(ctx, u)
		if err != nil {
			f.logger.Warn("page fetch failed", "url", u, "error", err)
			continue
		}
		contents[u] = text
	}
	return contents
}

func (f *Fetcher) extract(rawURL string, body []byte) string {
	pageURL, _ := url.Parse(rawURL)
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		text := strings.TrimSpace(article.TextContent)
		if text != "" {
			if article.Title != "" {
				return article.Title + "\n\n" + text
			}
			return text
		}
	}

	title := pageTitle(body)
	text := strings.TrimSpace(textFromHTML(body))
	if title != "" && text != "" {
		return title + "\n\n" + text
	}
	return title + text
}

func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// textFromHTML walks the parse tree collecting text nodes, skipping
// script and style subtrees.
func textFromHTML(body []byte) string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return b.String()
}

// SpliceURLContents replaces each URL occurrence in the text with its
// fetched page contents wrapped in a page-contents block. URLs missing
// from the contents map are left as-is. Longer URLs are substituted
// first so a URL that prefixes another is not clobbered.
func SpliceURLContents(text string, contents map[string]string) string {
	urls := make([]string, 0, len(contents))
	for u := range contents {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool { return len(urls[i]) > len(urls[j]) })

	for _, u := range urls {
		block := fmt.Sprintf("<page-contents url=%q>\n%s\n</page-contents>", u, contents[u])
		text = strings.ReplaceAll(text, u, block)
	}
	return text
}
