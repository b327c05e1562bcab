package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultWebURL is the HTML-only DuckDuckGo endpoint.
const DefaultWebURL = "https://html.duckduckgo.com/html/"

// QuerySuffix narrows every web search to the clean energy industry.
const QuerySuffix = " clean energy industry"

const (
	missingTitle   = "No Title"
	missingLink    = "No Link"
	missingSnippet = "No Snippet"
)

// WebSearcher searches the web through DuckDuckGo's HTML results page.
type WebSearcher struct {
	fetcher Fetcher
	baseURL string
	limit   int
	logger  *zap.Logger
}

// WebOption configures a WebSearcher.
type WebOption func(*WebSearcher)

// WithWebURL overrides the results page endpoint.
func WithWebURL(u string) WebOption {
	return func(s *WebSearcher) { s.baseURL = u }
}

// WithWebLimit sets how many results are kept.
func WithWebLimit(n int) WebOption {
	return func(s *WebSearcher) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithWebLogger sets the logger.
func WithWebLogger(l *zap.Logger) WebOption {
	return func(s *WebSearcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewWebSearcher creates a WebSearcher that fetches pages with f.
func NewWebSearcher(f Fetcher, opts ...WebOption) *WebSearcher {
	s := &WebSearcher{
		fetcher: f,
		baseURL: DefaultWebURL,
		limit:   DefaultLimit,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchURL returns the results page URL for a query.
func (s *WebSearcher) SearchURL(query string) string {
	return s.baseURL + "?q=" + url.QueryEscape(query+QuerySuffix)
}

// Search returns the top results for query.
func (s *WebSearcher) Search(ctx context.Context, query string) ([]Record, error) {
	target := s.SearchURL(query)
	s.logger.Debug("web search", zap.String("query", query), zap.String("url", target))

	doc, err := fetchDocument(ctx, s.fetcher, "Search", target)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, s.limit)
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		records = append(records, parseWebResult(sel))
		return len(records) < s.limit
	})
	return records, nil
}

// Run searches and renders the results as text for the advisor. Errors are
// rendered rather than returned.
func (s *WebSearcher) Run(ctx context.Context, query string) string {
	records, err := s.Search(ctx, query)
	if err != nil {
		s.logger.Warn("web search failed", zap.String("query", query), zap.Error(err))
		return "Error performing web search: " + describe(err)
	}
	return FormatWebResults(records)
}

func parseWebResult(sel *goquery.Selection) Record {
	r := Record{Title: missingTitle, Link: missingLink, Detail: missingSnippet}
	if t := sel.Find(".result__title").First(); t.Length() > 0 {
		r.Title = text(t)
	}
	if u := sel.Find(".result__url").First(); u.Length() > 0 {
		r.Link = normalizeLink(text(u))
	}
	if d := sel.Find(".result__snippet").First(); d.Length() > 0 {
		r.Detail = text(d)
	}
	return r
}

// normalizeLink adds a scheme to the bare host/path DuckDuckGo displays.
func normalizeLink(link string) string {
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return "https://" + link
}

// FormatWebResults renders web records as numbered text blocks.
func FormatWebResults(records []Record) string {
	var b strings.Builder
	b.WriteString("Web Search Results:\n\n")
	if len(records) == 0 {
		b.WriteString("No relevant search results found.\n")
		return b.String()
	}
	for i, r := range records {
		fmt.Fprintf(&b, "[Result %d]\nTitle: %s\nSnippet: %s\nURL: %s\n\n", i+1, r.Title, r.Detail, r.Link)
	}
	return b.String()
}

// describe renders a search failure for the advisor. Status failures read
// "Search returned status code N".
func describe(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode != 0 {
		return fmt.Sprintf("%s returned status code %d", svcErr.Service, svcErr.StatusCode)
	}
	return err.Error()
}
