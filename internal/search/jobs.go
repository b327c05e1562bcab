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

// DefaultJobsURL is LinkedIn's public job search page.
const DefaultJobsURL = "https://www.linkedin.com/jobs/search"

// AnyLocation is used when a job query names no location.
const AnyLocation = "anywhere"

var jobQueryPrefixes = []string{"search for", "find", "look for", "search"}

var jobSearchPhrases = []string{
	"search for",
	"find jobs",
	"look for jobs",
	"job search",
	"find positions",
	"search jobs",
}

// JobSearcher searches LinkedIn's public job listings.
type JobSearcher struct {
	fetcher Fetcher
	baseURL string
	limit   int
	logger  *zap.Logger
}

// JobOption configures a JobSearcher.
type JobOption func(*JobSearcher)

// WithJobsURL overrides the job search endpoint.
func WithJobsURL(u string) JobOption {
	return func(s *JobSearcher) { s.baseURL = u }
}

// WithJobLimit sets how many listings are kept.
func WithJobLimit(n int) JobOption {
	return func(s *JobSearcher) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithJobLogger sets the logger.
func WithJobLogger(l *zap.Logger) JobOption {
	return func(s *JobSearcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewJobSearcher creates a JobSearcher that fetches pages with f.
func NewJobSearcher(f Fetcher, opts ...JobOption) *JobSearcher {
	s := &JobSearcher{
		fetcher: f,
		baseURL: DefaultJobsURL,
		limit:   DefaultLimit,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchURL returns the listing page URL for a title and location.
func (s *JobSearcher) SearchURL(title, location string) string {
	q := url.Values{}
	q.Set("keywords", title)
	q.Set("location", location)
	q.Set("pageNum", "0")
	return s.baseURL + "?" + q.Encode()
}

// Search returns the top listings for title in location. Cards missing a
// title, company, location or link are skipped.
func (s *JobSearcher) Search(ctx context.Context, title, location string) ([]Record, error) {
	target := s.SearchURL(title, location)
	s.logger.Debug("job search", zap.String("title", title), zap.String("location", location))

	doc, err := fetchDocument(ctx, s.fetcher, "LinkedIn", target)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, s.limit)
	doc.Find("div.job-search-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		r, ok := parseJobCard(card)
		if !ok {
			return true
		}
		records = append(records, r)
		return len(records) < s.limit
	})
	return records, nil
}

// Run parses a free-form query, searches and renders the listings as text for
// the advisor. Errors are rendered rather than returned.
func (s *JobSearcher) Run(ctx context.Context, query string) string {
	title, location := ParseJobQuery(query)
	records, err := s.Search(ctx, title, location)
	if err != nil {
		s.logger.Warn("job search failed", zap.String("query", query), zap.Error(err))
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode != 0 {
			return fmt.Sprintf("Failed to fetch job listings (Status code: %d).", svcErr.StatusCode)
		}
		return "Error searching for jobs: " + err.Error()
	}
	return FormatJobResults(records, title, location)
}

func parseJobCard(card *goquery.Selection) (Record, bool) {
	title := card.Find("h3.base-search-card__title").First()
	company := card.Find("a.hidden-nested-link").First()
	location := card.Find("span.job-search-card__location").First()
	link := card.Find("a.base-card__full-link").First()
	if title.Length() == 0 || company.Length() == 0 || location.Length() == 0 || link.Length() == 0 {
		return Record{}, false
	}
	href, ok := link.Attr("href")
	if !ok {
		return Record{}, false
	}
	return Record{
		Title:    text(title),
		Company:  text(company),
		Location: text(location),
		Link:     strings.TrimSpace(href),
	}, true
}

// FormatJobResults renders job listings for a title and location.
func FormatJobResults(records []Record, title, location string) string {
	if len(records) == 0 {
		return fmt.Sprintf("No job listings found for '%s' in '%s'.", title, location)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d job listings for '%s' in '%s':\n\n", len(records), title, location)
	for _, r := range records {
		fmt.Fprintf(&b, "Title: %s\nCompany: %s\nLocation: %s\nJob Link: %s\n\n", r.Title, r.Company, r.Location, r.Link)
	}
	return b.String()
}

// ParseJobQuery splits "find solar installer jobs in Denver" into a title and a
// location. A leading request verb is dropped only when it is a whole word, so
// "findings analyst" keeps its title; the location defaults to AnyLocation.
func ParseJobQuery(query string) (title, location string) {
	q := strings.TrimSpace(query)
	for _, prefix := range jobQueryPrefixes {
		if len(q) < len(prefix) || !strings.EqualFold(q[:len(prefix)], prefix) {
			continue
		}
		if rest := q[len(prefix):]; rest == "" || rest[0] == ' ' {
			q = strings.TrimSpace(rest)
			break
		}
	}
	return SplitJobQuery(q)
}

// SplitJobQuery splits on the first " in ".
func SplitJobQuery(query string) (title, location string) {
	title, location, found := strings.Cut(query, " in ")
	title = strings.TrimSpace(title)
	location = strings.TrimSpace(location)
	if !found || location == "" {
		location = AnyLocation
	}
	return title, location
}

// IsJobSearchRequest reports whether text asks for a job search.
func IsJobSearchRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range jobSearchPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
