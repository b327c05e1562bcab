// Package search scrapes the web and job-board results the advisor's tools
// return. Backends are HTML pages parsed with goquery; failures are reported as
// *ServiceError and rendered as plain text at the tool boundary by Run.
package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/career-guide/internal/fetch"
)

// DefaultLimit is the number of records kept per search.
const DefaultLimit = 5

// Record is one search hit.
type Record struct {
	Title    string
	Detail   string
	Company  string
	Location string
	Link     string
}

// Fetcher returns the HTML of a page. *fetch.Reader implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// fetchDocument fetches a page and parses it, mapping failures to *ServiceError.
func fetchDocument(ctx context.Context, f Fetcher, service, url string) (*goquery.Document, error) {
	result, err := f.Fetch(ctx, url)
	if err != nil {
		svcErr := &ServiceError{Service: service, URL: url, Cause: err}
		if result != nil && result.StatusCode != http.StatusOK {
			svcErr.StatusCode = result.StatusCode
		}
		return nil, svcErr
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, &ServiceError{Service: service, URL: url, Cause: err}
	}
	return doc, nil
}

// text returns the selection's text with whitespace collapsed.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
