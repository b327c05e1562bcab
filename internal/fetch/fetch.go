// Package fetch provides URL fetching and HTML-to-text processing for the advisor's
// web tools. Search scrapers and the page reader share this HTTP path.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent is a desktop browser user agent; search and job boards serve
// reduced or blocked pages to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 5 << 20

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures URL.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// DefaultOptions returns browser-like defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// URL performs a GET and returns the body. A non-200 response returns the
// Result together with an *Error so callers can inspect StatusCode.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	fail := func(msg string, cause error) error {
		return &Error{URL: urlStr, Message: msg, Cause: cause}
	}

	if u, err := url.Parse(urlStr); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fail("invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fail("failed to create request", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fail("HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body io.Reader = resp.Body
	if opts.MaxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, opts.MaxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fail("failed to read response body", err)
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(raw),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, fail(fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	return result, nil
}

// boilerplate is stripped from every page before text extraction.
const boilerplate = "nav, footer, header, script, style, noscript, form, iframe, svg, " +
	".ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup, [aria-hidden='true']"

// ExtractMainText returns the text of the first element matching one of
// contentSelectors, or of body when none match, after removing boilerplate and
// noiseSelectors. Blank lines are dropped.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if noise := strings.Join(noiseSelectors, ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	return cleanWhitespace(content.Text()), nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// ArticleSelectors returns selectors for news and career-advice articles, the
// pages web search results usually point at.
func ArticleSelectors() []string {
	return []string{
		"article",
		"[role='main']",
		".post-content",
		".entry-content",
		".article-body",
		"main",
		"#content",
	}
}

// cleanWhitespace trims every line, collapses runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
