// Package fetch - reader.go combines HTTP fetching, browser fallback and a
// short-lived in-memory page cache.
package fetch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultCacheTTL is how long a fetched page is reused within a process.
const DefaultCacheTTL = 10 * time.Minute

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	Options    *Options
	UseBrowser bool
	// Renderer defaults to BrowserRenderer when UseBrowser is set.
	Renderer Renderer
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type cachedPage struct {
	result    *Result
	fetchedAt time.Time
}

// Reader fetches pages for the search and page-reading tools. It is safe for
// concurrent use.
type Reader struct {
	opts       *Options
	useBrowser bool
	render     Renderer
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedPage
}

// NewReader creates a Reader. A nil config uses defaults without a browser.
func NewReader(cfg *ReaderConfig) *Reader {
	if cfg == nil {
		cfg = &ReaderConfig{}
	}
	r := &Reader{
		opts:       cfg.Options,
		useBrowser: cfg.UseBrowser,
		render:     cfg.Renderer,
		ttl:        cfg.CacheTTL,
		logger:     cfg.Logger,
		now:        time.Now,
		cache:      make(map[string]cachedPage),
	}
	if r.opts == nil {
		r.opts = DefaultOptions()
	}
	if r.ttl == 0 {
		r.ttl = DefaultCacheTTL
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.useBrowser && r.render == nil {
		r.render = BrowserRenderer(r.logger)
	}
	return r
}

// Fetch returns the HTML of a page. Pages whose extracted text looks empty are
// re-rendered in the browser when browser use is enabled. On a non-200 status the
// partial Result is returned together with an *Error.
func (r *Reader) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if cached, ok := r.lookup(urlStr); ok {
		return cached, nil
	}

	result, err := URL(ctx, urlStr, r.opts)
	if err != nil {
		if !r.useBrowser || (result != nil && result.StatusCode != http.StatusOK) {
			return result, err
		}
		r.logger.Debug("http fetch failed, rendering in browser", zap.String("url", urlStr), zap.Error(err))
		return r.renderPage(ctx, urlStr)
	}

	if r.useBrowser {
		text, _ := ExtractMainText(result.HTML, ContentSelectors(DetectSource(urlStr)))
		if ShouldUseBrowser(text) {
			if rendered, rerr := r.renderPage(ctx, urlStr); rerr == nil {
				return rendered, nil
			}
		}
	}

	r.store(urlStr, result)
	return result, nil
}

// Read fetches a page and returns its main text.
func (r *Reader) Read(ctx context.Context, urlStr string) (string, error) {
	result, err := r.Fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	source := DetectSource(urlStr)
	text, err := ExtractMainText(result.HTML, ContentSelectors(source), NoiseSelectors(source)...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	return text, nil
}

func (r *Reader) renderPage(ctx context.Context, urlStr string) (*Result, error) {
	if r.render == nil {
		return nil, &Error{URL: urlStr, Message: "browser rendering disabled"}
	}
	html, err := r.render(ctx, urlStr, r.opts.Timeout)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	result := &Result{URL: urlStr, HTML: html, StatusCode: http.StatusOK, ContentType: "text/html"}
	r.store(urlStr, result)
	return result, nil
}

func (r *Reader) lookup(urlStr string) (*Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.cache[urlStr]
	if !ok {
		return nil, false
	}
	if r.now().Sub(page.fetchedAt) > r.ttl {
		delete(r.cache, urlStr)
		return nil, false
	}
	return page.result, true
}

func (r *Reader) store(urlStr string, result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[urlStr] = cachedPage{result: result, fetchedAt: r.now()}
}

// Invalidate drops a cached page.
func (r *Reader) Invalidate(urlStr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, urlStr)
}

// IsStatus reports whether err is a fetch error for an HTTP status response.
func IsStatus(err error, result *Result) bool {
	var fErr *Error
	return errors.As(err, &fErr) && result != nil && result.StatusCode != 0 && result.StatusCode != http.StatusOK
}

// Truncate caps text at limit bytes on a rune boundary, appending "..." when cut.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
