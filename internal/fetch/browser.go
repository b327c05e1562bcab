package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP
// fetch. Shorter pages are treated as script-rendered.
const MinContentLength = 500

// settleDelay gives client-side job boards time to fill their result lists.
const settleDelay = 2 * time.Second

// consentButtons matches cookie banners that hide page content until dismissed.
const consentButtons = `button[id*="accept"], button[class*="accept"]`

// Renderer returns the rendered HTML of a page.
type Renderer func(ctx context.Context, url string, timeout time.Duration) (string, error)

// ShouldUseBrowser reports whether text extracted over plain HTTP is too thin to use.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserRenderer returns a Renderer backed by a local headless Chrome.
func BrowserRenderer(logger *zap.Logger) Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, url string, timeout time.Duration) (string, error) {
		return WithBrowser(ctx, url, timeout, logger)
	}
}

func allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := make([]chromedp.ExecAllocatorOption, 0, len(chromedp.DefaultExecAllocatorOptions)+5)
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
	return append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(DefaultUserAgent),
	)
}

// WithBrowser loads url in headless Chrome and returns the page HTML once it has
// settled. Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions()...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	dismissConsent := chromedp.ActionFunc(func(ctx context.Context) error {
		// absent banners are fine
		_ = chromedp.Click(consentButtons, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
		return nil
	})

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settleDelay),
		dismissConsent,
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page in browser",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Duration("elapsed", time.Since(start)))
	return html, nil
}
