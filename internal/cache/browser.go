package cache

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	derr "saimgo/internal/errors"
	"saimgo/internal/model"
)

const (
	browserNavTimeout  = 30 * time.Second
	browserIdleTimeout = 60 * time.Second
	browserMinPad      = 6 * time.Second
)

// BrowserAdapter fetches a page through a headless Chrome instance for
// sites that only render their catalogue entries via JavaScript, mirroring
// the original system's Playwright-backed browser adapter. It is grounded
// on the teacher crawler's chromedp usage (tools/crawler/chromedp_crawler.go)
// with the original's pad-to-minimum wait. Chrome runs with image loading
// disabled; no other resource type is blocked, and the page is captured
// once its body is ready, without waiting for the network to go idle
// (browserIdleTimeout is not used).
type BrowserAdapter struct {
	allocCtx   context.Context
	allocClose context.CancelFunc
}

// NewBrowserAdapter starts a headless Chrome allocator shared by every
// Send call until Close is invoked.
func NewBrowserAdapter() *BrowserAdapter {
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(),
		append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("blink-settings", "imagesEnabled=false"))...)
	return &BrowserAdapter{allocCtx: allocCtx, allocClose: cancel}
}

// Fetch navigates to url and returns its rendered HTML, retrying once,
// immediately, when the first attempt fails for any reason. It pads the total wait to at least
// browserMinPad so fast-resolving single-page apps still get a stable
// render before the DOM is captured, matching the original adapter's
// fixed minimum wait.
func (b *BrowserAdapter) Fetch(ctx context.Context, url string) (model.CachedPageResp, error) {
	start := time.Now()
	html, statusCode, err := b.fetch(ctx, url)
	if err != nil {
		html, statusCode, err = b.fetch(ctx, url)
		if err != nil {
			return model.CachedPageResp{}, derr.NewRequestURIError(url, err)
		}
	}
	if elapsed := time.Since(start); elapsed < browserMinPad {
		time.Sleep(browserMinPad - elapsed)
	}
	return model.CachedPageResp{StatusCode: statusCode, Body: html}, nil
}

func (b *BrowserAdapter) fetch(ctx context.Context, url string) (string, int, error) {
	tabCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	navCtx, navCancel := context.WithTimeout(tabCtx, browserNavTimeout)
	defer navCancel()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", 0, err
	}
	return html, 200, nil
}

// Close tears down the shared Chrome allocator.
func (b *BrowserAdapter) Close() error {
	b.allocClose()
	return nil
}
