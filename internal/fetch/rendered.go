package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultRenderTimeout bounds a full headless-Chromium page load.
const DefaultRenderTimeout = 30 * time.Second

// RenderedOptions defines parameters for a Chromium-based page fetch.
type RenderedOptions struct {
	// URL of the page to render.
	URL string

	// WaitVisible is an optional CSS selector to wait for before reading
	// the DOM, for listings that populate asynchronously. If empty, "body"
	// is used.
	WaitVisible string

	// Timeout bounds the entire render. If zero, DefaultRenderTimeout.
	Timeout time.Duration
}

// RenderedText launches a headless Chromium instance via chromedp, navigates
// to opts.URL, waits for the page to become visible, and returns the fully
// rendered document HTML. Used for event listings whose markup is built
// client-side and therefore invisible to a plain GET.
func RenderedText(parentCtx context.Context, opts RenderedOptions) (string, error) {
	if opts.URL == "" {
		return "", errors.New("render: URL is required")
	}
	if opts.WaitVisible == "" {
		opts.WaitVisible = "body"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRenderTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(opts.WaitVisible, chromedp.ByQuery),
		// Small extra delay to let late scripts fill in listings.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", fmt.Errorf("render %s: chromedp run failed: %w", opts.URL, err)
	}
	return html, nil
}
