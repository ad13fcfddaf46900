// Package browser wraps a headless Chrome instance. Each scraped platform
// gets its own background tab so pages load and fail independently.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Session owns one browser process shared by all tabs of a scrape cycle.
type Session struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	rootCtx     context.Context
	cancelRoot  context.CancelFunc
}

// Options configures the browser process.
type Options struct {
	ChromeBin string
	Headless  bool
	UserAgent string
}

// NewSession starts the allocator. The browser process itself launches
// lazily with the first tab.
func NewSession(opts Options) (*Session, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	chromeBin := opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(ua),
	)
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	// Root tab context; real tabs branch off it so they share the process.
	// Suppress chromedp log noise.
	rootCtx, cancelRoot := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Session{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		rootCtx:     rootCtx,
		cancelRoot:  cancelRoot,
	}, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancelRoot()
	s.cancelAlloc()
}

// Tab is one background page context.
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewTab opens a fresh tab in the shared browser.
func (s *Session) NewTab() *Tab {
	ctx, cancel := chromedp.NewContext(s.rootCtx)
	return &Tab{ctx: ctx, cancel: cancel}
}

// Close discards the tab.
func (t *Tab) Close() {
	t.cancel()
}

// Navigate loads a URL in the tab.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	tctx, cancel := mergeDeadline(t.ctx, ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until selector appears, or timeout elapses. A timeout is
// not an error: the caller proceeds with whatever rendered.
func (t *Tab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool {
	tctx, cancel := mergeDeadline(t.ctx, ctx)
	defer cancel()
	wctx, wcancel := context.WithTimeout(tctx, timeout)
	defer wcancel()
	err := chromedp.Run(wctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	return err == nil
}

// HTML returns the document's current outer HTML.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	tctx, cancel := mergeDeadline(t.ctx, ctx)
	defer cancel()
	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page html: %w", err)
	}
	return html, nil
}

// Click dispatches a click on the first node matching selector, used to
// expand collapsed detail panels.
func (t *Tab) Click(ctx context.Context, selector string) error {
	tctx, cancel := mergeDeadline(t.ctx, ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// mergeDeadline applies the caller context's deadline and cancellation to the
// tab context, so a scrape timeout aborts in-flight CDP calls.
func mergeDeadline(tabCtx, callCtx context.Context) (context.Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if deadline, ok := callCtx.Deadline(); ok {
		ctx, cancel = context.WithDeadline(tabCtx, deadline)
	} else {
		ctx, cancel = context.WithCancel(tabCtx)
	}
	stop := context.AfterFunc(callCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// findChromeBinary locates an installed Chrome/Chromium.
func findChromeBinary() string {
	candidates := []string{
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}
