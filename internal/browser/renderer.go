// internal/browser/renderer.go

// Package browser renders detail pages through headless Chrome for the few
// announcements whose attachment markup only exists after script execution.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Config tunes the headless browser.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	WaitForElement string // optional CSS selector to wait for
	WaitDelay      time.Duration
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.WaitDelay == 0 {
		c.WaitDelay = 500 * time.Millisecond
	}
}

// Renderer owns one headless Chrome instance, reused across pages.
type Renderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	config      Config
}

// NewRenderer starts the browser allocator. The browser itself launches
// lazily on the first render.
func NewRenderer(config Config) *Renderer {
	config.applyDefaults()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // required for container environments
		chromedp.Headless,
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Renderer{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		config:      config,
	}
}

// RenderHTML loads the page, waits for scripts to settle, and returns the
// resulting document markup.
func (r *Renderer) RenderHTML(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()

	runCtx, cancel := context.WithTimeout(tabCtx, r.config.Timeout)
	defer cancel()

	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if r.config.WaitForElement != "" {
		tasks = append(tasks, chromedp.WaitVisible(r.config.WaitForElement))
	}
	tasks = append(tasks, chromedp.Sleep(r.config.WaitDelay))

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, tasks...) }()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", url, err)
		}
		return html, nil
	case <-ctx.Done():
		cancel()
		<-done
		return "", ctx.Err()
	}
}

// Close shuts the browser down.
func (r *Renderer) Close() {
	r.allocCancel()
}
