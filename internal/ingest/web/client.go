package web

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// UserAgent mimics a desktop browser; the scoreboard site serves a
	// stripped page to obvious bot agents.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	fetchTimeout  = 15 * time.Second
	renderTimeout = 30 * time.Second
	maxBodyBytes  = 4 << 20
)

// Client fetches scoreboard pages. A plain HTTP GET is tried first; if the
// site rejects it, the page is re-fetched through a headless browser, which
// also picks up JS-rendered markup.
type Client struct {
	httpClient *http.Client

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a scoreboard fetch client with a lazily used headless
// browser allocator for the rendered-fetch fallback.
func NewClient() *Client {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		allocCtx:   allocCtx,
		cancel:     cancel,
	}
}

// Close releases the browser allocator.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Fetch returns the page HTML for url, best effort.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	html, err := c.fetchPlain(ctx, url)
	if err == nil {
		return html, nil
	}

	log.Printf("[web-client] ⚠️  plain fetch failed: %v (retrying with headless browser)", err)

	html, renderErr := c.fetchRendered(ctx, url)
	if renderErr != nil {
		return "", fmt.Errorf("fetch %s: %w (rendered fallback: %v)", url, err, renderErr)
	}
	return html, nil
}

// fetchPlain does a straight GET with a browser user-agent.
func (c *Client) fetchPlain(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}

// fetchRendered loads the page in a headless browser and returns the
// post-render DOM.
func (c *Client) fetchRendered(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, renderTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // allow JS to render
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp: %w", err)
	}
	if html == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return html, nil
}
