// internal/scraper/client.go

// Package scraper loads announcement detail pages and probes attachment URLs
// through a shared bounded-concurrency fetch pool, and turns detail-page HTML
// into raw attachment candidates via per-source adapters.
package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/oby500/bizinfo-automation-sub001/internal/filetype"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// maxBodySize caps detail-page reads; announcement pages are far smaller.
const maxBodySize = 10 << 20

// FetchConfig defines configuration options for the fetch pool.
type FetchConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RateLimit     float64 // requests per second
	RateBurst     int
	MaxConcurrent int
	UserAgent     string
	Headers       map[string]string
}

func (c *FetchConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 2.0
	}
	if c.RateBurst == 0 {
		c.RateBurst = 5
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 10
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

// FetchPool is a bounded-concurrency HTTP client shared by the source
// adapters (detail pages) and the type classifier (HEAD/Range probes).
// It satisfies filetype.Prober.
type FetchPool struct {
	httpClient    *http.Client
	rateLimiter   *rate.Limiter
	sem           chan struct{}
	retryAttempts int
	retryDelay    time.Duration
	userAgent     string
	headers       map[string]string
	stats         FetchStats
}

// FetchStats counts pool activity across all goroutines.
type FetchStats struct {
	Requests atomic.Int64
	Retries  atomic.Int64
	Errors   atomic.Int64
}

// NewFetchPool creates a fetch pool with the specified configuration.
func NewFetchPool(config FetchConfig) *FetchPool {
	config.applyDefaults()

	return &FetchPool{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter:   rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		sem:           make(chan struct{}, config.MaxConcurrent),
		retryAttempts: config.RetryAttempts,
		retryDelay:    config.RetryDelay,
		userAgent:     config.UserAgent,
		headers:       config.Headers,
	}
}

// Stats returns the pool counters.
func (p *FetchPool) Stats() (requests, retries, errors int64) {
	return p.stats.Requests.Load(), p.stats.Retries.Load(), p.stats.Errors.Load()
}

// StatusError is a definitive non-2xx response after retries were exhausted
// or the status was not retryable.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// GetHTML fetches a detail page and parses it, decoding legacy charsets
// (the portals still serve EUC-KR pages) into UTF-8 first.
func (p *FetchPool) GetHTML(ctx context.Context, targetURL string) (*goquery.Document, error) {
	resp, err := p.do(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodySize)
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("charset detection for %s: %w", targetURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", targetURL, err)
	}
	return doc, nil
}

// Head probes an attachment URL for headers. Servers that reject HEAD get a
// one-byte Range GET instead; either way only headers are consumed.
func (p *FetchPool) Head(ctx context.Context, targetURL string) (*filetype.ProbeHeaders, error) {
	resp, err := p.do(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		resp, err = p.do(ctx, http.MethodGet, targetURL, map[string]string{"Range": "bytes=0-0"})
		if err != nil {
			return nil, err
		}
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
	}()

	return &filetype.ProbeHeaders{
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentLength:      totalLength(resp),
	}, nil
}

// Prefix reads up to n leading bytes of an attachment body via a Range
// request. Servers that ignore Range return 200; the read is capped either
// way so a full download never happens.
func (p *FetchPool) Prefix(ctx context.Context, targetURL string, n int) ([]byte, error) {
	headers := map[string]string{"Range": fmt.Sprintf("bytes=0-%d", n-1)}
	resp, err := p.do(ctx, http.MethodGet, targetURL, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	prefix, err := io.ReadAll(io.LimitReader(resp.Body, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("reading prefix of %s: %w", targetURL, err)
	}
	return prefix, nil
}

// do performs one request with rate limiting, concurrency bounding, and
// retry with exponential backoff. Transient network errors and retryable
// statuses are retried; definitive 4xx responses are not.
func (p *FetchPool) do(ctx context.Context, method, targetURL string, extraHeaders map[string]string) (*http.Response, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", targetURL, err)
	}

	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var lastErr error
	for attempt := 0; attempt <= p.retryAttempts; attempt++ {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, targetURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		p.setRequestHeaders(req, parsed, extraHeaders)

		p.stats.Requests.Add(1)
		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s %s: %w", method, targetURL, err)
			p.stats.Errors.Add(1)
			if attempt < p.retryAttempts && ctx.Err() == nil {
				p.stats.Retries.Add(1)
				if err := p.waitForRetry(ctx, attempt); err != nil {
					return nil, lastErr
				}
				continue
			}
			break
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		lastErr = &StatusError{StatusCode: resp.StatusCode, URL: targetURL}
		p.stats.Errors.Add(1)

		if !retryableStatus[resp.StatusCode] {
			break
		}
		if attempt < p.retryAttempts {
			p.stats.Retries.Add(1)
			if err := p.waitForRetry(ctx, attempt); err != nil {
				return nil, lastErr
			}
		}
	}

	return nil, lastErr
}

// setRequestHeaders makes the request look like a Korean-locale browser; the
// portals serve reduced markup to clients without these.
func (p *FetchPool) setRequestHeaders(req *http.Request, parsed *url.URL, extra map[string]string) {
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Referer", parsed.Scheme+"://"+parsed.Host+"/")

	for key, value := range p.headers {
		req.Header.Set(key, value)
	}
	for key, value := range extra {
		req.Header.Set(key, value)
	}
}

// waitForRetry sleeps with exponential backoff plus jitter, capped at 30s,
// and returns early when the context is cancelled.
func (p *FetchPool) waitForRetry(ctx context.Context, attempt int) error {
	delay := p.retryDelay * time.Duration(1<<uint(attempt))
	delay += time.Duration(rand.Int63n(int64(delay/2) + 1))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
	520: true,
	521: true,
	522: true,
	523: true,
	524: true,
}

// totalLength extracts the full resource size from a response, preferring the
// Content-Range total when the probe used a Range request.
func totalLength(resp *http.Response) int64 {
	if cr := resp.Header.Get("Content-Range"); cr != "" {
		if i := strings.LastIndexByte(cr, '/'); i >= 0 {
			if total, err := strconv.ParseInt(cr[i+1:], 10, 64); err == nil {
				return total
			}
		}
	}
	if resp.ContentLength > 0 {
		return resp.ContentLength
	}
	return 0
}
