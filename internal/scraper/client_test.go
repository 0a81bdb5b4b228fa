// internal/scraper/client_test.go
package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testPool() FetchConfig {
	return FetchConfig{
		Timeout:       5 * time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		RateLimit:     1000,
		RateBurst:     1000,
		MaxConcurrent: 4,
	}
}

func TestGetHTMLRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><a href="/afile/fileDownload/X">첨부</a></body></html>`))
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	doc, err := pool.GetHTML(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetHTML() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
	if doc.Find("a").Length() != 1 {
		t.Errorf("parsed document lost its content")
	}
}

func TestGetHTMLDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	_, err := pool.GetHTML(context.Background(), server.URL)
	if err == nil {
		t.Fatal("GetHTML() error = nil, want status error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("error = %v, want StatusError 404", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1 (definitive 4xx must not retry)", got)
	}
}

func TestHeadProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Header().Set("Content-Length", "2048")
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	hdr, err := pool.Head(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if hdr.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", hdr.ContentType)
	}
	if hdr.ContentLength != 2048 {
		t.Errorf("ContentLength = %d, want 2048", hdr.ContentLength)
	}
}

func TestHeadFallsBackToRangeGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Range") != "bytes=0-0" {
			t.Errorf("Range = %q, want bytes=0-0", r.Header.Get("Range"))
		}
		w.Header().Set("Content-Type", "application/x-hwp")
		w.Header().Set("Content-Range", "bytes 0-0/31744")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte{0xD0})
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	hdr, err := pool.Head(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if hdr.ContentType != "application/x-hwp" {
		t.Errorf("ContentType = %q", hdr.ContentType)
	}
	if hdr.ContentLength != 31744 {
		t.Errorf("ContentLength = %d, want 31744 from Content-Range", hdr.ContentLength)
	}
}

func TestPrefixWithRangeSupport(t *testing.T) {
	body := []byte("%PDF-1.7 much more content follows here")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") == "" {
			t.Errorf("missing Range header")
		}
		w.WriteHeader(http.StatusPartialContent)
		w.Write(body[:8])
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	prefix, err := pool.Prefix(context.Background(), server.URL, 8)
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	if string(prefix) != "%PDF-1.7" {
		t.Errorf("prefix = %q", prefix)
	}
}

func TestPrefixCapsWhenRangeIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Range ignored; full body returned.
		w.Write(make([]byte, 100000))
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	prefix, err := pool.Prefix(context.Background(), server.URL, 2048)
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	if len(prefix) != 2048 {
		t.Errorf("len(prefix) = %d, want 2048", len(prefix))
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	pool := NewFetchPool(testPool())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := pool.GetHTML(ctx, server.URL); err == nil {
		t.Fatal("GetHTML() error = nil, want context error")
	}
}
