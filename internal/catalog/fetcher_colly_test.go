package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestFetcher(t *testing.T) *CollyFetcher {
	t.Helper()
	cfg := testConfig()
	cfg.RequestTimeout = 5 * time.Second
	f, err := NewCollyFetcher(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCollyFetcher() error = %v", err)
	}
	return f
}

func TestCollyFetcherOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<html><body>hello</body></html>`))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", page.StatusCode)
	}
	if len(page.Body) == 0 {
		t.Fatal("expected non-empty body")
	}
}

func TestCollyFetcherKeepsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected status to be reported as a page, got error %v", err)
	}
	if page.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", page.StatusCode)
	}
}

func TestCollyFetcherTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // nothing is listening anymore

	f := newTestFetcher(t)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected transport error for closed server")
	}
}

func TestCollyFetcherAllowsRevisit(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() #%d error = %v", i+1, err)
		}
	}
	if hits != 2 {
		t.Fatalf("expected 2 hits got %d", hits)
	}
}
