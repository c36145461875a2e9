package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
)

// stubFetcher serves canned pages by URL and records every request.
type stubFetcher struct {
	pages map[string]Page
	err   error
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (Page, error) {
	f.calls = append(f.calls, rawURL)
	if f.err != nil {
		return Page{}, f.err
	}
	page, ok := f.pages[rawURL]
	if !ok {
		return Page{URL: rawURL, StatusCode: http.StatusNotFound}, nil
	}
	return page, nil
}

func testConfig() Config {
	return Config{
		BaseURL:      "https://store.example",
		Locale:       "en",
		UserAgent:    "test-agent",
		SkipPrefixes: []string{"com.android"},
		AllowList:    []string{"com.android.chrome"},
	}
}

func TestResolverPolicyGate(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ResolutionKind
	}{
		{name: "reserved prefix excluded", query: "com.android.settings", want: Excluded},
		{name: "prefix itself excluded", query: "com.android", want: Excluded},
		{name: "allow-listed exception resolves", query: "com.android.chrome", want: Resolved},
		{name: "unrelated identifier resolves", query: "org.mozilla.firefox", want: Resolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{}
			r := NewResolver(fetcher, testConfig(), zap.NewNop())

			got := r.Resolve(context.Background(), tt.query)
			if got.Kind != tt.want {
				t.Fatalf("expected kind %v got %v", tt.want, got.Kind)
			}
			if len(fetcher.calls) != 0 {
				t.Fatalf("expected no network calls, got %d", len(fetcher.calls))
			}
			if got.Kind == Resolved && got.AppID != tt.query {
				t.Fatalf("expected passthrough ID %q got %q", tt.query, got.AppID)
			}
		})
	}
}

func TestResolverSearchFallback(t *testing.T) {
	cfg := testConfig()
	searchHTML := `<html><body>
		<nav><a href="/store/apps/details?id=com.should.not.match">outside section</a></nav>
		<section>
			<a href="/store/games">not a detail link</a>
			<a href="/store/apps/details?id=com.king.candycrushsaga">Candy Crush</a>
			<a href="/store/apps/details?id=com.other.second">Second</a>
		</section>
	</body></html>`
	fetcher := &stubFetcher{pages: map[string]Page{
		cfg.SearchURL("candy crush"): {StatusCode: http.StatusOK, Body: []byte(searchHTML)},
	}}
	r := NewResolver(fetcher, cfg, zap.NewNop())

	got := r.Resolve(context.Background(), "candy crush")
	if got.Kind != Resolved {
		t.Fatalf("expected Resolved got %v", got.Kind)
	}
	if got.AppID != "com.king.candycrushsaga" {
		t.Fatalf("expected first qualifying anchor to win, got %q", got.AppID)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected exactly one search request, got %d", len(fetcher.calls))
	}
}

func TestResolverSearchFailures(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name string
		page Page
		err  error
	}{
		{name: "transport failure", err: errors.New("connection refused")},
		{name: "non-200 response", page: Page{StatusCode: http.StatusServiceUnavailable}},
		{name: "no section", page: Page{StatusCode: http.StatusOK, Body: []byte(`<html><body><div>nothing</div></body></html>`)}},
		{name: "section without detail anchor", page: Page{StatusCode: http.StatusOK, Body: []byte(`<section><a href="/store/games">games</a></section>`)}},
		{name: "detail anchor without id param", page: Page{StatusCode: http.StatusOK, Body: []byte(`<section><a href="/store/apps/details?id=">broken</a></section>`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{err: tt.err}
			if tt.err == nil {
				fetcher.pages = map[string]Page{cfg.SearchURL("slack"): tt.page}
			}
			r := NewResolver(fetcher, cfg, zap.NewNop())

			got := r.Resolve(context.Background(), "slack")
			if got.Kind != NotResolved {
				t.Fatalf("expected NotResolved got %v", got.Kind)
			}
		})
	}
}
