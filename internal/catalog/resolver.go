package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// detailPathMarker identifies anchors that link to an application detail
// page; the canonical ID is the value of the href's "id" query parameter.
const detailPathMarker = "/store/apps/details?id="

// Resolver maps a free-text query to a canonical application ID, falling
// back to the store's search endpoint when the query is not already one.
type Resolver struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(fetcher Fetcher, cfg Config, logger *zap.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Resolve returns a tagged Resolution for query. Reserved-namespace queries
// are excluded before any network call; queries that already contain a
// namespace separator pass through unchanged; everything else goes through
// the search fallback. The first qualifying anchor in document order wins.
func (r *Resolver) Resolve(ctx context.Context, query string) Resolution {
	if r.excluded(query) {
		r.logger.Info("skipping reserved-namespace query", zap.String("query", query))
		return Resolution{Kind: Excluded}
	}

	if strings.Contains(query, ".") {
		return Resolution{Kind: Resolved, AppID: query}
	}

	page, err := r.fetcher.Fetch(ctx, r.cfg.SearchURL(query))
	if err != nil {
		r.logger.Warn("search request failed", zap.String("query", query), zap.Error(err))
		return Resolution{Kind: NotResolved}
	}
	if page.StatusCode != http.StatusOK {
		r.logger.Warn("search returned non-200",
			zap.String("query", query),
			zap.Int("status_code", page.StatusCode),
		)
		return Resolution{Kind: NotResolved}
	}

	appID, ok := firstResultID(page.Body)
	if !ok {
		r.logger.Info("no result anchor for query", zap.String("query", query))
		return Resolution{Kind: NotResolved}
	}

	r.logger.Debug("query resolved via search",
		zap.String("query", query),
		zap.String("app_id", appID),
	)
	return Resolution{Kind: Resolved, AppID: appID}
}

// excluded reports whether query falls in a reserved namespace and is not
// explicitly allow-listed.
func (r *Resolver) excluded(query string) bool {
	for _, allowed := range r.cfg.AllowList {
		if query == allowed {
			return false
		}
	}
	for _, prefix := range r.cfg.SkipPrefixes {
		if strings.HasPrefix(query, prefix) {
			return true
		}
	}
	return false
}

// firstResultID scans the search results page for the first structural
// section, and within it the first anchor pointing at a detail page.
func firstResultID(body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	section := doc.Find("section").First()
	if section.Length() == 0 {
		return "", false
	}

	var appID string
	section.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, detailPathMarker) {
			return true
		}
		u, perr := url.Parse(href)
		if perr != nil {
			return true
		}
		if id := u.Query().Get("id"); id != "" {
			appID = id
			return false
		}
		return true
	})
	return appID, appID != ""
}
