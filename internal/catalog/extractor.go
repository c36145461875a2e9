package catalog

import (
	"bytes"
	"context"
	"math"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ldJSONSelector locates the embedded structured-data block on a detail page.
const ldJSONSelector = `script[type="application/ld+json"]`

// Extractor fetches a detail page and extracts a metadata Record from its
// embedded structured-data block.
type Extractor struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewExtractor constructs an Extractor.
func NewExtractor(fetcher Fetcher, cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Extract returns a tagged Result for appID. It never returns an error: a
// failed or non-200 fetch yields ResultNotFound, while a 200 page with a
// missing or malformed structured-data block yields a Record carrying only
// the application ID.
func (e *Extractor) Extract(ctx context.Context, appID string) Result {
	page, err := e.fetcher.Fetch(ctx, e.cfg.DetailURL(appID))
	if err != nil {
		e.logger.Warn("detail fetch failed", zap.String("app_id", appID), zap.Error(err))
		return Result{Kind: ResultNotFound}
	}
	if page.StatusCode != http.StatusOK {
		e.logger.Warn("detail fetch returned non-200",
			zap.String("app_id", appID),
			zap.Int("status_code", page.StatusCode),
		)
		return Result{Kind: ResultNotFound}
	}

	rec := Record{AppID: appID}
	doc, ok := e.structuredData(appID, page.Body)
	if !ok {
		return Result{Kind: ResultOK, Record: rec}
	}

	rec.Name, _ = doc.Str("name")
	rec.Description, _ = doc.Str("description")
	rec.Category, _ = doc.Str("applicationCategory")
	rec.ContentRating, _ = doc.Str("contentRating")
	if v, found := doc.RatingValue(); found {
		rec.Rating = math.Round(v*100) / 100
		rec.HasRating = true
	}
	rec.Price, _ = doc.FirstOfferPrice()

	e.logger.Debug("metadata extracted", zap.String("app_id", appID), zap.String("name", rec.Name))
	return Result{Kind: ResultOK, Record: rec}
}

// structuredData locates and decodes the ld+json block. Absence and decode
// failures are both reported as "no document": the caller emits a partial
// record rather than a hard failure because the page itself returned 200.
func (e *Extractor) structuredData(appID string, body []byte) (Document, bool) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("detail page unparsable", zap.String("app_id", appID), zap.Error(err))
		return nil, false
	}
	block := root.Find(ldJSONSelector).First()
	if block.Length() == 0 {
		e.logger.Info("no structured-data block", zap.String("app_id", appID))
		return nil, false
	}
	doc, err := ParseDocument([]byte(block.Text()))
	if err != nil {
		e.logger.Warn("structured-data block malformed", zap.String("app_id", appID), zap.Error(err))
		return nil, false
	}
	return doc, true
}
