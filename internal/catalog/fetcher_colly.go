package catalog

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements the Fetcher interface using the Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) (*CollyFetcher, error) {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
	)
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	// Deliver non-2xx responses through OnResponse instead of turning
	// them into Visit errors. Callers need the status to tell a 404
	// from a dead socket.
	base.ParseHTTPErrorResponse = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &CollyFetcher{
		baseCollector: base,
		logger:        logger,
	}, nil
}

// Fetch retrieves a page via the configured Colly collector. HTTP error
// statuses are returned as a Page, not as an error; errors are reserved for
// transport-level failures.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{page: Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte{}, r.Body...),
		}})
	})

	collector.OnError(func(_ *colly.Response, err error) {
		// With ParseHTTPErrorResponse set, only transport failures
		// reach this callback.
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return Page{}, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return Page{}, err
		}
		if res.err != nil {
			f.logger.Debug("fetch failed", zap.String("url", rawURL), zap.Error(res.err))
		}
		return res.page, res.err
	default:
		return Page{}, errors.New("colly fetch produced no result")
	}
}

type fetchResult struct {
	page Page
	err  error
}
