// Package catalog resolves application names against the Play store and
// extracts structured catalog metadata from detail pages.
package catalog

import (
	"context"
	"time"
)

// ResolutionKind classifies the outcome of resolving a raw query.
type ResolutionKind int

// Resolution outcomes.
const (
	// Resolved means the query was mapped to a canonical application ID.
	Resolved ResolutionKind = iota
	// NotResolved means the search fallback produced no usable identifier.
	NotResolved
	// Excluded means the reserved-namespace policy skipped the query
	// before any network call.
	Excluded
)

// Resolution is the tagged result of a Resolver call.
type Resolution struct {
	Kind  ResolutionKind
	AppID string // set only when Kind == Resolved
}

// ResultKind classifies the outcome of processing one input name.
type ResultKind int

// Result outcomes.
const (
	// ResultOK means the detail page was fetched; Record carries whatever
	// fields the structured-data block provided.
	ResultOK ResultKind = iota
	// ResultNotFound means resolution or the detail fetch failed outright.
	ResultNotFound
	// ResultExcluded means the input was skipped by policy.
	ResultExcluded
)

// Record holds the catalog fields extracted from a detail page. An empty
// string means the field was absent from the structured-data block. The
// rating carries its own presence flag because 0 is a valid value.
type Record struct {
	AppID         string
	Name          string
	Description   string
	Category      string
	ContentRating string
	Rating        float64
	HasRating     bool
	Price         string
}

// Result pairs an input name with its outcome. Record is meaningful only
// when Kind == ResultOK. A Result is constructed once and never mutated.
type Result struct {
	Query  string
	Kind   ResultKind
	Record Record
}

// Summary tallies pipeline outcomes for one run.
type Summary struct {
	Total    int
	Fetched  int
	NotFound int
	Skipped  int
	Elapsed  time.Duration
}

// Page is the response returned by a Fetcher. A non-2xx status is not an
// error: callers decide what a status code means for their step.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher retrieves a URL and returns the body plus status metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// QueryResolver maps a free-text query to a canonical application ID.
type QueryResolver interface {
	Resolve(ctx context.Context, query string) Resolution
}

// RecordExtractor turns a canonical application ID into a Result.
type RecordExtractor interface {
	Extract(ctx context.Context, appID string) Result
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
