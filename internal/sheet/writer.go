package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/appaudit/playmeta/internal/catalog"
)

// Sentinel placeholder strings, preserved verbatim from the established
// output format. The casing difference between the whole-record and
// per-field placeholders is load-bearing for downstream consumers.
const (
	sentinelNotApplicable = "Not applicable"
	sentinelNotFound      = "Not found"
	sentinelFieldMissing  = "Not Found"
)

// columns is the fixed output header, in order.
var columns = []string{
	"Application Name",
	"Application ID",
	"Friendly Name",
	"Description",
	"Category",
	"Content Rating",
	"Application Rating",
	"Pricing",
}

// Writer persists pipeline results as a date-stamped CSV file.
type Writer struct {
	dir    string
	clock  catalog.Clock
	logger *zap.Logger
}

// NewWriter returns a Writer rooted at dir. The clock decides the date
// embedded in the output filename.
func NewWriter(dir string, clock catalog.Clock, logger *zap.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Writer{
		dir:    dir,
		clock:  clock,
		logger: logger,
	}, nil
}

// Write emits one row per result, in order, and returns the output path.
func (w *Writer) Write(results []catalog.Result) (string, error) {
	name := fmt.Sprintf("apps_metadata_output_%s.csv", w.clock.Now().Format("20060102"))
	target := filepath.Join(w.dir, name)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create output %s: %w", target, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, res := range results {
		if err := cw.Write(Row(res)); err != nil {
			return "", fmt.Errorf("write row for %q: %w", res.Query, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush output %s: %w", target, err)
	}

	w.logger.Info("output written", zap.String("path", target), zap.Int("rows", len(results)))
	return target, nil
}

// Row collapses a tagged result into its literal output cells. This is the
// only place sentinel strings are produced.
func Row(res catalog.Result) []string {
	switch res.Kind {
	case catalog.ResultExcluded:
		return uniformRow(res.Query, sentinelNotApplicable)
	case catalog.ResultNotFound:
		return uniformRow(res.Query, sentinelNotFound)
	}

	rec := res.Record
	return []string{
		res.Query,
		rec.AppID,
		fieldOrMissing(rec.Name),
		fieldOrMissing(rec.Description),
		fieldOrMissing(rec.Category),
		fieldOrMissing(rec.ContentRating),
		ratingCell(rec),
		fieldOrMissing(rec.Price),
	}
}

func uniformRow(query, sentinel string) []string {
	row := make([]string, len(columns))
	row[0] = query
	for i := 1; i < len(columns); i++ {
		row[i] = sentinel
	}
	return row
}

func fieldOrMissing(value string) string {
	if value == "" {
		return sentinelFieldMissing
	}
	return value
}

func ratingCell(rec catalog.Record) string {
	if !rec.HasRating {
		return sentinelFieldMissing
	}
	return strconv.FormatFloat(rec.Rating, 'f', -1, 64)
}
