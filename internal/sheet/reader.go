// Package sheet handles the tabular boundary of the pipeline: loading
// application names from a headerless CSV file and writing enriched
// metadata rows back out. Sentinel placeholder strings exist only here;
// the pipeline itself works with tagged results.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads application names from the first column of path. The file has
// no header row. A positive limit caps the number of rows read; zero or
// negative reads everything. Blank cells are skipped.
func Load(path string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var names []string
	for {
		if limit > 0 && len(names) >= limit {
			break
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", path, err)
		}
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
