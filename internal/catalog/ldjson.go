package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is a decoded structured-data (ld+json) block. Accessors return a
// presence flag instead of panicking or guessing, so every missing or
// oddly-typed field degrades to a defined default at the formatting boundary.
type Document map[string]any

// ParseDocument decodes the raw bytes of a structured-data script block.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode structured data: %w", err)
	}
	return doc, nil
}

// Str returns the string value under key, if present and actually a string.
func (d Document) Str(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RatingValue returns aggregateRating.ratingValue as a float. The store
// serves it as a JSON number or a numeric string depending on the page;
// both are accepted.
func (d Document) RatingValue() (float64, bool) {
	obj, ok := d.object("aggregateRating")
	if !ok {
		return 0, false
	}
	return asFloat(obj["ratingValue"])
}

// FirstOfferPrice returns offers[0].price. Absent or empty offers report
// no value; a numeric price is formatted as its decimal representation.
func (d Document) FirstOfferPrice() (string, bool) {
	items, ok := d.list("offers")
	if !ok || len(items) == 0 {
		return "", false
	}
	offer, ok := items[0].(map[string]any)
	if !ok {
		return "", false
	}
	switch p := offer["price"].(type) {
	case string:
		return p, true
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64), true
	default:
		return "", false
	}
}

func (d Document) object(key string) (map[string]any, bool) {
	v, ok := d[key]
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func (d Document) list(key string) ([]any, bool) {
	v, ok := d[key]
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	return items, ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
