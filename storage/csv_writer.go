package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"listing-insights/models"
)

// ExportHeader is the column order used when rendering listings back to
// delimited form.
var ExportHeader = []string{
	"id", "name", "host_id", "host_name", "host_is_superhost",
	"neighbourhood", "neighbourhood_cleansed", "neighbourhood_group_cleansed",
	"latitude", "longitude", "property_type", "room_type", "accommodates",
	"bedrooms", "amenities", "price", "minimum_nights", "availability_365",
	"number_of_reviews", "number_of_reviews_ltm", "last_review",
	"review_scores_rating", "reviews_per_month",
	"calculated_host_listings_count", "instant_bookable", "license",
}

// RenderCSV renders listings to delimited text under the given header,
// one logical row per listing. It is the inverse of the record parser for
// accepted rows.
func RenderCSV(header []string, listings []*models.Listing) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}
	row := make([]string, len(header))
	for _, l := range listings {
		for i, h := range header {
			row[i] = l.Field(h)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// CSVWriter exports cleaned, enriched listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	path   string
	header []string
}

// NewCSVWriter prepares an exporter targeting the given path. Intermediate
// directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path, header: ExportHeader}, nil
}

// Write renders all listings and replaces the export file.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, err := RenderCSV(c.header, listings)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, []byte(text), 0644); err != nil {
		return fmt.Errorf("csv: write file %q: %w", c.path, err)
	}
	return nil
}

// Close is a no-op; Write replaces the file atomically per call.
func (c *CSVWriter) Close() error { return nil }
