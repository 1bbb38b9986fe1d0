package storage

import (
	"context"

	"listing-insights/models"
)

// Source supplies the raw listing table and a freshness signal. The engine
// never reads the data source directly; it only depends on this contract.
type Source interface {
	// ReadRaw returns the full unparsed table text.
	ReadRaw(ctx context.Context) (string, error)
	// Freshness returns a comparable token (Unix milliseconds) that grows
	// whenever the underlying content changes.
	Freshness() (int64, error)
}

// ListingWriter is the interface any export backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
