package services

import (
	"context"
	"errors"
	"fmt"

	"listing-insights/models"
	"listing-insights/utils"
)

// Query defaults and limits, applied by callers when a parameter is absent.
const (
	DefaultPage      = 1
	DefaultPageSize  = 50
	MaxPageSize      = 100
	DefaultSortBy    = "name"
	DefaultSortOrder = "asc"
)

// ErrInvalidParam marks query-boundary validation failures. Invalid values
// are rejected, never silently coerced; defaults apply only to absent
// parameters.
var ErrInvalidParam = errors.New("invalid query parameter")

// InvalidParamf wraps ErrInvalidParam with a descriptive message.
func InvalidParamf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParam, fmt.Sprintf(format, args...))
}

// ErrStaleData marks a result served from the previous generation after a
// failed refresh. The result alongside it is complete and usable; the error
// tells the caller the underlying rebuild failed.
var ErrStaleData = errors.New("serving stale data")

// Engine is the transport-agnostic query surface of the listings core.
type Engine struct {
	cache      *CacheManager
	aggregator *Aggregator
	logger     *utils.Logger
}

// NewEngine creates an Engine over the given cache manager.
func NewEngine(cache *CacheManager, aggregator *Aggregator, logger *utils.Logger) *Engine {
	return &Engine{cache: cache, aggregator: aggregator, logger: logger}
}

// GetListings answers a filter/sort/paginate query against the cached set.
func (e *Engine) GetListings(ctx context.Context, page, pageSize int,
	sortBy, sortOrder, search string, filters models.Filters) (*models.ListingsPage, error) {

	if page < 1 {
		return nil, InvalidParamf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, InvalidParamf("pageSize must be in [1,%d], got %d", MaxPageSize, pageSize)
	}
	if !IsSortable(sortBy) {
		return nil, InvalidParamf("unknown sort field %q", sortBy)
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return nil, InvalidParamf("sortOrder must be asc or desc, got %q", sortOrder)
	}

	listings, staleErr := e.dataset(ctx)
	if staleErr != nil && !errors.Is(staleErr, ErrStaleData) {
		return nil, staleErr
	}

	filtered := FilterListings(listings, filters, search)
	sorted := SortListings(filtered, sortBy, sortOrder)
	data, total, totalPages := Paginate(sorted, page, pageSize)

	return &models.ListingsPage{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, staleErr
}

// GetFilterOptions answers a filter-domain query. Domain-wide lists always
// reflect the full cleaned set; the zip price averages follow the narrowed
// set per the aggregator's contract.
func (e *Engine) GetFilterOptions(ctx context.Context, filters models.Filters) (*models.FilterOptions, error) {
	listings, staleErr := e.dataset(ctx)
	if staleErr != nil && !errors.Is(staleErr, ErrStaleData) {
		return nil, staleErr
	}
	return e.aggregator.Options(listings, filters), staleErr
}

// GetMapPoints projects the filtered set onto its geospatial fields, without
// pagination.
func (e *Engine) GetMapPoints(ctx context.Context, filters models.Filters) ([]models.MapPoint, error) {
	listings, staleErr := e.dataset(ctx)
	if staleErr != nil && !errors.Is(staleErr, ErrStaleData) {
		return nil, staleErr
	}

	filtered := FilterListings(listings, filters, "")
	points := make([]models.MapPoint, 0, len(filtered))
	for _, l := range filtered {
		points = append(points, models.MapPoint{
			Latitude:              l.Latitude,
			Longitude:             l.Longitude,
			Name:                  l.Name,
			NeighbourhoodCleansed: l.NeighbourhoodCleansed,
			Price:                 l.Price,
			RoomType:              l.RoomType,
		})
	}
	return points, staleErr
}

// GetSummary answers a dataset-level analytics query.
func (e *Engine) GetSummary(ctx context.Context) (*models.Summary, error) {
	listings, staleErr := e.dataset(ctx)
	if staleErr != nil && !errors.Is(staleErr, ErrStaleData) {
		return nil, staleErr
	}
	return e.aggregator.Summary(listings), staleErr
}

// dataset fetches the current generation. When a rebuild fails but a previous
// generation survives, that stale set is returned together with an
// ErrStaleData-wrapped error so the caller both gets usable data and learns
// the refresh failed. With nothing to fall back to, only the error surfaces.
func (e *Engine) dataset(ctx context.Context) ([]*models.Listing, error) {
	listings, err := e.cache.Get(ctx)
	if err != nil {
		if listings == nil {
			return nil, err
		}
		e.logger.Warn("[engine] Serving stale generation: %v", err)
		return listings, fmt.Errorf("%w: %v", ErrStaleData, err)
	}
	return listings, nil
}
