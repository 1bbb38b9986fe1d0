package services

import (
	"math"
	"sort"
	"sync"

	"listing-insights/models"
	"listing-insights/utils"
)

// unknownGroup is the sentinel for listings without a geographic group. The
// group is never screened for outliers: its members share no market.
const unknownGroup = "Unknown"

// iqrMultiplier is deliberately more permissive than the classical 1.5 so
// valid high-end listings survive the screen.
const iqrMultiplier = 2.0

// minGroupSize is the smallest group worth estimating quartiles for.
const minGroupSize = 4

// Cleaner removes structurally invalid listings and, per geographic group,
// statistically extreme ones using an IQR rule across several fields.
type Cleaner struct {
	logger *utils.Logger
	pool   *utils.WorkerPool
}

// NewCleaner creates a Cleaner screening groups on the given worker pool.
func NewCleaner(logger *utils.Logger, pool *utils.WorkerPool) *Cleaner {
	return &Cleaner{logger: logger, pool: pool}
}

// Clean returns the subset of listings considered valid and non-extreme.
// Output is ordered by ascending group key and is input-stable within each
// group.
func (c *Cleaner) Clean(listings []*models.Listing) []*models.Listing {
	valid := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		price, pok := l.PriceValue()
		avail, aok := l.AvailabilityValue()
		if !pok || !aok || price <= 0 || avail <= 0 {
			continue
		}
		valid = append(valid, l)
	}

	groups := make(map[string][]*models.Listing)
	keys := make([]string, 0)
	for _, l := range valid {
		key := l.NeighbourhoodGroupCleansed
		if key == "" {
			key = unknownGroup
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], l)
	}
	sort.Strings(keys)

	var mu sync.Mutex
	screened := make(map[string][]*models.Listing, len(groups))
	for _, key := range keys {
		key := key
		members := groups[key]
		c.pool.Submit(func() {
			kept := screenGroup(key, members)
			mu.Lock()
			screened[key] = kept
			mu.Unlock()
		})
	}
	c.pool.Wait()

	result := make([]*models.Listing, 0, len(valid))
	for _, key := range keys {
		result = append(result, screened[key]...)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(listings), len(result), len(listings)-len(result))
	return result
}

// screenGroup applies the per-group IQR screen. Groups too small to estimate
// quartiles, and the unknown-group sentinel, pass unmodified.
func screenGroup(key string, members []*models.Listing) []*models.Listing {
	if len(members) < minGroupSize || key == unknownGroup {
		return members
	}

	priceBounds := iqrBounds(collect(members, (*models.Listing).PriceValue, false))
	nightsBounds := iqrBounds(collect(members, (*models.Listing).MinimumNightsValue, false))
	rpmBounds := iqrBounds(collect(members, (*models.Listing).ReviewsPerMonthValue, true))
	reviewsBounds := iqrBounds(collect(members, (*models.Listing).NumberOfReviewsValue, false))
	availBounds := iqrBounds(collect(members, (*models.Listing).AvailabilityValue, false))

	kept := make([]*models.Listing, 0, len(members))
	for _, l := range members {
		if outlierOn(l.PriceValue, priceBounds, false) ||
			outlierOn(l.MinimumNightsValue, nightsBounds, false) ||
			outlierOn(l.ReviewsPerMonthValue, rpmBounds, true) ||
			outlierOn(l.NumberOfReviewsValue, reviewsBounds, false) ||
			outlierOn(l.AvailabilityValue, availBounds, false) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// collect gathers the parseable values of one field across the group.
// positiveOnly additionally drops zero and negative values, used for
// reviews-per-month where zero means "no signal" rather than a measurement.
func collect(members []*models.Listing, value func(*models.Listing) (float64, bool), positiveOnly bool) []float64 {
	out := make([]float64, 0, len(members))
	for _, l := range members {
		v, ok := value(l)
		if !ok {
			continue
		}
		if positiveOnly && v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

type bounds struct {
	lower, upper float64
}

// iqrBounds computes the IQR outlier bounds from the sorted values using
// index quartiles: Q1 at floor(n*0.25), Q3 at floor(n*0.75).
func iqrBounds(values []float64) bounds {
	if len(values) == 0 {
		return bounds{math.Inf(-1), math.Inf(1)}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := sorted[int(float64(len(sorted))*0.25)]
	q3 := sorted[int(float64(len(sorted))*0.75)]
	iqr := q3 - q1

	return bounds{
		lower: q1 - iqrMultiplier*iqr,
		upper: q3 + iqrMultiplier*iqr,
	}
}

// outlierOn reports whether the listing's value for one axis falls outside
// that axis's bounds. Unparseable values never trigger rejection; for
// positiveOnly axes neither do zeros.
func outlierOn(value func() (float64, bool), b bounds, positiveOnly bool) bool {
	v, ok := value()
	if !ok {
		return false
	}
	if positiveOnly && v <= 0 {
		return false
	}
	return v < b.lower || v > b.upper
}
