package services

import (
	"math"
	"sort"

	"listing-insights/models"
	"listing-insights/utils"
)

const (
	// priceBins is the fixed histogram resolution for the price slider.
	priceBins = 50
	// maxIntegerBins caps the one-bin-per-integer histograms; wider spans
	// fall back to linear binning at this resolution.
	maxIntegerBins = 200
	// logBinSpan switches the price histogram to logarithmic binning when
	// the domain is wide and strictly positive, matching skewed price
	// distributions.
	logBinSpan = 100
)

// Aggregator derives FilterOptions snapshots and dataset summaries from a
// cleaned, enriched record set.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Options computes the legal filter domain over the full set. Distinct lists,
// ranges and volume histograms always reflect the whole set; the zip average
// prices are recomputed against the set narrowed by room type and price
// bounds, so the map view follows the active filters without hiding zips.
func (a *Aggregator) Options(listings []*models.Listing, filters models.Filters) *models.FilterOptions {
	opts := &models.FilterOptions{
		ZipCodes:      distinct(listings, func(l *models.Listing) string { return l.NeighbourhoodCleansed }),
		RoomTypes:     distinct(listings, func(l *models.Listing) string { return l.RoomType }),
		PropertyTypes: distinct(listings, func(l *models.Listing) string { return l.PropertyType }),
	}

	prices := collect(listings, (*models.Listing).PriceValue, true)
	if len(prices) > 0 {
		lo, hi := minMax(prices)
		opts.MinPrice = math.Floor(lo)
		opts.MaxPrice = math.Ceil(hi)
		opts.PriceVolumes = priceVolumes(prices, opts.MinPrice, opts.MaxPrice)
	} else {
		opts.PriceVolumes = make([]int, priceBins)
	}

	accommodates := collect(listings, (*models.Listing).AccommodatesValue, true)
	if len(accommodates) > 0 {
		lo, hi := minMax(accommodates)
		opts.MinAccommodates = lo
		opts.MaxAccommodates = hi
		opts.AccommodatesVolumes = integerVolumes(accommodates, lo, hi)
	}

	bedrooms := collectNonNegative(listings, (*models.Listing).BedroomsValue)
	if len(bedrooms) > 0 {
		lo, hi := minMax(bedrooms)
		opts.MinBedrooms = lo
		opts.MaxBedrooms = hi
		opts.BedroomsVolumes = integerVolumes(bedrooms, lo, hi)
	}

	scores := collect(listings, (*models.Listing).ReviewScoreValue, true)
	if len(scores) > 0 {
		lo, hi := minMax(scores)
		opts.MinReviewScore = math.Floor(lo*10) / 10
		opts.MaxReviewScore = math.Ceil(hi*10) / 10
		opts.ReviewScoreVolumes = tenthVolumes(scores, opts.MinReviewScore, opts.MaxReviewScore)
	}

	opts.ZipAveragePrices = a.zipAverages(narrowForAverages(listings, filters))

	return opts
}

// narrowForAverages applies the room-type and price restrictions but
// deliberately not the zip restriction: the averages feed a per-zip view
// that must keep showing every zip.
func narrowForAverages(listings []*models.Listing, filters models.Filters) []*models.Listing {
	averagesFilters := models.Filters{
		RoomTypes: filters.RoomTypes,
		MinPrice:  filters.MinPrice,
		MaxPrice:  filters.MaxPrice,
	}
	return FilterListings(listings, averagesFilters, "")
}

// zipAverages groups valid (zip, positive price) pairs by zip and averages,
// rounded to the nearest integer.
func (a *Aggregator) zipAverages(listings []*models.Listing) map[string]int {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, l := range listings {
		zip := l.NeighbourhoodCleansed
		price, ok := l.PriceValue()
		if zip == "" || !ok || price <= 0 {
			continue
		}
		sums[zip] += price
		counts[zip]++
	}

	averages := make(map[string]int, len(sums))
	for zip, sum := range sums {
		averages[zip] = int(math.Round(sum / float64(counts[zip])))
	}
	return averages
}

// Summary computes dataset-level aggregates over the cleaned, enriched set.
func (a *Aggregator) Summary(listings []*models.Listing) *models.Summary {
	summary := &models.Summary{
		ListingsByGroup: make(map[string]int),
	}
	if len(listings) == 0 {
		return summary
	}

	summary.TotalListings = len(listings)

	var priceTotal, riskTotal float64
	priced := 0
	for _, l := range listings {
		if price, ok := l.PriceValue(); ok && price > 0 {
			if priced == 0 || price < summary.MinPrice {
				summary.MinPrice = price
			}
			if price > summary.MaxPrice {
				summary.MaxPrice = price
			}
			priceTotal += price
			priced++
		}
		riskTotal += l.RiskScore
		group := l.NeighbourhoodGroupCleansed
		if group == "" {
			group = unknownGroup
		}
		summary.ListingsByGroup[group]++
	}

	if priced > 0 {
		summary.AveragePrice = round2(priceTotal / float64(priced))
		summary.MinPrice = round2(summary.MinPrice)
		summary.MaxPrice = round2(summary.MaxPrice)
	}
	summary.AverageRisk = round2(riskTotal / float64(len(listings)))

	return summary
}

// priceVolumes bins prices into a fixed number of buckets, logarithmically
// when the domain is wide enough and strictly positive.
func priceVolumes(values []float64, min, max float64) []int {
	if min > 0 && max-min > logBinSpan {
		return logVolumes(values, min, max, priceBins)
	}
	return linearVolumes(values, min, max, priceBins)
}

// linearVolumes computes a fixed-bin-count histogram over [min,max]. Values
// outside the domain are excluded.
func linearVolumes(values []float64, min, max float64, bins int) []int {
	volumes := make([]int, bins)
	if len(values) == 0 || min >= max {
		return volumes
	}

	binSize := (max - min) / float64(bins)
	for _, v := range values {
		if v < min || v > max {
			continue
		}
		bin := int((v - min) / binSize)
		if bin > bins-1 {
			bin = bins - 1
		}
		volumes[bin]++
	}
	return volumes
}

// logVolumes bins by order of magnitude: bin index is the value's position
// between log10(min) and log10(max), clamped to the last bin.
func logVolumes(values []float64, min, max float64, bins int) []int {
	volumes := make([]int, bins)
	logMin := math.Log10(min)
	logRange := math.Log10(max) - logMin
	if logRange <= 0 {
		return volumes
	}

	for _, v := range values {
		if v < min || v > max {
			continue
		}
		bin := int((math.Log10(v) - logMin) / logRange * float64(bins))
		if bin > bins-1 {
			bin = bins - 1
		}
		volumes[bin]++
	}
	return volumes
}

// integerVolumes counts one bin per integer across [min,max]; spans wider
// than the cap fall back to linear binning.
func integerVolumes(values []float64, min, max float64) []int {
	span := int(max) - int(min) + 1
	if span > maxIntegerBins {
		return linearVolumes(values, min, max, maxIntegerBins)
	}

	volumes := make([]int, span)
	for _, v := range values {
		if v < min || v > max {
			continue
		}
		volumes[int(v)-int(min)]++
	}
	return volumes
}

// tenthVolumes bins review scores into 0.1-wide buckets.
func tenthVolumes(values []float64, min, max float64) []int {
	bins := int(math.Ceil((max-min)/0.1)) + 1
	volumes := make([]int, bins)
	for _, v := range values {
		if v < min || v > max {
			continue
		}
		idx := int(math.Floor((v - min) / 0.1))
		if idx < len(volumes) {
			volumes[idx]++
		}
	}
	return volumes
}

// distinct returns the sorted unique non-empty values of one categorical
// dimension.
func distinct(listings []*models.Listing, field func(*models.Listing) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range listings {
		v := field(l)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// collectNonNegative gathers parseable values keeping zeros (bedrooms can
// legitimately be zero for studios).
func collectNonNegative(listings []*models.Listing, value func(*models.Listing) (float64, bool)) []float64 {
	out := make([]float64, 0, len(listings))
	for _, l := range listings {
		if v, ok := value(l); ok && v >= 0 {
			out = append(out, v)
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
