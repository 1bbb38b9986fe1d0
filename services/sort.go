package services

import (
	"sort"
	"strconv"
	"strings"

	"listing-insights/models"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumeric
	kindCurrency
)

// fieldKinds is the single lookup of how each sortable field compares. Every
// query path consults this table, so numeric-vs-string behaviour cannot
// diverge between call sites.
var fieldKinds = map[string]fieldKind{
	"id":                             kindString,
	"name":                           kindString,
	"host_id":                        kindString,
	"host_name":                      kindString,
	"host_is_superhost":              kindString,
	"neighbourhood":                  kindString,
	"neighbourhood_cleansed":         kindString,
	"neighbourhood_group_cleansed":   kindString,
	"latitude":                       kindNumeric,
	"longitude":                      kindNumeric,
	"property_type":                  kindString,
	"room_type":                      kindString,
	"accommodates":                   kindNumeric,
	"bedrooms":                       kindNumeric,
	"amenities":                      kindString,
	"price":                          kindCurrency,
	"minimum_nights":                 kindNumeric,
	"availability_365":               kindNumeric,
	"number_of_reviews":              kindNumeric,
	"number_of_reviews_ltm":          kindNumeric,
	"last_review":                    kindString,
	"review_scores_rating":           kindNumeric,
	"reviews_per_month":              kindNumeric,
	"calculated_host_listings_count": kindNumeric,
	"instant_bookable":               kindString,
	"license":                        kindString,
	"potential_revenue":              kindNumeric,
	"risk_score":                     kindNumeric,
}

// IsSortable reports whether the field participates in sorting.
func IsSortable(field string) bool {
	_, ok := fieldKinds[field]
	return ok
}

// SortListings total-orders the listings by one field and returns a new
// slice; the input is never reordered. Missing or unparseable values sort
// last regardless of direction. The sort is stable so equal keys keep their
// filtered order.
func SortListings(listings []*models.Listing, field, order string) []*models.Listing {
	sorted := append([]*models.Listing(nil), listings...)
	kind := fieldKinds[field]
	desc := order == "desc"

	sort.SliceStable(sorted, func(i, j int) bool {
		switch kind {
		case kindNumeric, kindCurrency:
			av, aok := numericKey(sorted[i], field, kind)
			bv, bok := numericKey(sorted[j], field, kind)
			if aok != bok {
				return aok // present before missing
			}
			if !aok {
				return false
			}
			if desc {
				return av > bv
			}
			return av < bv
		default:
			as := sorted[i].Field(field)
			bs := sorted[j].Field(field)
			if (as == "") != (bs == "") {
				return as != ""
			}
			if as == "" {
				return false
			}
			if desc {
				return strings.Compare(as, bs) > 0
			}
			return strings.Compare(as, bs) < 0
		}
	})
	return sorted
}

func numericKey(l *models.Listing, field string, kind fieldKind) (float64, bool) {
	switch field {
	case "potential_revenue":
		return l.PotentialRevenue, true
	case "risk_score":
		return l.RiskScore, true
	}
	raw := l.Field(field)
	if kind == kindCurrency {
		raw = models.StripCurrency(raw)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Paginate slices one 1-indexed page out of the sorted set. Pages beyond the
// last yield an empty slice, not an error.
func Paginate(listings []*models.Listing, page, pageSize int) ([]*models.Listing, int, int) {
	total := len(listings)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return []*models.Listing{}, total, totalPages
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return listings[start:end], total, totalPages
}
