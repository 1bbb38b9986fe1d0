package services

import (
	"strings"

	"listing-insights/models"
)

// FilterListings applies the filters and optional search term as independent
// conjunctions. It is purely functional and order-preserving; cheap
// categorical and boolean tests run before the numeric-range parses.
func FilterListings(listings []*models.Listing, filters models.Filters, searchTerm string) []*models.Listing {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	zips := toSet(filters.ZipCodes)
	roomTypes := toSet(filters.RoomTypes)
	propertyTypes := toSet(filters.PropertyTypes)

	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if term != "" && !strings.Contains(strings.ToLower(l.Name), term) {
			continue
		}

		if !inSet(zips, l.NeighbourhoodCleansed) ||
			!inSet(roomTypes, l.RoomType) ||
			!inSet(propertyTypes, l.PropertyType) {
			continue
		}

		if filters.HostIsSuperhost && l.HostIsSuperhost != "t" {
			continue
		}
		if filters.InstantBookable && l.InstantBookable != "t" {
			continue
		}

		if !inRange(l.PriceValue, filters.MinPrice, filters.MaxPrice) ||
			!inRange(l.AccommodatesValue, filters.MinAccommodates, filters.MaxAccommodates) ||
			!inRange(l.BedroomsValue, filters.MinBedrooms, filters.MaxBedrooms) ||
			!inRange(l.ReviewScoreValue, filters.MinReviewScore, filters.MaxReviewScore) {
			continue
		}

		out = append(out, l)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats a nil set as "no restriction".
func inSet(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}

// inRange applies an inclusive [min,max] test. An absent bound is
// unrestricted; a value that fails to parse fails closed when either bound
// is present.
func inRange(value func() (float64, bool), min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	v, ok := value()
	if !ok {
		return false
	}
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}
