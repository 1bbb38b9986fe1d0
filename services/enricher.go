package services

import (
	"math"
	"strings"

	"listing-insights/models"
	"listing-insights/utils"
)

// Enricher computes the derived per-listing metrics: potential revenue and
// the composite risk score. It is a pure per-record transform and never
// fails; unparseable numerics fall back to zero (one for minimum nights).
type Enricher struct {
	logger *utils.Logger
}

// NewEnricher creates an Enricher with the given logger.
func NewEnricher(logger *utils.Logger) *Enricher {
	return &Enricher{logger: logger}
}

// Enrich fills PotentialRevenue and RiskScore on every listing and returns
// the same slice for chaining.
func (e *Enricher) Enrich(listings []*models.Listing) []*models.Listing {
	for _, l := range listings {
		price := l.PriceOr(0)
		avail := valueOr(l.AvailabilityValue, 0)

		l.PotentialRevenue = price * avail
		l.RiskScore = riskScore(l)
	}
	e.logger.Debug("[enricher] Enriched %d listings", len(listings))
	return listings
}

// riskScore is a weighted sum of six independent 0–10 factors, total range
// 0–50, lower is better.
func riskScore(l *models.Listing) float64 {
	var roomTypeFactor float64
	switch strings.ToLower(l.RoomType) {
	case "entire home/apt":
		roomTypeFactor = 0
	case "private room":
		roomTypeFactor = 5
	case "shared room":
		roomTypeFactor = 10
	case "hotel room":
		roomTypeFactor = 5
	default:
		roomTypeFactor = 5
	}

	// Less availability means the listing is mostly booked or blocked.
	availability := valueOr(l.AvailabilityValue, 0)
	occupancyFactor := ((365 - availability) / 365) * 10

	hostListings := valueOr(l.HostListingsValue, 0)
	hostExposureFactor := math.Min(hostListings/10, 5) * 2

	reviews := valueOr(l.NumberOfReviewsValue, 0)
	reviewsFactor := math.Max(0, 10-reviews/10)

	minNights := valueOr(l.MinimumNightsValue, 1)
	minNightsFactor := math.Min(minNights/30, 1) * 10

	rpm := valueOr(l.ReviewsPerMonthValue, 0)
	rpmFactor := 10.0
	if rpm > 0 {
		rpmFactor = math.Max(0, 10-rpm*2)
	}

	total := roomTypeFactor + occupancyFactor + hostExposureFactor +
		reviewsFactor + minNightsFactor + rpmFactor

	// The published range is 0–50. A listing maxing every factor would
	// otherwise exceed it, and availability beyond 365 days drives the
	// occupancy factor negative.
	return math.Min(math.Max(total, 0), 50)
}

func valueOr(value func() (float64, bool), fallback float64) float64 {
	if v, ok := value(); ok {
		return v
	}
	return fallback
}
