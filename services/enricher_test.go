package services

import (
	"math"
	"testing"

	"listing-insights/models"
)

func TestEnricherPotentialRevenue(t *testing.T) {
	e := NewEnricher(newTestLogger())

	tests := []struct {
		price string
		avail string
		want  float64
	}{
		{"248", "147", 36456},
		{"$248.00", "147", 36456},
		{"$1,000", "10", 10000},
		{"", "147", 0},
		{"100", "", 0},
	}

	for _, tt := range tests {
		l := listing(map[string]string{"price": tt.price, "availability_365": tt.avail})
		e.Enrich([]*models.Listing{l})
		if l.PotentialRevenue != tt.want {
			t.Errorf("price=%q avail=%q: potential revenue = %.2f, want %.2f",
				tt.price, tt.avail, l.PotentialRevenue, tt.want)
		}
	}
}

func TestEnricherRiskScoreExtremes(t *testing.T) {
	e := NewEnricher(newTestLogger())

	worst := listing(map[string]string{
		"room_type":                      "Shared room",
		"availability_365":               "365",
		"calculated_host_listings_count": "100",
		"number_of_reviews":              "0",
		"minimum_nights":                 "30",
		"reviews_per_month":              "0",
	})
	// Shared room 10 + occupancy 0 + host 10 + reviews 10 + nights 10 + rpm 10
	// minus the zero-availability occupancy; availability 365 gives 0.
	e.Enrich([]*models.Listing{worst})
	if worst.RiskScore != 40 {
		t.Errorf("worst-but-available: risk = %.2f, want 40", worst.RiskScore)
	}

	best := listing(map[string]string{
		"room_type":                      "Entire home/apt",
		"availability_365":               "365",
		"calculated_host_listings_count": "0",
		"number_of_reviews":              "200",
		"minimum_nights":                 "0",
		"reviews_per_month":              "5",
	})
	e.Enrich([]*models.Listing{best})
	if best.RiskScore != 0 {
		t.Errorf("best case: risk = %.2f, want 0", best.RiskScore)
	}
}

func TestEnricherRiskScoreRoomTypeFactor(t *testing.T) {
	e := NewEnricher(newTestLogger())

	// Everything but room type pinned to zero contribution.
	base := map[string]string{
		"availability_365":               "365",
		"calculated_host_listings_count": "0",
		"number_of_reviews":              "200",
		"minimum_nights":                 "0",
		"reviews_per_month":              "5",
	}

	tests := []struct {
		roomType string
		want     float64
	}{
		{"Entire home/apt", 0},
		{"entire home/apt", 0},
		{"Private room", 5},
		{"Shared room", 10},
		{"Hotel room", 5},
		{"Yurt", 5},
		{"", 5},
	}

	for _, tt := range tests {
		fields := map[string]string{"room_type": tt.roomType}
		for k, v := range base {
			fields[k] = v
		}
		l := listing(fields)
		e.Enrich([]*models.Listing{l})
		if l.RiskScore != tt.want {
			t.Errorf("room_type=%q: risk = %.2f, want %.2f", tt.roomType, l.RiskScore, tt.want)
		}
	}
}

func TestEnricherRiskScoreWithinRange(t *testing.T) {
	e := NewEnricher(newTestLogger())

	candidates := []*models.Listing{
		listing(map[string]string{}),
		// Every factor maxed sums past 50 and must clamp to it.
		listing(map[string]string{"room_type": "Shared room", "minimum_nights": "365"}),
		listing(map[string]string{"availability_365": "147", "reviews_per_month": "0.3"}),
		listing(map[string]string{"price": "garbage", "number_of_reviews": "garbage"}),
		listing(map[string]string{"calculated_host_listings_count": "10000"}),
		// Availability past a full year drags the occupancy factor negative
		// and must clamp to the floor.
		listing(map[string]string{
			"room_type":         "Entire home/apt",
			"availability_365":  "730",
			"number_of_reviews": "200",
			"reviews_per_month": "6",
		}),
	}

	e.Enrich(candidates)
	for i, l := range candidates {
		if l.RiskScore < 0 || l.RiskScore > 50 {
			t.Errorf("listing %d: risk %.2f outside [0,50]", i, l.RiskScore)
		}
	}
}

func TestEnricherNeverPanicsOnGarbage(t *testing.T) {
	e := NewEnricher(newTestLogger())

	l := listing(map[string]string{
		"price":             "N/A",
		"availability_365":  "??",
		"minimum_nights":    "",
		"reviews_per_month": "none",
	})
	e.Enrich([]*models.Listing{l})

	if l.PotentialRevenue != 0 {
		t.Errorf("garbage numerics should yield zero revenue, got %.2f", l.PotentialRevenue)
	}
	// Missing minimum nights falls back to 1: factor 1/30*10.
	want := 5 + 10 + 0 + 10 + (1.0/30.0)*10 + 10
	if math.Abs(l.RiskScore-want) > 1e-9 {
		t.Errorf("risk = %v, want %v", l.RiskScore, want)
	}
}
