package models

import (
	"strconv"
	"strings"
)

// Listing is one row of the source table. Every sourced field is kept as the
// raw string it arrived as; numeric interpretation happens on demand through
// the typed accessors below, so a value that fails to parse stays visible
// instead of silently becoming a zero at ingest time.
type Listing struct {
	ID                          string `json:"id"`
	Name                        string `json:"name"`
	HostID                      string `json:"host_id"`
	HostName                    string `json:"host_name"`
	HostIsSuperhost             string `json:"host_is_superhost"`
	Neighbourhood               string `json:"neighbourhood"`
	NeighbourhoodCleansed       string `json:"neighbourhood_cleansed"`
	NeighbourhoodGroupCleansed  string `json:"neighbourhood_group_cleansed"`
	Latitude                    string `json:"latitude"`
	Longitude                   string `json:"longitude"`
	PropertyType                string `json:"property_type"`
	RoomType                    string `json:"room_type"`
	Accommodates                string `json:"accommodates"`
	Bedrooms                    string `json:"bedrooms"`
	Amenities                   string `json:"amenities"`
	Price                       string `json:"price"`
	MinimumNights               string `json:"minimum_nights"`
	Availability365             string `json:"availability_365"`
	NumberOfReviews             string `json:"number_of_reviews"`
	NumberOfReviewsLTM          string `json:"number_of_reviews_ltm"`
	LastReview                  string `json:"last_review"`
	ReviewScoresRating          string `json:"review_scores_rating"`
	ReviewsPerMonth             string `json:"reviews_per_month"`
	CalculatedHostListingsCount string `json:"calculated_host_listings_count"`
	InstantBookable             string `json:"instant_bookable"`
	License                     string `json:"license"`

	// Computed by the enricher, never sourced.
	PotentialRevenue float64 `json:"potential_revenue"`
	RiskScore        float64 `json:"risk_score"`
}

// SetField assigns a raw value to the field named by the source header.
// Unknown header names are ignored.
func (l *Listing) SetField(header, value string) {
	switch header {
	case "id":
		l.ID = value
	case "name":
		l.Name = value
	case "host_id":
		l.HostID = value
	case "host_name":
		l.HostName = value
	case "host_is_superhost":
		l.HostIsSuperhost = value
	case "neighbourhood":
		l.Neighbourhood = value
	case "neighbourhood_cleansed":
		l.NeighbourhoodCleansed = value
	case "neighbourhood_group_cleansed":
		l.NeighbourhoodGroupCleansed = value
	case "latitude":
		l.Latitude = value
	case "longitude":
		l.Longitude = value
	case "property_type":
		l.PropertyType = value
	case "room_type":
		l.RoomType = value
	case "accommodates":
		l.Accommodates = value
	case "bedrooms":
		l.Bedrooms = value
	case "amenities":
		l.Amenities = value
	case "price":
		l.Price = value
	case "minimum_nights":
		l.MinimumNights = value
	case "availability_365":
		l.Availability365 = value
	case "number_of_reviews":
		l.NumberOfReviews = value
	case "number_of_reviews_ltm":
		l.NumberOfReviewsLTM = value
	case "last_review":
		l.LastReview = value
	case "review_scores_rating":
		l.ReviewScoresRating = value
	case "reviews_per_month":
		l.ReviewsPerMonth = value
	case "calculated_host_listings_count":
		l.CalculatedHostListingsCount = value
	case "instant_bookable":
		l.InstantBookable = value
	case "license":
		l.License = value
	}
}

// Field returns the raw string value of the field named by the source header.
// It is the inverse of SetField and backs sorting and CSV export.
func (l *Listing) Field(header string) string {
	switch header {
	case "id":
		return l.ID
	case "name":
		return l.Name
	case "host_id":
		return l.HostID
	case "host_name":
		return l.HostName
	case "host_is_superhost":
		return l.HostIsSuperhost
	case "neighbourhood":
		return l.Neighbourhood
	case "neighbourhood_cleansed":
		return l.NeighbourhoodCleansed
	case "neighbourhood_group_cleansed":
		return l.NeighbourhoodGroupCleansed
	case "latitude":
		return l.Latitude
	case "longitude":
		return l.Longitude
	case "property_type":
		return l.PropertyType
	case "room_type":
		return l.RoomType
	case "accommodates":
		return l.Accommodates
	case "bedrooms":
		return l.Bedrooms
	case "amenities":
		return l.Amenities
	case "price":
		return l.Price
	case "minimum_nights":
		return l.MinimumNights
	case "availability_365":
		return l.Availability365
	case "number_of_reviews":
		return l.NumberOfReviews
	case "number_of_reviews_ltm":
		return l.NumberOfReviewsLTM
	case "last_review":
		return l.LastReview
	case "review_scores_rating":
		return l.ReviewScoresRating
	case "reviews_per_month":
		return l.ReviewsPerMonth
	case "calculated_host_listings_count":
		return l.CalculatedHostListingsCount
	case "instant_bookable":
		return l.InstantBookable
	case "license":
		return l.License
	}
	return ""
}

// StripCurrency removes everything that is not a digit, decimal point or
// minus sign, turning "$1,250.00" into "1250.00".
func StripCurrency(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PriceValue parses the price after stripping currency symbols and commas.
func (l *Listing) PriceValue() (float64, bool) {
	return parseFloat(StripCurrency(l.Price))
}

// AvailabilityValue parses the 365-day availability.
func (l *Listing) AvailabilityValue() (float64, bool) {
	return parseFloat(l.Availability365)
}

// AccommodatesValue parses the accommodates count.
func (l *Listing) AccommodatesValue() (float64, bool) {
	return parseInt(l.Accommodates)
}

// BedroomsValue parses the bedrooms count.
func (l *Listing) BedroomsValue() (float64, bool) {
	return parseInt(l.Bedrooms)
}

// MinimumNightsValue parses the minimum-nights requirement.
func (l *Listing) MinimumNightsValue() (float64, bool) {
	return parseInt(l.MinimumNights)
}

// NumberOfReviewsValue parses the total review count.
func (l *Listing) NumberOfReviewsValue() (float64, bool) {
	return parseInt(l.NumberOfReviews)
}

// ReviewScoreValue parses the review score rating.
func (l *Listing) ReviewScoreValue() (float64, bool) {
	return parseFloat(l.ReviewScoresRating)
}

// ReviewsPerMonthValue parses the reviews-per-month rate.
func (l *Listing) ReviewsPerMonthValue() (float64, bool) {
	return parseFloat(l.ReviewsPerMonth)
}

// HostListingsValue parses the calculated host listings count.
func (l *Listing) HostListingsValue() (float64, bool) {
	return parseInt(l.CalculatedHostListingsCount)
}

// PriceOr returns the parsed price or the fallback.
func (l *Listing) PriceOr(fallback float64) float64 {
	if v, ok := l.PriceValue(); ok {
		return v
	}
	return fallback
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseInt mirrors the source's base-10 integer reads: leading digits are
// accepted even when followed by a fraction ("2.0" parses as 2).
func parseInt(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return float64(v), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return float64(int(f)), true
}
