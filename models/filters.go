package models

// Filters describes one query's restrictions. An empty categorical set means
// unrestricted; a nil range bound means unbounded on that side. Immutable
// after construction.
type Filters struct {
	ZipCodes      []string `json:"zipCodes"`
	RoomTypes     []string `json:"roomTypes"`
	PropertyTypes []string `json:"propertyTypes"`

	MinPrice        *float64 `json:"minPrice"`
	MaxPrice        *float64 `json:"maxPrice"`
	MinAccommodates *float64 `json:"minAccommodates"`
	MaxAccommodates *float64 `json:"maxAccommodates"`
	MinBedrooms     *float64 `json:"minBedrooms"`
	MaxBedrooms     *float64 `json:"maxBedrooms"`
	MinReviewScore  *float64 `json:"minReviewScore"`
	MaxReviewScore  *float64 `json:"maxReviewScore"`

	HostIsSuperhost bool `json:"hostIsSuperhost"`
	InstantBookable bool `json:"instantBookable"`
}

// FilterOptions is a read-only snapshot of the legal filter domain for a
// record set: what the range sliders and category checklists may offer.
type FilterOptions struct {
	ZipCodes      []string `json:"zipCodes"`
	RoomTypes     []string `json:"roomTypes"`
	PropertyTypes []string `json:"propertyTypes"`

	MinPrice        float64 `json:"minPrice"`
	MaxPrice        float64 `json:"maxPrice"`
	MinAccommodates float64 `json:"minAccommodates"`
	MaxAccommodates float64 `json:"maxAccommodates"`
	MinBedrooms     float64 `json:"minBedrooms"`
	MaxBedrooms     float64 `json:"maxBedrooms"`
	MinReviewScore  float64 `json:"minReviewScore"`
	MaxReviewScore  float64 `json:"maxReviewScore"`

	ZipAveragePrices map[string]int `json:"zipAveragePrices"`

	PriceVolumes        []int `json:"priceVolumes"`
	AccommodatesVolumes []int `json:"accommodatesVolumes"`
	BedroomsVolumes     []int `json:"bedroomsVolumes"`
	ReviewScoreVolumes  []int `json:"reviewScoreVolumes"`
}

// ListingsPage is one page of a filtered, sorted listing query.
type ListingsPage struct {
	Data       []*Listing `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

// MapPoint is the geospatial projection of a listing.
type MapPoint struct {
	Latitude              string `json:"latitude"`
	Longitude             string `json:"longitude"`
	Name                  string `json:"name"`
	NeighbourhoodCleansed string `json:"neighbourhood_cleansed"`
	Price                 string `json:"price"`
	RoomType              string `json:"room_type"`
}

// Summary holds dataset-level aggregates over the cleaned, enriched set.
type Summary struct {
	TotalListings   int            `json:"totalListings"`
	AveragePrice    float64        `json:"averagePrice"`
	MinPrice        float64        `json:"minPrice"`
	MaxPrice        float64        `json:"maxPrice"`
	AverageRisk     float64        `json:"averageRiskScore"`
	ListingsByGroup map[string]int `json:"listingsByGroup"`
}
