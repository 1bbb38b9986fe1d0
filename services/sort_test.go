package services

import (
	"testing"

	"listing-insights/models"
)

func sortFixture() []*models.Listing {
	return []*models.Listing{
		listing(map[string]string{"id": "1", "name": "Charlie", "price": "$90.00", "bedrooms": "2"}),
		listing(map[string]string{"id": "2", "name": "alpha", "price": "$1,000.00", "bedrooms": ""}),
		listing(map[string]string{"id": "3", "name": "Bravo", "price": "$120.00", "bedrooms": "1"}),
		listing(map[string]string{"id": "4", "name": "", "price": "oops", "bedrooms": "3"}),
	}
}

func TestSortNumericCurrency(t *testing.T) {
	got := ids(SortListings(sortFixture(), "price", "asc"))
	// 90 < 120 < 1000; unparseable last.
	if !equalIDs(got, []string{"1", "3", "2", "4"}) {
		t.Errorf("price asc: got %v", got)
	}

	got = ids(SortListings(sortFixture(), "price", "desc"))
	if !equalIDs(got, []string{"2", "3", "1", "4"}) {
		t.Errorf("price desc should still push missing last: got %v", got)
	}
}

func TestSortStringCaseSensitive(t *testing.T) {
	got := ids(SortListings(sortFixture(), "name", "asc"))
	// Byte order: "Bravo" < "Charlie" < "alpha"; empty name last.
	if !equalIDs(got, []string{"3", "1", "2", "4"}) {
		t.Errorf("name asc: got %v", got)
	}

	got = ids(SortListings(sortFixture(), "name", "desc"))
	if !equalIDs(got, []string{"2", "1", "3", "4"}) {
		t.Errorf("name desc: got %v", got)
	}
}

func TestSortMissingNumericLast(t *testing.T) {
	for _, order := range []string{"asc", "desc"} {
		got := ids(SortListings(sortFixture(), "bedrooms", order))
		if got[len(got)-1] != "2" {
			t.Errorf("bedrooms %s: missing value should sort last, got %v", order, got)
		}
	}
}

func TestSortComputedFields(t *testing.T) {
	in := sortFixture()
	in[0].RiskScore = 30
	in[1].RiskScore = 10
	in[2].RiskScore = 20
	in[3].RiskScore = 40

	got := ids(SortListings(in, "risk_score", "asc"))
	if !equalIDs(got, []string{"2", "3", "1", "4"}) {
		t.Errorf("risk_score asc: got %v", got)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := sortFixture()
	SortListings(in, "price", "desc")
	if !equalIDs(ids(in), []string{"1", "2", "3", "4"}) {
		t.Errorf("input order changed: %v", ids(in))
	}
}

func TestSortStable(t *testing.T) {
	in := []*models.Listing{
		listing(map[string]string{"id": "a", "price": "100"}),
		listing(map[string]string{"id": "b", "price": "100"}),
		listing(map[string]string{"id": "c", "price": "100"}),
	}
	got := ids(SortListings(in, "price", "asc"))
	if !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("equal keys must keep input order, got %v", got)
	}
}

func TestIsSortable(t *testing.T) {
	for _, field := range []string{"name", "price", "potential_revenue", "risk_score"} {
		if !IsSortable(field) {
			t.Errorf("%q should be sortable", field)
		}
	}
	if IsSortable("no_such_field") {
		t.Error("unknown field should not be sortable")
	}
}

func TestPaginate(t *testing.T) {
	in := sortFixture()

	tests := []struct {
		page, pageSize int
		wantIDs        []string
		wantTotal      int
		wantPages      int
	}{
		{1, 2, []string{"1", "2"}, 4, 2},
		{2, 2, []string{"3", "4"}, 4, 2},
		{3, 2, nil, 4, 2},
		{1, 3, []string{"1", "2", "3"}, 4, 2},
		{2, 3, []string{"4"}, 4, 2},
		{1, 10, []string{"1", "2", "3", "4"}, 4, 1},
		{99, 10, nil, 4, 1},
	}

	for _, tt := range tests {
		slice, total, pages := Paginate(in, tt.page, tt.pageSize)
		if !equalIDs(ids(slice), tt.wantIDs) {
			t.Errorf("page %d size %d: got %v, want %v", tt.page, tt.pageSize, ids(slice), tt.wantIDs)
		}
		if total != tt.wantTotal || pages != tt.wantPages {
			t.Errorf("page %d size %d: total=%d pages=%d, want %d/%d",
				tt.page, tt.pageSize, total, pages, tt.wantTotal, tt.wantPages)
		}
	}
}

func TestPaginationCompleteness(t *testing.T) {
	in := SortListings(sortFixture(), "name", "asc")

	const pageSize = 2
	var all []string
	page := 1
	for {
		slice, total, pages := Paginate(in, page, pageSize)
		if len(slice) == 0 {
			if page <= pages {
				t.Fatalf("page %d of %d unexpectedly empty", page, pages)
			}
			if total != len(in) {
				t.Fatalf("total %d, want %d", total, len(in))
			}
			break
		}
		all = append(all, ids(slice)...)
		page++
	}

	if !equalIDs(all, ids(in)) {
		t.Errorf("concatenated pages differ from sorted set: %v vs %v", all, ids(in))
	}
}
