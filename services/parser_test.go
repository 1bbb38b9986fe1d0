package services

import (
	"testing"

	"listing-insights/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger(false) }

func TestParserBasicRows(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,First,100\n2,Second,200\n"

	listings := p.Parse(text)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if listings[0].ID != "1" || listings[0].Name != "First" || listings[0].Price != "100" {
		t.Errorf("first row parsed wrong: %+v", listings[0])
	}
	if listings[1].ID != "2" {
		t.Errorf("row order not preserved: got id %q", listings[1].ID)
	}
}

func TestParserMultilineQuotedField(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,\"Huge house 15mins walk\nto Downtown\",100\n"

	listings := p.Parse(text)
	if len(listings) != 1 {
		t.Fatalf("expected exactly 1 logical row, got %d", len(listings))
	}
	want := "Huge house 15mins walk\nto Downtown"
	if listings[0].Name != want {
		t.Errorf("name: got %q, want %q", listings[0].Name, want)
	}
}

func TestParserEscapedQuotes(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,\"She said \"\"hi\"\" to me\",100\n"

	listings := p.Parse(text)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	want := `She said "hi" to me`
	if listings[0].Name != want {
		t.Errorf("name: got %q, want %q", listings[0].Name, want)
	}
}

func TestParserQuotedComma(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,\"Cozy, bright flat\",100\n"

	listings := p.Parse(text)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Name != "Cozy, bright flat" {
		t.Errorf("comma inside quotes should be literal, got %q", listings[0].Name)
	}
}

func TestParserDropsMismatchedFieldCount(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,First,100\n2,only-two\n3,Third,300,extra\n4,Fourth,400\n"

	listings := p.Parse(text)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings after dropping bad rows, got %d", len(listings))
	}
	if listings[0].ID != "1" || listings[1].ID != "4" {
		t.Errorf("wrong survivors: %q, %q", listings[0].ID, listings[1].ID)
	}
}

func TestParserIgnoresUnknownHeaders(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,wibble,name\n1,whatever,First\n"

	listings := p.Parse(text)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Name != "First" {
		t.Errorf("known field lost next to unknown header: %+v", listings[0])
	}
}

func TestParserDeduplicatesIDs(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,First,100\n1,Duplicate,999\n"

	listings := p.Parse(text)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing after id dedupe, got %d", len(listings))
	}
	if listings[0].Name != "First" {
		t.Errorf("first occurrence should win, got %q", listings[0].Name)
	}
}

func TestParserDeterministic(t *testing.T) {
	p := NewParser(newTestLogger())
	text := "id,name,price\n1,First,100\n2,\"Two\nlines\",200\n"

	a := p.Parse(text)
	b := p.Parse(text)
	if len(a) != len(b) {
		t.Fatalf("parse not deterministic: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if *a[i] != *b[i] {
			t.Errorf("row %d differs between parses", i)
		}
	}
}

func TestParserEmptyInput(t *testing.T) {
	p := NewParser(newTestLogger())
	if got := p.Parse(""); len(got) != 0 {
		t.Errorf("empty input should yield no listings, got %d", len(got))
	}
	if got := p.Parse("id,name,price\n"); len(got) != 0 {
		t.Errorf("header-only input should yield no listings, got %d", len(got))
	}
}
