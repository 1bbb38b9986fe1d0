package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"listing-insights/services"
	"listing-insights/storage"
	"listing-insights/utils"
)

func quietLogger() *utils.Logger { return utils.NewLogger(false) }

func TestRenderCSVRoundTrip(t *testing.T) {
	text := "id,name,price\n" +
		"1,Plain row,100\n" +
		"2,\"Huge house 15mins walk\nto Downtown\",200\n" +
		"3,\"Quoted, with comma and \"\"nested\"\" quotes\",300\n"

	p := services.NewParser(quietLogger())
	parsed := p.Parse(text)
	if len(parsed) != 3 {
		t.Fatalf("expected 3 accepted rows, got %d", len(parsed))
	}

	rendered, err := storage.RenderCSV([]string{"id", "name", "price"}, parsed)
	if err != nil {
		t.Fatal(err)
	}

	reparsed := p.Parse(rendered)
	if len(reparsed) != len(parsed) {
		t.Fatalf("round trip changed row count: %d -> %d", len(parsed), len(reparsed))
	}
	for i := range parsed {
		if reparsed[i].ID != parsed[i].ID || reparsed[i].Name != parsed[i].Name ||
			reparsed[i].Price != parsed[i].Price {
			t.Errorf("row %d changed: %+v vs %+v", i, parsed[i], reparsed[i])
		}
	}
}

func TestCSVWriterWritesFile(t *testing.T) {
	text := "id,name,price\n1,First,100\n2,Second,200\n"
	p := services.NewParser(quietLogger())
	parsed := p.Parse(text)

	path := filepath.Join(t.TempDir(), "out", "export.csv")
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Write(parsed); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	reparsed := p.Parse(string(data))
	if len(reparsed) != 2 {
		t.Errorf("exported file should parse back to 2 rows, got %d", len(reparsed))
	}
}
