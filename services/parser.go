package services

import (
	"strings"

	"listing-insights/models"
	"listing-insights/utils"
)

// Parser turns raw delimited text into typed listing records. A logical row
// may span several physical lines when a quoted field contains newlines, so
// physical lines are accumulated until the quote count of the buffer is even.
type Parser struct {
	logger *utils.Logger
}

// NewParser creates a Parser with the given logger.
func NewParser(logger *utils.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse converts the full table text into listing records, one per logical
// row, in input order. Rows whose field count differs from the header's are
// dropped, as are rows repeating an already-seen id. Pure: the same text
// always yields the same sequence.
func (p *Parser) Parse(text string) []*models.Listing {
	lines := strings.Split(text, "\n")
	if len(lines) < 1 || strings.TrimSpace(lines[0]) == "" {
		return nil
	}

	headers := splitRow(strings.TrimSpace(lines[0]))
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	listings := make([]*models.Listing, 0, len(lines)-1)
	seen := make(map[string]struct{})
	dropped := 0
	current := ""

	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		if line == "" && current == "" {
			continue
		}

		if current != "" {
			current += "\n" + line
		} else {
			current = line
		}

		// An odd quote count means a quoted field is still open and the
		// logical row continues on the next physical line.
		if strings.Count(current, `"`)%2 != 0 {
			continue
		}

		values := splitRow(current)
		current = ""

		if len(values) != len(headers) {
			dropped++
			continue
		}

		l := &models.Listing{}
		for i, h := range headers {
			l.SetField(h, strings.TrimSpace(values[i]))
		}

		if l.ID != "" {
			if _, dup := seen[l.ID]; dup {
				p.logger.Debug("[parser] Duplicate id skipped: %s", l.ID)
				continue
			}
			seen[l.ID] = struct{}{}
		}

		listings = append(listings, l)
	}

	if dropped > 0 {
		p.logger.Debug("[parser] Dropped %d rows with mismatched field count", dropped)
	}
	p.logger.Info("[parser] Parsed %d listings", len(listings))
	return listings
}

// splitRow splits one logical row into fields. A comma inside an open quote
// is literal; a doubled quote inside a quoted field is an escaped quote.
func splitRow(row string) []string {
	var values []string
	var field strings.Builder
	inQuotes := false

	runes := []rune(row)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			values = append(values, field.String())
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}
	values = append(values, field.String())
	return values
}
