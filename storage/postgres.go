package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"listing-insights/models"
	"listing-insights/utils"
)

// PostgresWriter persists the cleaned, enriched listing set to PostgreSQL so
// external consumers can query it as a table store.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                  TEXT PRIMARY KEY,
			name                TEXT NOT NULL DEFAULT '',
			neighbourhood       TEXT NOT NULL DEFAULT '',
			neighbourhood_group TEXT NOT NULL DEFAULT '',
			room_type           TEXT NOT NULL DEFAULT '',
			property_type       TEXT NOT NULL DEFAULT '',
			price               NUMERIC(12,2) NOT NULL DEFAULT 0,
			availability_365    INT NOT NULL DEFAULT 0,
			potential_revenue   NUMERIC(14,2) NOT NULL DEFAULT 0,
			risk_score          NUMERIC(6,2) NOT NULL DEFAULT 0,
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price      ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_group      ON listings(neighbourhood_group);
		CREATE INDEX IF NOT EXISTS idx_listings_room_type  ON listings(room_type);
		CREATE INDEX IF NOT EXISTS idx_listings_risk_score ON listings(risk_score);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the enriched listing set, clearing old data first.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	const cols = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		price, _ := l.PriceValue()
		avail, _ := l.AvailabilityValue()
		valueArgs = append(valueArgs,
			l.ID, l.Name, l.NeighbourhoodCleansed, l.NeighbourhoodGroupCleansed,
			l.RoomType, l.PropertyType, price, int(avail),
			l.PotentialRevenue, l.RiskScore)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (id, name, neighbourhood, neighbourhood_group,
			room_type, property_type, price, availability_365,
			potential_revenue, risk_score)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
