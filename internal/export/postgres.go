package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/orlic/leadtap/internal/model"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS businesses (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT,
	address       TEXT,
	phone         TEXT,
	email         TEXT,
	website       TEXT,
	rating        DOUBLE PRECISION,
	review_count  INTEGER,
	hours         TEXT,
	notes         TEXT,
	industry      TEXT,
	company_size  TEXT,
	source        TEXT,
	source_url    TEXT,
	scraped_at    TIMESTAMPTZ,
	lat           DOUBLE PRECISION,
	lon           DOUBLE PRECISION,
	display_name  TEXT
)`

const pgUpsert = `
INSERT INTO businesses (
	id, name, category, address, phone, email, website,
	rating, review_count, hours, notes, industry, company_size,
	source, source_url, scraped_at, lat, lon, display_name
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, category = EXCLUDED.category,
	address = EXCLUDED.address, phone = EXCLUDED.phone,
	email = EXCLUDED.email, website = EXCLUDED.website,
	rating = EXCLUDED.rating, review_count = EXCLUDED.review_count,
	hours = EXCLUDED.hours, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
	display_name = EXCLUDED.display_name`

// PostgresSink pushes the dataset into an external Postgres database for
// downstream CRM tooling.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects and ensures the target table exists.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, pgSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

// Push upserts every record in one transaction and returns the count
// written.
func (s *PostgresSink) Push(ctx context.Context, records []model.BusinessRecord) (int, error) {
	if len(records) == 0 {
		return 0, ErrEmptyDataset
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pgUpsert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	written := 0
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Name, rec.Category, rec.Address, rec.Phone,
			rec.Email, rec.Website, rec.Rating, rec.ReviewCount, rec.Hours,
			rec.Notes, rec.Industry, rec.CompanySize,
			string(rec.Source), rec.SourceURL, rec.ScrapedAt,
			rec.Lat, rec.Lon, rec.DisplayName,
		); err != nil {
			return written, fmt.Errorf("upsert %q: %w", rec.Name, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return written, err
	}
	return written, nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() error { return s.db.Close() }
