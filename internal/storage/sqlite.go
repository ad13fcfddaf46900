package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/orlic/leadtap/internal/model"
)

// Store is the single owner of persisted records and settings. All writes
// serialize through one mutex so concurrent platform tabs cannot lose
// updates to each other.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// SaveResult reports the outcome of one save.
type SaveResult struct {
	Count     int
	Duplicate bool
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	// Optimize for write throughput
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS businesses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		address TEXT,
		phone TEXT,
		email TEXT,
		website TEXT,
		rating REAL,
		review_count INTEGER,
		hours TEXT,
		notes TEXT,
		industry TEXT,
		company_size TEXT,
		source TEXT,
		source_url TEXT,
		scraped_at DATETIME,
		lat REAL,
		lon REAL,
		osm_id INTEGER,
		osm_type TEXT,
		display_name TEXT,
		UNIQUE(name, address)
	);
	CREATE INDEX IF NOT EXISTS idx_businesses_source ON businesses(source);
	CREATE INDEX IF NOT EXISTS idx_businesses_rating ON businesses(rating);
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		auto_scrape INTEGER NOT NULL,
		max_results INTEGER NOT NULL,
		include_emails INTEGER NOT NULL,
		include_phones INTEGER NOT NULL,
		osm_integration INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	// First open writes the defaults, matching install-time initialization.
	d := model.DefaultSettings()
	_, err := db.Exec(`
		INSERT OR IGNORE INTO settings
		(id, auto_scrape, max_results, include_emails, include_phones, osm_integration)
		VALUES (1,?,?,?,?,?)`,
		d.AutoScrape, d.MaxResults, d.IncludeEmails, d.IncludePhones, d.OSMIntegration,
	)
	if err != nil {
		return fmt.Errorf("initializing settings: %w", err)
	}
	return nil
}

// SaveBusiness persists rec unless a record with the same (name, address)
// already exists. ID and timestamp are assigned here, at save time.
func (s *Store) SaveBusiness(rec model.BusinessRecord) (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM businesses WHERE name = ? AND address = ?)`,
		rec.Name, rec.Address,
	).Scan(&exists)
	if err != nil {
		return SaveResult{}, fmt.Errorf("checking duplicate: %w", err)
	}

	if !exists {
		rec.ID = uuid.NewString()
		rec.ScrapedAt = time.Now()
		_, err = s.db.Exec(`
			INSERT INTO businesses
			(id, name, category, address, phone, email, website, rating, review_count,
			 hours, notes, industry, company_size, source, source_url, scraped_at,
			 lat, lon, osm_id, osm_type, display_name)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			rec.ID, rec.Name, rec.Category, rec.Address, rec.Phone, rec.Email,
			rec.Website, rec.Rating, rec.ReviewCount, rec.Hours, rec.Notes,
			rec.Industry, rec.CompanySize, string(rec.Source), rec.SourceURL,
			rec.ScrapedAt, rec.Lat, rec.Lon, rec.OSMID, rec.OSMType, rec.DisplayName,
		)
		if err != nil {
			return SaveResult{}, fmt.Errorf("inserting business: %w", err)
		}
	}

	count, err := s.countLocked()
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Count: count, Duplicate: exists}, nil
}

// Businesses returns all records ordered by capture time.
func (s *Store) Businesses() ([]model.BusinessRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, category, address, phone, email, website, rating,
		       review_count, hours, notes, industry, company_size, source,
		       source_url, scraped_at, lat, lon, osm_id, osm_type, display_name
		FROM businesses ORDER BY scraped_at, name`)
	if err != nil {
		return nil, fmt.Errorf("querying businesses: %w", err)
	}
	defer rows.Close()

	var records []model.BusinessRecord
	for rows.Next() {
		var b model.BusinessRecord
		var source string
		err := rows.Scan(
			&b.ID, &b.Name, &b.Category, &b.Address, &b.Phone, &b.Email,
			&b.Website, &b.Rating, &b.ReviewCount, &b.Hours, &b.Notes,
			&b.Industry, &b.CompanySize, &source, &b.SourceURL, &b.ScrapedAt,
			&b.Lat, &b.Lon, &b.OSMID, &b.OSMType, &b.DisplayName,
		)
		if err != nil {
			continue
		}
		b.Source = model.Platform(source)
		records = append(records, b)
	}
	return records, rows.Err()
}

// Settings reads the single settings row.
func (s *Store) Settings() (model.Settings, error) {
	var set model.Settings
	err := s.db.QueryRow(`
		SELECT auto_scrape, max_results, include_emails, include_phones, osm_integration
		FROM settings WHERE id = 1`,
	).Scan(&set.AutoScrape, &set.MaxResults, &set.IncludeEmails, &set.IncludePhones, &set.OSMIntegration)
	if err == sql.ErrNoRows {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return set, fmt.Errorf("reading settings: %w", err)
	}
	return set, nil
}

// PutSettings replaces the settings wholesale.
func (s *Store) PutSettings(set model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO settings
		(id, auto_scrape, max_results, include_emails, include_phones, osm_integration)
		VALUES (1,?,?,?,?,?)`,
		set.AutoScrape, set.MaxResults, set.IncludeEmails, set.IncludePhones, set.OSMIntegration,
	)
	if err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// UpdateGeo attaches a gazetteer match to an existing record.
func (s *Store) UpdateGeo(id string, place model.OSMPlace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE businesses SET lat = ?, lon = ?, osm_id = ?, osm_type = ?, display_name = ?
		WHERE id = ?`,
		place.Lat, place.Lon, place.OSMID, place.OSMType, place.DisplayName, id,
	)
	if err != nil {
		return fmt.Errorf("updating geo fields: %w", err)
	}
	return nil
}

// Clear removes all records. Settings are untouched.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM businesses`); err != nil {
		return fmt.Errorf("clearing businesses: %w", err)
	}
	return nil
}

func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

func (s *Store) countLocked() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM businesses`).Scan(&count)
	return count, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
