// Package store keeps a copy of the emissions table in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// ErrNotInitialized is returned when the store was closed or never opened
var ErrNotInitialized = errors.New("store not initialized")

// ErrNoImports is returned by LastImport before anything was imported
var ErrNoImports = errors.New("no imports recorded")

const schema = `
CREATE TABLE IF NOT EXISTS emissions (
	country   TEXT NOT NULL,
	region    TEXT NOT NULL,
	year      INTEGER NOT NULL,
	emissions REAL NOT NULL,
	PRIMARY KEY (country, year)
);
CREATE TABLE IF NOT EXISTS imports (
	id         TEXT PRIMARY KEY,
	source     TEXT,
	row_count  INTEGER,
	created_at DATETIME
);
`

// Import describes one ImportRecords run
type Import struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite connection
type Store struct {
	db *sql.DB
}

// Open connects to the database at path and creates the tables if needed
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ImportRecords replaces the stored table with records in one transaction
// and returns the import id.
func (s *Store) ImportRecords(ctx context.Context, source string, records []model.EmissionsRecord) (string, error) {
	if s == nil || s.db == nil {
		return "", ErrNotInitialized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM emissions`); err != nil {
		return "", fmt.Errorf("failed to clear emissions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO emissions (country, region, year, emissions) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Country, rec.Region, rec.Year, rec.Emissions); err != nil {
			return "", fmt.Errorf("failed to insert %s/%d: %w", rec.Country, rec.Year, err)
		}
	}

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `INSERT INTO imports (id, source, row_count, created_at) VALUES (?, ?, ?, ?)`,
		id, source, len(records), time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import: %w", err)
	}
	return id, nil
}

// LoadRecords returns every stored row ordered by country and year
func (s *Store) LoadRecords(ctx context.Context) ([]model.EmissionsRecord, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, `SELECT country, region, year, emissions FROM emissions ORDER BY country, year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query emissions: %w", err)
	}
	defer rows.Close()

	var records []model.EmissionsRecord
	for rows.Next() {
		var rec model.EmissionsRecord
		if err := rows.Scan(&rec.Country, &rec.Region, &rec.Year, &rec.Emissions); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountRecords returns the number of stored rows
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotInitialized
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emissions`).Scan(&n)
	return n, err
}

// LastImport returns the most recent import
func (s *Store) LastImport(ctx context.Context) (Import, error) {
	if s == nil || s.db == nil {
		return Import{}, ErrNotInitialized
	}
	var imp Import
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, row_count, created_at FROM imports ORDER BY created_at DESC LIMIT 1`).
		Scan(&imp.ID, &imp.Source, &imp.RowCount, &imp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNoImports
	}
	return imp, err
}
