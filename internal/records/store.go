// Package records is the restaurant record store: point lookups by the
// opaque business id the search index hands out.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
)

// ErrNotFound marks a lookup miss. A miss is a normal branch, not a failure;
// callers drop the candidate and move on.
var ErrNotFound = errors.New("records: not found")

// Store wraps the SQLite restaurants database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("records: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS restaurants (
			business_id  TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			rating       REAL NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			address      TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("records: init schema: %w", err)
	}
	return nil
}

// Get fetches one restaurant by id. Returns ErrNotFound when the id is not
// in the store.
func (s *Store) Get(ctx context.Context, id string) (model.RestaurantRecord, error) {
	var rec model.RestaurantRecord
	row := s.db.QueryRowContext(ctx,
		`SELECT business_id, name, rating, review_count, address FROM restaurants WHERE business_id = ?`, id)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Rating, &rec.ReviewCount, &rec.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RestaurantRecord{}, ErrNotFound
	}
	if err != nil {
		return model.RestaurantRecord{}, fmt.Errorf("records: get %s: %w", id, err)
	}
	return rec, nil
}

// Put inserts or replaces one restaurant. Used by the data loader and tests.
func (s *Store) Put(ctx context.Context, rec model.RestaurantRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO restaurants (business_id, name, rating, review_count, address)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Rating, rec.ReviewCount, rec.Address)
	if err != nil {
		return fmt.Errorf("records: put %s: %w", rec.ID, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
