/*
Package sqlite provides a SQLite-backed store for the marketplace glue
around the aid engine: the activity catalog and family profiles.

PURPOSE:
  The engine itself is pure and storage-free. What the surrounding
  service persists is the browsable activity catalog (name, category,
  period, price, location) and family profiles (quotient, geography,
  social-condition flags, children ages) so a simulation can be run
  from a stored profile. Simulation results are NOT persisted.

KEY TABLES:
  activities: The bookable activity catalog
  families:   Stored family profiles feeding simulations

PRECISION:
  Prices are stored in integer cents. Conversion to the whole-euro
  decimals the engine works in happens exactly once, in PriceEuros.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

USAGE:
  store, err := sqlite.New("./data/famiz.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: The HTTP layer using this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/famiz/aid-engine/aid"
)

// Store persists activities and family profiles in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store with the given database path. Use ":memory:"
// for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL,
		period      TEXT NOT NULL,
		price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
		department  TEXT NOT NULL DEFAULT '',
		commune     TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_activities_category_period
		ON activities(category, period);

	CREATE TABLE IF NOT EXISTS families (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		quotient      INTEGER NOT NULL,
		department    TEXT NOT NULL DEFAULT '',
		commune       TEXT NOT NULL DEFAULT '',
		flags_json    TEXT NOT NULL DEFAULT '[]',
		children_json TEXT NOT NULL DEFAULT '[]',
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// =============================================================================
// ACTIVITIES
// =============================================================================

// Activity is one bookable catalog entry.
type Activity struct {
	ID         string
	Name       string
	Category   aid.Category
	Period     aid.Period
	PriceCents int64
	Department string
	Commune    string
	CreatedAt  time.Time
}

// PriceEuros converts the stored cent amount to the whole-euro decimal
// the engine works in. This is the single cents-to-euros conversion
// point in the system.
func (a Activity) PriceEuros() decimal.Decimal {
	return decimal.NewFromInt(a.PriceCents).Shift(-2)
}

// ActivityFilter narrows ListActivities. Zero values mean "any".
type ActivityFilter struct {
	Category aid.Category
	Period   aid.Period
	Query    string // case-insensitive substring on the name
}

// SaveActivity inserts or replaces an activity. A missing ID is
// generated.
func (s *Store) SaveActivity(ctx context.Context, a Activity) (Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO activities
			(id, name, category, period, price_cents, department, commune, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Category), string(a.Period), a.PriceCents,
		a.Department, a.Commune, a.CreatedAt,
	)
	if err != nil {
		return Activity{}, fmt.Errorf("failed to save activity: %w", err)
	}
	return a, nil
}

// GetActivity returns the activity or nil when absent.
func (s *Store) GetActivity(ctx context.Context, id string) (*Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, period, price_cents, department, commune, created_at
		FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &a, nil
}

// ListActivities returns activities matching the filter, newest first.
func (s *Store) ListActivities(ctx context.Context, f ActivityFilter) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, category, period, price_cents, department, commune, created_at
		FROM activities WHERE 1=1`
	var args []any
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, string(f.Category))
	}
	if f.Period != "" {
		query += " AND period = ?"
		args = append(args, string(f.Period))
	}
	if f.Query != "" {
		query += " AND lower(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.Query)+"%")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteActivity removes an activity. Deleting an absent ID is a no-op.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(r rowScanner) (Activity, error) {
	var a Activity
	var category, period string
	err := r.Scan(&a.ID, &a.Name, &category, &period, &a.PriceCents,
		&a.Department, &a.Commune, &a.CreatedAt)
	if err != nil {
		return Activity{}, err
	}
	a.Category = aid.Category(category)
	a.Period = aid.Period(period)
	return a, nil
}

// =============================================================================
// FAMILIES
// =============================================================================

// Family is a stored family profile. Children holds the ages of the
// children, youngest first by convention.
type Family struct {
	ID         string
	Name       string
	Quotient   int
	Department string
	Commune    string
	Flags      []aid.Flag
	Children   []int
	CreatedAt  time.Time
}

// FlagMap converts the stored flag list to the map shape the engine
// context expects.
func (f Family) FlagMap() map[aid.Flag]bool {
	if len(f.Flags) == 0 {
		return nil
	}
	m := make(map[aid.Flag]bool, len(f.Flags))
	for _, fl := range f.Flags {
		m[fl] = true
	}
	return m
}

// SaveFamily inserts or replaces a family profile. A missing ID is
// generated.
func (s *Store) SaveFamily(ctx context.Context, f Family) (Family, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	flagsJSON, err := json.Marshal(f.Flags)
	if err != nil {
		return Family{}, fmt.Errorf("failed to encode flags: %w", err)
	}
	childrenJSON, err := json.Marshal(f.Children)
	if err != nil {
		return Family{}, fmt.Errorf("failed to encode children: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO families
			(id, name, quotient, department, commune, flags_json, children_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Quotient, f.Department, f.Commune,
		string(flagsJSON), string(childrenJSON), f.CreatedAt,
	)
	if err != nil {
		return Family{}, fmt.Errorf("failed to save family: %w", err)
	}
	return f, nil
}

// GetFamily returns the family profile or nil when absent.
func (s *Store) GetFamily(ctx context.Context, id string) (*Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, quotient, department, commune, flags_json, children_json, created_at
		FROM families WHERE id = ?`, id)

	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return &f, nil
}

// ListFamilies returns all family profiles, newest first.
func (s *Store) ListFamilies(ctx context.Context) ([]Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quotient, department, commune, flags_json, children_json, created_at
		FROM families ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var out []Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFamily(r rowScanner) (Family, error) {
	var f Family
	var flagsJSON, childrenJSON string
	err := r.Scan(&f.ID, &f.Name, &f.Quotient, &f.Department, &f.Commune,
		&flagsJSON, &childrenJSON, &f.CreatedAt)
	if err != nil {
		return Family{}, err
	}
	if err := json.Unmarshal([]byte(flagsJSON), &f.Flags); err != nil {
		return Family{}, fmt.Errorf("corrupt flags for family %s: %w", f.ID, err)
	}
	if err := json.Unmarshal([]byte(childrenJSON), &f.Children); err != nil {
		return Family{}, fmt.Errorf("corrupt children for family %s: %w", f.ID, err)
	}
	return f, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all tables. Used by demo scenario loaders; never call
// it outside development environments.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"activities", "families"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
