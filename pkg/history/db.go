// Package history persists the trail of visited URIs so earlier stops can
// be re-opened in later sessions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Visit is one recorded navigation, successful or not.
type Visit struct {
	ID        int64
	URI       string
	Status    string // "ok" or a short failure class
	FetchedAt time.Time
}

// DB handles visit persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the history database at the given path
func OpenDB(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	hdb := &DB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uri TEXT NOT NULL,
		status TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_visits_fetched_at ON visits(fetched_at);
	CREATE INDEX IF NOT EXISTS idx_visits_uri ON visits(uri);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordVisit inserts a new visit record
func (d *DB) RecordVisit(uri, status string) (*Visit, error) {
	now := time.Now()
	result, err := d.db.Exec(`
		INSERT INTO visits (uri, status, fetched_at)
		VALUES (?, ?, ?)
	`, uri, status, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Visit{ID: id, URI: uri, Status: status, FetchedAt: now}, nil
}

// Recent returns the latest visits, newest first, one row per URI.
func (d *DB) Recent(limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = 50
	}
	// Dedupe on the row id rather than fetched_at: ids are monotonic, so
	// visits within the same timestamp still order correctly.
	rows, err := d.db.Query(`
		SELECT id, uri, status, fetched_at
		FROM visits
		WHERE id IN (SELECT MAX(id) FROM visits GROUP BY uri)
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.URI, &v.Status, &v.FetchedAt); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Clear removes every recorded visit
func (d *DB) Clear() error {
	_, err := d.db.Exec(`DELETE FROM visits`)
	return err
}
