package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/matsen/pubpage/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRefFields lists the columns read back from the refs table.
const selectRefFields = `id, doi, title, abstract, venue,
	pub_year, pub_month, pub_day,
	pdf_path, authors_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the refs table if it doesn't exist. Caches written
// by other tools may carry more columns; only these are read.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			doi TEXT,
			title TEXT NOT NULL,
			abstract TEXT,
			venue TEXT,
			pub_year INTEGER NOT NULL,
			pub_month INTEGER,
			pub_day INTEGER,
			pdf_path TEXT,
			authors_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_refs_doi ON refs(doi) WHERE doi IS NOT NULL AND doi != '';
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file,
// preserving the file's order.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	refs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM refs"); err != nil {
		return 0, fmt.Errorf("clearing refs table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO refs (
			id, doi, title, abstract, venue,
			pub_year, pub_month, pub_day,
			pdf_path, authors_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing refs insert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range refs {
		authorsJSON, err := json.Marshal(ref.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", ref.ID, err)
		}

		_, err = stmt.Exec(
			ref.ID, nullableStringValue(ref.DOI), ref.Title,
			nullableStringValue(ref.Abstract), nullableStringValue(ref.Venue),
			ref.Published.Year, nullableInt(ref.Published.Month), nullableInt(ref.Published.Day),
			nullableStringValue(ref.PDFPath), string(authorsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting ref %s: %w", ref.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing refs: %w", err)
	}
	return len(refs), nil
}

// GetByID retrieves a reference by its ID, or nil if there is none.
func (d *DB) GetByID(id string) (*reference.Reference, error) {
	row := d.db.QueryRow(`SELECT `+selectRefFields+` FROM refs WHERE id = ?`, id)
	return scanReference(row)
}

// ListAll returns all references in insertion order, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.Reference, error) {
	query := `SELECT ` + selectRefFields + ` FROM refs ORDER BY rowid`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	defer rows.Close()

	return scanReferences(rows)
}

// Count returns the total number of references.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM refs").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReference(s scanner) (*reference.Reference, error) {
	var ref reference.Reference
	var doi, abstract, venue, pdfPath, authorsJSON sql.NullString
	var pubMonth, pubDay sql.NullInt64

	err := s.Scan(
		&ref.ID, &doi, &ref.Title, &abstract, &venue,
		&ref.Published.Year, &pubMonth, &pubDay,
		&pdfPath, &authorsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	ref.DOI = doi.String
	ref.Abstract = abstract.String
	ref.Venue = venue.String
	ref.PDFPath = pdfPath.String

	if pubMonth.Valid {
		ref.Published.Month = int(pubMonth.Int64)
	}
	if pubDay.Valid {
		ref.Published.Day = int(pubDay.Int64)
	}

	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &ref.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors for %s: %w", ref.ID, err)
		}
	}

	return &ref, nil
}

func scanReferences(rows *sql.Rows) ([]reference.Reference, error) {
	var refs []reference.Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, rows.Err()
}

func nullableStringValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
