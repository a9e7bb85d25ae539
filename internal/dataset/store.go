// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset persists scraped paper records in SQLite so later query
// commands never re-scrape. Saves are idempotent: the natural key
// (venue, year, title) dedupes across runs.
package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/confscout/pkg/types"
)

// Store manages the paper dataset SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the dataset database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating dataset directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			venue TEXT NOT NULL,
			year INTEGER NOT NULL,
			title TEXT NOT NULL,
			PRIMARY KEY (venue, year, title)
		)`,
		`CREATE TABLE IF NOT EXISTS paper_authors (
			venue TEXT NOT NULL,
			year INTEGER NOT NULL,
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			affiliation TEXT,
			PRIMARY KEY (venue, year, title, position),
			FOREIGN KEY (venue, year, title) REFERENCES papers(venue, year, title)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_authors_name ON paper_authors(name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSummary holds counts from one save run.
type SaveSummary struct {
	Added   int
	Skipped int
}

// SaveRecords writes records in one transaction. Papers already present are
// skipped, which makes re-scrapes safe.
func (s *Store) SaveRecords(ctx context.Context, records []types.PaperRecord) (SaveSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO papers (venue, year, title) VALUES (?, ?, ?)`)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("preparing paper insert: %w", err)
	}
	defer paperStmt.Close()

	authorStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO paper_authors (venue, year, title, position, name, affiliation)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("preparing author insert: %w", err)
	}
	defer authorStmt.Close()

	var summary SaveSummary
	for _, rec := range records {
		res, err := paperStmt.ExecContext(ctx, string(rec.Venue), rec.Year, rec.Title)
		if err != nil {
			return summary, fmt.Errorf("inserting paper %q: %w", rec.Title, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return summary, fmt.Errorf("checking paper insert: %w", err)
		}
		if affected == 0 {
			summary.Skipped++
			continue
		}
		summary.Added++

		for _, ref := range rec.Authors {
			if _, err := authorStmt.ExecContext(ctx,
				string(rec.Venue), rec.Year, rec.Title,
				ref.Position, ref.RawName, ref.RawAffiliation); err != nil {
				return summary, fmt.Errorf("inserting author %q on %q: %w", ref.RawName, rec.Title, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing records: %w", err)
	}
	return summary, nil
}

// LoadRecords reads every stored paper with its authors, in a stable
// (venue, year, title, position) order.
func (s *Store) LoadRecords(ctx context.Context) ([]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.venue, p.year, p.title, a.position, a.name, COALESCE(a.affiliation, '')
		 FROM papers p
		 LEFT JOIN paper_authors a
		   ON a.venue = p.venue AND a.year = p.year AND a.title = p.title
		 ORDER BY p.venue, p.year, p.title, a.position`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.PaperRecord
	var current *types.PaperRecord

	for rows.Next() {
		var (
			venue, title      string
			year              int
			position          sql.NullInt64
			name, affiliation sql.NullString
		)
		if err := rows.Scan(&venue, &year, &title, &position, &name, &affiliation); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}

		if current == nil || string(current.Venue) != venue || current.Year != year || current.Title != title {
			records = append(records, types.PaperRecord{
				Venue: types.Venue(venue),
				Year:  year,
				Title: title,
			})
			current = &records[len(records)-1]
		}
		if name.Valid {
			current.Authors = append(current.Authors, types.AuthorRef{
				RawName:        name.String,
				RawAffiliation: affiliation.String,
				Position:       int(position.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}
	return records, nil
}

// Count returns the number of stored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}
