// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline runs in SQLite so that screening
// decisions stay auditable after the RIS files move on. Each stage
// invocation is a run; the run's surviving records and its per-record
// verdicts are stored under a generated run ID, and record text is
// indexed for full-text search.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/corpus-curator/internal/filter"
	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

const dbFile = "curation.db"

// Store manages the curation SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.Dir/curation.db,
// creating the schema when missing.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stage TEXT NOT NULL,
			started TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			kept INTEGER NOT NULL,
			removed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			doi TEXT,
			title TEXT,
			year TEXT,
			journal TEXT,
			abstract TEXT,
			source TEXT,
			keyphrase TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi)`,
		`CREATE TABLE IF NOT EXISTS stage_outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			doi TEXT,
			title TEXT,
			keep INTEGER NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON stage_outcomes(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(title, abstract, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO records_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveRun records one stage invocation: its surviving records and, if
// provided, the per-record verdicts. It returns the generated run ID.
func (s *Store) SaveRun(ctx context.Context, stage string, records []ris.Record, outcomes []filter.Outcome) (string, error) {
	runID := uuid.NewString()

	kept, removed := 0, 0
	for _, o := range outcomes {
		if o.Keep {
			kept++
		} else {
			removed++
		}
	}
	if len(outcomes) == 0 {
		kept = len(records)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, stage, started, record_count, kept, removed) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, time.Now().UTC().Format(time.RFC3339), kept+removed, kept, removed,
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, doi, title, year, journal, abstract, source, keyphrase) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	for _, rec := range records {
		if _, err := recStmt.ExecContext(ctx,
			runID, rec.DOI(), rec.Title(), rec.Year(), rec.Journal(),
			rec.First(ris.TagAbstract), rec.Provenance.Source, rec.Provenance.Keyphrase,
		); err != nil {
			return "", fmt.Errorf("inserting record: %w", err)
		}
	}

	if len(outcomes) > 0 {
		outStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO stage_outcomes (run_id, doi, title, keep, reason) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("preparing outcome insert: %w", err)
		}
		defer outStmt.Close()

		for _, o := range outcomes {
			keep := 0
			if o.Keep {
				keep = 1
			}
			if _, err := outStmt.ExecContext(ctx, runID, o.DOI, o.Title, keep, o.Reason); err != nil {
				return "", fmt.Errorf("inserting outcome: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunInfo summarizes one stored run.
type RunInfo struct {
	ID          string
	Stage       string
	Started     string
	RecordCount int
	Kept        int
	Removed     int
}

// History returns stored runs, most recent first.
func (s *Store) History(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stage, started, record_count, kept, removed FROM runs ORDER BY started DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Stage, &r.Started, &r.RecordCount, &r.Kept, &r.Removed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the stored verdicts for a run, in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]filter.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doi, title, keep, reason FROM stage_outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []filter.Outcome
	for rows.Next() {
		var o filter.Outcome
		var keep int
		if err := rows.Scan(&o.DOI, &o.Title, &keep, &o.Reason); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Keep = keep != 0
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// TrailEntry is one audit record for a DOI: the stage that judged it
// and the verdict it received.
type TrailEntry struct {
	RunID   string
	Stage   string
	Started string
	Keep    bool
	Reason  string
}

// Trail returns every stored verdict for a DOI across all runs, oldest
// first, so a record's path through the pipeline can be reconstructed.
func (s *Store) Trail(ctx context.Context, doi string) ([]TrailEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.run_id, r.stage, r.started, o.keep, o.reason
		 FROM stage_outcomes o
		 JOIN runs r ON r.id = o.run_id
		 WHERE o.doi = ?
		 ORDER BY r.started, o.rowid`, doi)
	if err != nil {
		return nil, fmt.Errorf("querying trail: %w", err)
	}
	defer rows.Close()

	var trail []TrailEntry
	for rows.Next() {
		var e TrailEntry
		var keep int
		if err := rows.Scan(&e.RunID, &e.Stage, &e.Started, &keep, &e.Reason); err != nil {
			return nil, fmt.Errorf("scanning trail entry: %w", err)
		}
		e.Keep = keep != 0
		trail = append(trail, e)
	}
	return trail, rows.Err()
}

// SearchHit is one full-text search match.
type SearchHit struct {
	RunID   string
	DOI     string
	Title   string
	Year    string
	Journal string
}

// Search runs an FTS5 match over stored titles and abstracts.
func (s *Store) Search(ctx context.Context, query string) ([]SearchHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.run_id, r.doi, r.title, r.year, r.journal
		 FROM records_fts f
		 JOIN records r ON r.rowid = f.rowid
		 WHERE records_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.RunID, &h.DOI, &h.Title, &h.Year, &h.Journal); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
