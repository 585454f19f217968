package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matsen/regulon/internal/deliver"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Run is one recorded aggregation.
type Run struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	RunDir      string    `json:"run_dir"`
	Tone        string    `json:"tone"`
	ModuleCount int       `json:"module_count"`
}

// RunModule is a module row stored with a run.
type RunModule struct {
	Module      string `json:"module"`
	Size        int    `json:"size"`
	Label       string `json:"label"`
	LabelSource string `json:"label_source"`
	Hubs        string `json:"hubs"`
	Terms       string `json:"terms"`
}

// OpenDB opens or creates a SQLite database at the given path, creating
// the parent directory if needed.
func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

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

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			run_dir TEXT NOT NULL,
			tone TEXT NOT NULL,
			module_count INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);

		CREATE TABLE IF NOT EXISTS run_modules (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			module TEXT NOT NULL,
			size INTEGER NOT NULL,
			label TEXT NOT NULL,
			label_source TEXT,
			hubs TEXT,
			terms TEXT,
			PRIMARY KEY (run_id, position)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// timeLayout is fixed width so generated_at orders correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordRun stores an aggregation and its module rows in one transaction
// and returns the new run ID.
func (d *DB) RecordRun(idx *deliver.Index) (string, error) {
	id := uuid.NewString()
	runDir, err := filepath.Abs(idx.RunDir)
	if err != nil {
		return "", fmt.Errorf("resolving run directory: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	_, err = tx.Exec(
		`INSERT INTO runs (id, generated_at, run_dir, tone, module_count) VALUES (?, ?, ?, ?, ?)`,
		id, idx.GeneratedAt.UTC().Format(timeLayout), runDir, string(idx.Tone), len(idx.Records),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_modules (run_id, position, module, size, label, label_source, hubs, terms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing module insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range idx.Records {
		_, err := stmt.Exec(
			id, i, r.Module, r.Size, r.Label,
			nullableStringFromGo(r.LabelSource),
			nullableStringFromGo(r.HubsText()),
			nullableStringFromGo(r.TermsText()),
		)
		if err != nil {
			return "", fmt.Errorf("inserting module %s: %w", r.Module, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs first. A limit of 0 or less
// returns every run.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, generated_at, run_dir, tone, module_count FROM runs ORDER BY generated_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var generated string
		if err := rows.Scan(&r.ID, &generated, &r.RunDir, &r.Tone, &r.ModuleCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(timeLayout, generated)
		if err != nil {
			return nil, fmt.Errorf("parsing time of run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunModules returns the module rows of a run in their original order.
// An ID prefix is accepted when it is unambiguous.
func (d *DB) RunModules(id string) (string, []RunModule, error) {
	fullID, err := d.resolveRunID(id)
	if err != nil {
		return "", nil, err
	}

	rows, err := d.db.Query(`
		SELECT module, size, label, label_source, hubs, terms
		FROM run_modules WHERE run_id = ? ORDER BY position
	`, fullID)
	if err != nil {
		return "", nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var modules []RunModule
	for rows.Next() {
		var m RunModule
		var source, hubs, terms sql.NullString
		if err := rows.Scan(&m.Module, &m.Size, &m.Label, &source, &hubs, &terms); err != nil {
			return "", nil, fmt.Errorf("scanning module: %w", err)
		}
		m.LabelSource, m.Hubs, m.Terms = source.String, hubs.String, terms.String
		modules = append(modules, m)
	}
	return fullID, modules, rows.Err()
}

// ErrRunNotFound is returned when no run matches an ID or prefix.
var ErrRunNotFound = errors.New("run not found")

func (d *DB) resolveRunID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrRunNotFound
	}
	rows, err := d.db.Query(`SELECT id FROM runs WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolving run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id %q is ambiguous", prefix)
	}
}

func nullableStringFromGo(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
