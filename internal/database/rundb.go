package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/bfscrawl/internal/model"
)

// dbFileName is the SQLite database file name inside the database directory.
const dbFileName = "bfscrawl.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunDB stores crawl runs in SQLite.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (r *RunDB) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *RunDB) Path() string {
	return r.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (r *RunDB) createTables() error {
	schema := `
	-- One row per completed crawl
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint TEXT NOT NULL,
		seeds_json TEXT NOT NULL,
		same_domain INTEGER NOT NULL DEFAULT 0,
		stats_json TEXT NOT NULL,
		link_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

	-- Visited set of each run
	CREATE TABLE IF NOT EXISTS visited_urls (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		PRIMARY KEY (run_id, url)
	);
	`

	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a stored crawl run.
type Run struct {
	// ID is the unique identifier of the run.
	ID int64

	// Fingerprint identifies the seed set and same-domain flag.
	Fingerprint string

	// Seeds are the seed URLs in the order they were given.
	Seeds []string

	// SameDomain is the same-domain flag of the run.
	SameDomain bool

	// Stats are the session stats at day precision.
	Stats model.SessionStats

	// LinkCount is the size of the visited set.
	LinkCount int

	// CreatedAt is when the run was recorded.
	CreatedAt time.Time
}

// Fingerprint returns the SHA3-256 hex digest identifying a crawl target:
// the sorted, deduplicated seed set and the same-domain flag. Seed order
// does not change the fingerprint.
func Fingerprint(seeds []string, sameDomain bool) string {
	sorted := model.NewURLSet(seeds...).Sorted()

	var sb strings.Builder
	for _, s := range sorted {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "same_domain=%t", sameDomain)

	sum := sha3.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// SaveRun records a finished crawl and returns the new run ID.
func (r *RunDB) SaveRun(ctx context.Context, seeds []string, sameDomain bool, visited model.URLSet, stats model.SessionStats) (int64, error) {
	seedsJSON, err := json.Marshal(seeds)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize seeds: %w", err)
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize stats: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (fingerprint, seeds_json, same_domain, stats_json, link_count)
	VALUES (?, ?, ?, ?, ?)
	`, Fingerprint(seeds, sameDomain), string(seedsJSON), sameDomain, string(statsJSON), visited.Len())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO visited_urls (run_id, url) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range visited.Sorted() {
		if _, err := stmt.ExecContext(ctx, runID, u); err != nil {
			return 0, fmt.Errorf("failed to insert link %s: %w", u, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// runColumns is the column list scanned by scanRun.
const runColumns = `id, fingerprint, seeds_json, same_domain, stats_json, link_count, created_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one run row.
func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		seedsJSON string
		statsJSON string
		createdAt string
	)

	if err := row.Scan(&run.ID, &run.Fingerprint, &seedsJSON, &run.SameDomain, &statsJSON, &run.LinkCount, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(seedsJSON), &run.Seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds of run %d: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &run.Stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats of run %d: %w", run.ID, err)
	}
	run.CreatedAt = parseTimestamp(createdAt)

	return &run, nil
}

// GetRun retrieves a run by ID. It returns ErrRunNotFound for unknown IDs.
func (r *RunDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first. An empty fingerprint lists every run;
// a limit of 0 or less returns all matching runs.
func (r *RunDB) ListRuns(ctx context.Context, fingerprint string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := make([]any, 0, 2)

	if fingerprint != "" {
		query += ` WHERE fingerprint = ?`
		args = append(args, fingerprint)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRunLinks returns the visited set of a run.
// It returns ErrRunNotFound for unknown IDs.
func (r *RunDB) GetRunLinks(ctx context.Context, id int64) (model.URLSet, error) {
	if _, err := r.GetRun(ctx, id); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT url FROM visited_urls WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run links: %w", err)
	}
	defer rows.Close()

	links := model.NewURLSet()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links.Add(u)
	}

	return links, rows.Err()
}

// RunDiff lists the links that differ between two runs.
type RunDiff struct {
	// OldRunID is the baseline run.
	OldRunID int64 `json:"old_run_id"`

	// NewRunID is the run compared against the baseline.
	NewRunID int64 `json:"new_run_id"`

	// Added are links visited in the new run but not the old one.
	Added []string `json:"added"`

	// Removed are links visited in the old run but not the new one.
	Removed []string `json:"removed"`

	// Unchanged is the number of links visited in both runs.
	Unchanged int `json:"unchanged"`
}

// HasChanges reports whether any link was added or removed.
func (d *RunDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// CompareRuns computes the link difference between two runs.
func (r *RunDB) CompareRuns(ctx context.Context, oldID, newID int64) (*RunDiff, error) {
	oldLinks, err := r.GetRunLinks(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newLinks, err := r.GetRunLinks(ctx, newID)
	if err != nil {
		return nil, err
	}

	added := newLinks.Difference(oldLinks).Sorted()
	removed := oldLinks.Difference(newLinks).Sorted()

	return &RunDiff{
		OldRunID:  oldID,
		NewRunID:  newID,
		Added:     added,
		Removed:   removed,
		Unchanged: newLinks.Len() - len(added),
	}, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a SQLite timestamp, returning the zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
