package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pastewatch/pastewatch/internal/model"
)

// DBFileName is the name of the SQLite database file inside the data directory.
const DBFileName = "pastewatch.db"

// PasteDB provides SQLite-based storage for pastes and match records.
// It satisfies the action.Store and action.MatchRecorder contracts.
//
// A single database file holds both tables so match records can be
// joined against their pastes without cross-file queries.
type PasteDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures PasteDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: the action
	// stage writes while the report command may read concurrently.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a PasteDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned; the report command uses this mode so it never creates an
// empty database just to report on it.
func Open(dbDir string, opts Options) (*PasteDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run the watcher first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
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

	// SQLite supports only one writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PasteDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Close closes the database connection.
func (pdb *PasteDB) Close() error {
	return pdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (pdb *PasteDB) createTables() error {
	schema := `
	-- Pastes store every snippet persisted by the store/record actions
	CREATE TABLE IF NOT EXISTS pastes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL,
		source TEXT NOT NULL,
		title TEXT,
		body TEXT NOT NULL,
		body_hash TEXT NOT NULL,
		scraped_at DATETIME NOT NULL,
		stored_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(key, source)
	);

	CREATE INDEX IF NOT EXISTS idx_pastes_key ON pastes(key);
	CREATE INDEX IF NOT EXISTS idx_pastes_source ON pastes(source);
	CREATE INDEX IF NOT EXISTS idx_pastes_hash ON pastes(body_hash);

	-- Match records link a matcher hit to its paste
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		paste_key TEXT NOT NULL,
		source TEXT NOT NULL,
		matcher TEXT NOT NULL,
		matched TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_matches_key ON matches(paste_key);
	CREATE INDEX IF NOT EXISTS idx_matches_matcher ON matches(matcher);
	CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// StorePaste inserts or updates a paste. Re-scraping the same key from
// the same source is an update, not an error.
func (pdb *PasteDB) StorePaste(ctx context.Context, paste *model.Paste) error {
	query := `
	INSERT INTO pastes (key, source, title, body, body_hash, scraped_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(key, source) DO UPDATE SET
		title = excluded.title,
		body = excluded.body,
		body_hash = excluded.body_hash,
		scraped_at = excluded.scraped_at,
		stored_at = CURRENT_TIMESTAMP
	`

	_, err := pdb.db.ExecContext(ctx, query,
		paste.Key,
		paste.Source,
		paste.Title,
		paste.Body,
		paste.BodyHash(),
		paste.ScrapedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to store paste %s: %w", paste.Key, err)
	}

	return nil
}

// GetPaste retrieves a stored paste by key and source.
// Returns nil without error when the paste is not stored.
func (pdb *PasteDB) GetPaste(ctx context.Context, key, source string) (*model.Paste, error) {
	query := `
	SELECT key, source, title, body, scraped_at
	FROM pastes
	WHERE key = ? AND source = ?
	`

	var paste model.Paste
	var scrapedAt string

	err := pdb.db.QueryRowContext(ctx, query, key, source).Scan(
		&paste.Key,
		&paste.Source,
		&paste.Title,
		&paste.Body,
		&scrapedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get paste: %w", err)
	}

	paste.ScrapedAt = parseTimestamp(scrapedAt)
	return &paste, nil
}

// StoreMatch records that matcherName matched the given paste. The
// matched terms are serialized as JSON.
func (pdb *PasteDB) StoreMatch(ctx context.Context, paste *model.Paste, matcherName string, matches []string) error {
	matchedJSON, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to serialize matches: %w", err)
	}

	query := `
	INSERT INTO matches (paste_key, source, matcher, matched)
	VALUES (?, ?, ?, ?)
	`

	_, err = pdb.db.ExecContext(ctx, query,
		paste.Key,
		paste.Source,
		matcherName,
		string(matchedJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to store match: %w", err)
	}

	return nil
}

// CountPastesBySource returns the number of stored pastes per source.
func (pdb *PasteDB) CountPastesBySource(ctx context.Context) (map[string]int, error) {
	query := `
	SELECT source, COUNT(*) FROM pastes
	GROUP BY source
	`

	rows, err := pdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count pastes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan paste count: %w", err)
		}
		counts[source] = count
	}

	return counts, rows.Err()
}

// CountMatchesByMatcher returns the number of match records per matcher.
func (pdb *PasteDB) CountMatchesByMatcher(ctx context.Context) (map[string]int, error) {
	query := `
	SELECT matcher, COUNT(*) FROM matches
	GROUP BY matcher
	`

	rows, err := pdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var matcher string
		var count int
		if err := rows.Scan(&matcher, &count); err != nil {
			return nil, fmt.Errorf("failed to scan match count: %w", err)
		}
		counts[matcher] = count
	}

	return counts, rows.Err()
}

// MatchRecord represents one stored match for reporting.
type MatchRecord struct {
	// ID is the unique identifier of the match record.
	ID int64 `json:"id"`

	// PasteKey identifies the matched paste.
	PasteKey string `json:"paste_key"`

	// Source identifies the scrape source of the paste.
	Source string `json:"source"`

	// Matcher is the name of the matcher that hit.
	Matcher string `json:"matcher"`

	// Matched is the list of matched terms.
	Matched []string `json:"matched"`

	// CreatedAt is when the match was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// RecentMatches returns the most recent match records, newest first.
func (pdb *PasteDB) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	query := `
	SELECT id, paste_key, source, matcher, matched, created_at
	FROM matches
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`

	rows, err := pdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var matchedJSON string
		var createdAt string

		if err := rows.Scan(&rec.ID, &rec.PasteKey, &rec.Source, &rec.Matcher, &matchedJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}

		if matchedJSON != "" {
			if err := json.Unmarshal([]byte(matchedJSON), &rec.Matched); err != nil {
				continue // Skip malformed records
			}
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. Returns zero time if no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
