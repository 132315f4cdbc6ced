package scancache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached detection result.
type Entry struct {
	Path       string
	Size       int64
	MTimeNanos int64
	Encoding   string
	Confidence float64
	BOMPresent bool
	Newlines   string
	DetectedAt time.Time
}

// Store manages detection cache persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Session pragmas only apply to the connection that executes them, and
	// concurrent scan workers would otherwise race a second pragma-less
	// connection into SQLITE_BUSY. One connection serializes all writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the cached entry for path when its recorded size and
// modification time still match. A stale or absent entry returns ok=false.
func (s *Store) Lookup(ctx context.Context, path string, size, mtimeNanos int64) (Entry, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT path, size, mtime_ns, encoding, confidence, bom_present, newlines, detected_at
         FROM detections WHERE path = ?`,
		path,
	)

	var entry Entry
	var bomPresent int
	var detectedAt string
	err := row.Scan(
		&entry.Path,
		&entry.Size,
		&entry.MTimeNanos,
		&entry.Encoding,
		&entry.Confidence,
		&bomPresent,
		&entry.Newlines,
		&detectedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("scan cache entry: %w", err)
	}

	if entry.Size != size || entry.MTimeNanos != mtimeNanos {
		return Entry{}, false, nil
	}

	entry.BOMPresent = bomPresent != 0
	if ts, parseErr := time.Parse(time.RFC3339Nano, detectedAt); parseErr == nil {
		entry.DetectedAt = ts
	}
	return entry, true, nil
}

// Record inserts or replaces the cached entry for entry.Path.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	detectedAt := entry.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now().UTC()
	}

	bomPresent := 0
	if entry.BOMPresent {
		bomPresent = 1
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO detections (
            path, size, mtime_ns, encoding, confidence, bom_present, newlines, detected_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            size = excluded.size,
            mtime_ns = excluded.mtime_ns,
            encoding = excluded.encoding,
            confidence = excluded.confidence,
            bom_present = excluded.bom_present,
            newlines = excluded.newlines,
            detected_at = excluded.detected_at`,
		entry.Path,
		entry.Size,
		entry.MTimeNanos,
		entry.Encoding,
		entry.Confidence,
		bomPresent,
		entry.Newlines,
		detectedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record cache entry: %w", err)
	}
	return nil
}

// Forget removes the cached entry for path if present.
func (s *Store) Forget(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM detections WHERE path = ?", path); err != nil {
		return fmt.Errorf("forget cache entry: %w", err)
	}
	return nil
}

// Purge deletes every cached entry and returns the number removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM detections")
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

// Count reports how many entries the cache holds.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM detections")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}
