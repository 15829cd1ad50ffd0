// Package store keeps a SQLite catalog of pipeline runs so past
// alignments can be inspected without re-reading output directories.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; stale databases are
// rejected rather than migrated in place.
const schemaVersion = 1

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID            int64
	RunID         string
	VideoPath     string
	OutputDir     string
	Status        string
	SegmentCount  int
	FrameCount    int
	VideoFPS      float64
	ExtractionFPS float64
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the catalog database at path, creating it and its
// parent directory as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
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

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("database %s has schema version %d, expected %d (delete it to start fresh)",
			s.path, version, schemaVersion)
	}

	return nil
}

// StartRun records the beginning of a pipeline run and returns its id.
func (s *Store) StartRun(ctx context.Context, videoPath, outputDir string) (string, error) {
	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, video_path, output_dir, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, videoPath, outputDir, StatusRunning, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return runID, nil
}

// CompleteRun marks a run as completed and records its result counters.
func (s *Store) CompleteRun(ctx context.Context, runID string, segmentCount, frameCount int, videoFPS, extractionFPS float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET status = ?, segment_count = ?, frame_count = ?, video_fps = ?, extraction_fps = ?, updated_at = ?
         WHERE run_id = ?`,
		StatusCompleted, segmentCount, frameCount, videoFPS, extractionFPS, now, runID,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}

	return requireOneRow(res, runID)
}

// FailRun marks a run as failed with the given reason.
func (s *Store) FailRun(ctx context.Context, runID string, cause error) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	message := ""
	if cause != nil {
		message = cause.Error()
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE run_id = ?`,
		StatusFailed, message, now, runID,
	)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}

	return requireOneRow(res, runID)
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, video_path, output_dir, status, segment_count, frame_count,
                video_fps, extraction_fps, COALESCE(error_message, ''), created_at, updated_at
         FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt, updatedAt string
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.VideoPath, &run.OutputDir, &run.Status,
			&run.SegmentCount, &run.FrameCount, &run.VideoFPS, &run.ExtractionFPS,
			&run.ErrorMessage, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = parseTimestamp(createdAt)
		run.UpdatedAt = parseTimestamp(updatedAt)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func requireOneRow(res sql.Result, runID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
