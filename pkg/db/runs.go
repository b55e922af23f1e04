package db

import (
	"database/sql"
	"fmt"
	"time"
)

// File statuses stored in run_files.
const (
	StatusCounted = "counted"
	StatusSkipped = "skipped"
)

// Run is one recorded count run.
type Run struct {
	RunID          int64
	CreatedAt      time.Time
	FileCount      int
	SkippedCount   int
	DistinctTokens int
	TotalTokens    uint64
	Strategy       string
	Workers        int
	ExcludesPath   string
}

// RunFile is one input file of a run.
type RunFile struct {
	Path          string
	Status        string
	Language      string
	TokensSeen    uint64
	TokensCounted uint64
	ErrorMessage  string
}

// Frequency is one ranked token of a run. Rank starts at 1.
type Frequency struct {
	Rank  int
	Token string
	Count uint64
}

// RecordRun stores a run with its files and ranked frequencies in a single
// transaction and returns the new run ID. freqs must already be ranked.
func (db *DB) RecordRun(run Run, files []RunFile, freqs []Frequency) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(`
		INSERT INTO runs (file_count, skipped_count, distinct_tokens, total_tokens, strategy, workers, excludes_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.FileCount, run.SkippedCount, run.DistinctTokens, int64(run.TotalTokens), run.Strategy, run.Workers, NewNullString(run.ExcludesPath))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	fileStmt, err := tx.Prepare(`
		INSERT INTO run_files (run_id, position, path, status, language, tokens_seen, tokens_counted, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer fileStmt.Close()
	for i, f := range files {
		if _, err := fileStmt.Exec(runID, i, f.Path, f.Status, NewNullString(f.Language),
			int64(f.TokensSeen), int64(f.TokensCounted), NewNullString(f.ErrorMessage)); err != nil {
			return 0, fmt.Errorf("failed to insert run file %s: %w", f.Path, err)
		}
	}

	freqStmt, err := tx.Prepare(`INSERT INTO run_frequencies (run_id, rank, token, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare frequency insert: %w", err)
	}
	defer freqStmt.Close()
	for _, f := range freqs {
		if _, err := freqStmt.Exec(runID, f.Rank, f.Token, int64(f.Count)); err != nil {
			return 0, fmt.Errorf("failed to insert frequency %q: %w", f.Token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `run_id, created_at, file_count, skipped_count, distinct_tokens, total_tokens, strategy, workers, excludes_path`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	var total int64
	var excludes sql.NullString
	if err := row.Scan(&r.RunID, &r.CreatedAt, &r.FileCount, &r.SkippedCount, &r.DistinctTokens,
		&total, &r.Strategy, &r.Workers, &excludes); err != nil {
		return nil, err
	}
	r.TotalTokens = uint64(total)
	r.ExcludesPath = excludes.String
	return &r, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY run_id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// LatestRunID returns the newest run ID, or 0 when no run is recorded.
func (db *DB) LatestRunID() (int64, error) {
	var id sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(run_id) FROM runs`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id.Int64, nil
}

// GetRunFiles returns the files of a run in input order.
func (db *DB) GetRunFiles(runID int64) ([]RunFile, error) {
	rows, err := db.Query(`
		SELECT path, status, language, tokens_seen, tokens_counted, error_message
		FROM run_files WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		var lang, msg sql.NullString
		var seen, counted int64
		if err := rows.Scan(&f.Path, &f.Status, &lang, &seen, &counted, &msg); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		f.Language, f.ErrorMessage = lang.String, msg.String
		f.TokensSeen, f.TokensCounted = uint64(seen), uint64(counted)
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetRunFrequencies returns a run's frequencies in rank order.
// limit <= 0 means all.
func (db *DB) GetRunFrequencies(runID int64, limit int) ([]Frequency, error) {
	query := `SELECT rank, token, count FROM run_frequencies WHERE run_id = ? ORDER BY rank`
	args := []any{runID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get run frequencies: %w", err)
	}
	defer rows.Close()

	var freqs []Frequency
	for rows.Next() {
		var f Frequency
		var count int64
		if err := rows.Scan(&f.Rank, &f.Token, &count); err != nil {
			return nil, fmt.Errorf("failed to scan frequency: %w", err)
		}
		f.Count = uint64(count)
		freqs = append(freqs, f)
	}
	return freqs, rows.Err()
}

// NewNullString maps "" to NULL.
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
