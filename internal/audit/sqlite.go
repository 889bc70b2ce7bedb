package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_records (
	id            TEXT PRIMARY KEY,
	city          TEXT NOT NULL,
	source        TEXT NOT NULL,
	timestamp_utc TEXT NOT NULL,
	outcome       TEXT NOT NULL,
	error_kind    TEXT NOT NULL DEFAULT '',
	temperature_c REAL NOT NULL DEFAULT 0,
	wind_kmh      REAL NOT NULL DEFAULT 0,
	condition     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp_utc);
`

// SQLiteLog is a SQLite-backed Log. Each append is a single INSERT, which
// SQLite applies atomically, satisfying the concurrent-append guarantee the
// gateway requires from its audit collaborator.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the audit database at path.
func NewSQLite(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// Serialize writers; modernc.org/sqlite rejects concurrent write txns
	// on a single file otherwise.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

// Append writes one record. Records are never updated afterwards.
func (l *SQLiteLog) Append(ctx context.Context, rec Record) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_records
		 (id, city, source, timestamp_utc, outcome, error_kind, temperature_c, wind_kmh, condition)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.City, rec.Source, rec.Timestamp.UTC().Format(time.RFC3339Nano),
		string(rec.Outcome), rec.ErrorKind, rec.TemperatureC, rec.WindKmh, rec.Condition,
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (l *SQLiteLog) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, city, source, timestamp_utc, outcome, error_kind, temperature_c, wind_kmh, condition
		 FROM audit_records ORDER BY timestamp_utc DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var ts, outcome string
		if err := rows.Scan(&rec.ID, &rec.City, &rec.Source, &ts, &outcome,
			&rec.ErrorKind, &rec.TemperatureC, &rec.WindKmh, &rec.Condition); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse audit timestamp: %w", err)
		}
		rec.Timestamp = parsed
		rec.Outcome = Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summarize returns per-outcome counts across the whole log.
func (l *SQLiteLog) Summarize(ctx context.Context) (Summary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM audit_records GROUP BY outcome`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize audit records: %w", err)
	}
	defer rows.Close()

	var s Summary
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return Summary{}, fmt.Errorf("scan audit summary: %w", err)
		}
		s.Total += count
		switch Outcome(outcome) {
		case OutcomeSuccess:
			s.Success = count
		case OutcomeFailure:
			s.Failure = count
		}
	}
	return s, rows.Err()
}

// Close closes the underlying database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
