package audit

import (
	"context"
	"time"
)

// Outcome is the terminal state of one gateway request.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Record is one immutable audit entry, written once per request and never
// updated or deleted by the gateway. The normalized reading fields are set
// only on success; ErrorKind only on failure.
type Record struct {
	ID        string    `json:"id"`
	City      string    `json:"city"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestampUtc"`
	Outcome   Outcome   `json:"outcome"`
	ErrorKind string    `json:"errorKind,omitempty"`

	TemperatureC float64 `json:"temperatureC,omitempty"`
	WindKmh      float64 `json:"windKmh,omitempty"`
	Condition    string  `json:"condition,omitempty"`
}

// Summary holds per-outcome counts for diagnostics.
type Summary struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failure int64 `json:"failure"`
}

// Log is the append-only store contract. Append must be atomic per record so
// concurrent requests never interleave; the read methods exist for
// diagnostics only and play no part in request correctness.
type Log interface {
	Append(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Summarize(ctx context.Context) (Summary, error)
	Close() error
}
