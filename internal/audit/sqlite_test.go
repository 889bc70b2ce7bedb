package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestLog(t *testing.T) *SQLiteLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit_test.db")
	l, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSQLiteAppendAndRecent(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)

	success := Record{
		ID:           "rec-1",
		City:         "Madrid",
		Source:       "mock",
		Timestamp:    base,
		Outcome:      OutcomeSuccess,
		TemperatureC: 21.5,
		WindKmh:      12.3,
		Condition:    "Clear",
	}
	failure := Record{
		ID:        "rec-2",
		City:      "Madrid",
		Source:    "openweather",
		Timestamp: base.Add(time.Second),
		Outcome:   OutcomeFailure,
		ErrorKind: "provider_missing_credential",
	}

	if err := l.Append(ctx, success); err != nil {
		t.Fatalf("Append success failed: %v", err)
	}
	if err := l.Append(ctx, failure); err != nil {
		t.Fatalf("Append failure failed: %v", err)
	}

	records, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Newest first.
	if records[0].ID != "rec-2" || records[1].ID != "rec-1" {
		t.Fatalf("unexpected order: %q, %q", records[0].ID, records[1].ID)
	}

	got := records[1]
	if got.City != "Madrid" || got.Source != "mock" || got.Outcome != OutcomeSuccess {
		t.Fatalf("success record round-trip mismatch: %+v", got)
	}
	if got.TemperatureC != 21.5 || got.WindKmh != 12.3 || got.Condition != "Clear" {
		t.Fatalf("reading fields not preserved: %+v", got)
	}
	if !got.Timestamp.Equal(base) {
		t.Fatalf("timestamp not preserved: want %v, got %v", base, got.Timestamp)
	}

	if records[0].ErrorKind != "provider_missing_credential" {
		t.Fatalf("error kind not preserved: %+v", records[0])
	}
}

func TestSQLiteRecentLimit(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := Record{
			ID:        "rec-" + string(rune('a'+i)),
			City:      "Oslo",
			Source:    "mock",
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
			Outcome:   OutcomeSuccess,
		}
		if err := l.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	records, err := l.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestSQLiteSummarize(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	outcomes := []Outcome{OutcomeSuccess, OutcomeSuccess, OutcomeSuccess, OutcomeFailure}
	for i, outcome := range outcomes {
		rec := Record{
			ID:        "rec-" + string(rune('0'+i)),
			City:      "Madrid",
			Source:    "mock",
			Timestamp: time.Now().UTC(),
			Outcome:   outcome,
		}
		if err := l.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	summary, err := l.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Total != 4 || summary.Success != 3 || summary.Failure != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSQLiteConcurrentAppends(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			done <- l.Append(ctx, Record{
				ID:        "concurrent-" + string(rune('a'+i)),
				City:      "Madrid",
				Source:    "mock",
				Timestamp: time.Now().UTC(),
				Outcome:   OutcomeSuccess,
			})
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Append failed: %v", err)
		}
	}

	summary, err := l.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Total != 20 {
		t.Fatalf("expected 20 records, got %d", summary.Total)
	}
}
