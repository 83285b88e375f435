package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/openfeel/decisionbridge/domain/decision"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAuditStoreRecordAndRecent(t *testing.T) {
	db := openTestDB(t)
	store, err := NewAuditStore(db, AuditConfig{BatchSize: 2, FlushInterval: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewAuditStore failed: %v", err)
	}

	base := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	store.Record(decision.AuditEntry{
		ID:       "dec-1",
		Service:  "loan",
		At:       base,
		Duration: 5 * time.Millisecond,
		Inputs:   `{"amount":1000}`,
		Outputs:  `{"approved":true}`,
		Success:  true,
	})
	store.Record(decision.AuditEntry{
		ID:      "dec-2",
		Service: "loan",
		At:      base.Add(time.Second),
		Success: false,
		Error:   "boom",
	})

	// Close drains the buffer and flushes everything.
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	// Newest first.
	if entries[0].ID != "dec-2" || entries[1].ID != "dec-1" {
		t.Errorf("order = [%s %s], want [dec-2 dec-1]", entries[0].ID, entries[1].ID)
	}

	e := entries[1]
	if e.Service != "loan" {
		t.Errorf("Service = %q, want %q", e.Service, "loan")
	}
	if !e.At.Equal(base) {
		t.Errorf("At = %v, want %v", e.At, base)
	}
	if e.Duration != 5*time.Millisecond {
		t.Errorf("Duration = %v, want 5ms", e.Duration)
	}
	if e.Inputs != `{"amount":1000}` {
		t.Errorf("Inputs = %q", e.Inputs)
	}
	if !e.Success {
		t.Error("Success = false, want true")
	}
	if entries[0].Error != "boom" {
		t.Errorf("Error = %q, want %q", entries[0].Error, "boom")
	}
}

func TestAuditStoreRecentLimit(t *testing.T) {
	db := openTestDB(t)
	store, err := NewAuditStore(db, DefaultAuditConfig())
	if err != nil {
		t.Fatalf("NewAuditStore failed: %v", err)
	}

	base := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.Record(decision.AuditEntry{
			ID:      "dec-" + string(rune('a'+i)),
			Service: "loan",
			At:      base.Add(time.Duration(i) * time.Second),
			Success: true,
		})
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := store.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].ID != "dec-e" {
		t.Errorf("entries[0].ID = %q, want dec-e", entries[0].ID)
	}
}

func TestAuditStoreRecordReplacesByID(t *testing.T) {
	db := openTestDB(t)
	store, err := NewAuditStore(db, DefaultAuditConfig())
	if err != nil {
		t.Fatalf("NewAuditStore failed: %v", err)
	}

	at := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	store.Record(decision.AuditEntry{ID: "dec-1", Service: "loan", At: at, Success: false})
	store.Record(decision.AuditEntry{ID: "dec-1", Service: "loan", At: at, Success: true})
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if !entries[0].Success {
		t.Error("Success = false, want the replaced value")
	}
}
