package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/ports"
)

// AuditStore records decisions in SQLite. Entries are buffered in
// memory and flushed in batches so recording never blocks the decision
// path.
type AuditStore struct {
	db     *sql.DB
	buffer chan decision.AuditEntry
	done   chan struct{}
	wg     sync.WaitGroup

	batchSize     int
	flushInterval time.Duration
}

// AuditConfig configures the audit store.
type AuditConfig struct {
	// BatchSize is the number of entries to batch before writing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the size of the in-memory entry buffer. Entries
	// arriving while the buffer is full are dropped.
	BufferSize int
}

// DefaultAuditConfig returns sensible defaults.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		BatchSize:     100,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// NewAuditStore creates a SQLite-backed audit store and starts its
// background flusher.
func NewAuditStore(db *sql.DB, cfg AuditConfig) (*AuditStore, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 10000
	}

	s := &AuditStore{
		db:            db,
		buffer:        make(chan decision.AuditEntry, cfg.BufferSize),
		done:          make(chan struct{}),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
	}

	if err := s.createTable(); err != nil {
		return nil, fmt.Errorf("create decisions table: %w", err)
	}

	s.wg.Add(1)
	go s.flusher()

	return s, nil
}

func (s *AuditStore) createTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			service TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			inputs TEXT,
			outputs TEXT,
			success INTEGER NOT NULL,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
		CREATE INDEX IF NOT EXISTS idx_decisions_service ON decisions(service);
	`)
	return err
}

// Record buffers an entry (non-blocking). When the buffer is full the
// entry is dropped rather than stalling a decision.
func (s *AuditStore) Record(entry decision.AuditEntry) {
	select {
	case s.buffer <- entry:
	default:
	}
}

// Recent returns up to limit entries, newest first.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]decision.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, service, timestamp, duration_ns, inputs, outputs, success, error
		FROM decisions ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var entries []decision.AuditEntry
	for rows.Next() {
		var e decision.AuditEntry
		var ts string
		var durationNS int64
		var success int
		if err := rows.Scan(&e.ID, &e.Service, &ts, &durationNS, &e.Inputs, &e.Outputs, &success, &e.Error); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		e.At = at
		e.Duration = time.Duration(durationNS)
		e.Success = success != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close stops the flusher, writes pending entries and leaves the
// database open (the caller owns it).
func (s *AuditStore) Close() error {
	close(s.done)
	s.wg.Wait()
	return nil
}

func (s *AuditStore) flusher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]decision.AuditEntry, 0, s.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-s.buffer:
			batch = append(batch, entry)
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			// Drain whatever is still buffered.
			for {
				select {
				case entry := <-s.buffer:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *AuditStore) writeBatch(batch []decision.AuditEntry) {
	tx, err := s.db.Begin()
	if err != nil {
		return
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO decisions
			(id, service, timestamp, duration_ns, inputs, outputs, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		success := 0
		if e.Success {
			success = 1
		}
		if _, err := stmt.Exec(
			e.ID, e.Service, e.At.Format(time.RFC3339Nano), int64(e.Duration),
			e.Inputs, e.Outputs, success, e.Error,
		); err != nil {
			tx.Rollback()
			return
		}
	}
	tx.Commit()
}

// Ensure interface compliance.
var _ ports.AuditStore = (*AuditStore)(nil)
