// Package persist writes successful capture outcomes to the record store
// with bounded retry and connection recovery between attempts.
package persist

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/demand-capture/internal/capture"
	"github.com/jonathan/demand-capture/internal/db"
)

// DefaultMaxAttempts bounds the write retry loop.
const DefaultMaxAttempts = 4

// Store is the record-store surface the writer needs. Reset discards pooled
// connections so the next attempt opens fresh.
type Store interface {
	CreateDemandRecord(ctx context.Context, rec db.DemandRecord) error
	Reset()
}

// Writer persists one DemandRecord per successful cycle.
type Writer struct {
	store       Store
	maxAttempts int

	sleep func(time.Duration) // overridable for tests
}

// NewWriter creates a Writer. maxAttempts <= 0 uses DefaultMaxAttempts.
func NewWriter(store Store, maxAttempts int) *Writer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Writer{store: store, maxAttempts: maxAttempts, sleep: time.Sleep}
}

// Persist writes the outcome's record. Store-level (connectivity) errors are
// retried up to the attempt budget with a 2^attempt-second backoff and a pool
// reset between attempts. Application-level errors abort immediately: the
// statement reached the server, so retrying it cannot succeed. When every
// attempt fails the record is dropped with a final log line.
func (w *Writer) Persist(ctx context.Context, outcome capture.Outcome) {
	if outcome.Status != capture.StatusDataCaptured {
		return
	}

	rec := db.DemandRecord{
		CurrentDemand:   outcome.CurrentDemand,
		YesterdayDemand: outcome.YesterdayDemand,
		TimeBlock:       &outcome.TimeBlock,
		Date:            &outcome.Date,
		CapturedAt:      outcome.CapturedAt,
	}

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.store.CreateDemandRecord(ctx, rec)
		if err == nil {
			log.Printf("[PERSIST] Demand record saved (attempt %d/%d)", attempt, w.maxAttempts)
			return
		}

		if db.IsApplicationError(err) {
			log.Printf("[PERSIST] Record rejected by the database, not retrying: %v", err)
			return
		}

		log.Printf("[PERSIST] Store unavailable (attempt %d/%d): %v", attempt, w.maxAttempts, err)
		if attempt == w.maxAttempts {
			break
		}

		w.store.Reset()
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		log.Printf("[PERSIST] Retrying in %s", backoff)
		w.sleep(backoff)
	}

	log.Printf("[PERSIST] Giving up after %d attempts, record dropped", w.maxAttempts)
}
