package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/demand-capture/internal/capture"
	"github.com/jonathan/demand-capture/internal/db"
)

// fakeStore fails the first len(errs) create calls with the scripted errors,
// then succeeds.
type fakeStore struct {
	errs []error

	createCalls int
	resetCalls  int
	lastRecord  db.DemandRecord
}

func (f *fakeStore) CreateDemandRecord(_ context.Context, rec db.DemandRecord) error {
	f.createCalls++
	f.lastRecord = rec
	if f.createCalls <= len(f.errs) {
		return f.errs[f.createCalls-1]
	}
	return nil
}

func (f *fakeStore) Reset() {
	f.resetCalls++
}

func capturedOutcome() capture.Outcome {
	return capture.Outcome{
		Status:          capture.StatusDataCaptured,
		CurrentDemand:   "12,345 MW",
		YesterdayDemand: "11,000 MW",
		TimeBlock:       "10:15 - 10:30",
		Date:            time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		CapturedAt:      time.Date(2024, time.January, 5, 10, 31, 0, 0, time.UTC),
	}
}

func newTestWriter(store Store, maxAttempts int) (*Writer, *[]time.Duration) {
	w := NewWriter(store, maxAttempts)
	var slept []time.Duration
	w.sleep = func(d time.Duration) { slept = append(slept, d) }
	return w, &slept
}

func TestPersistFirstAttemptSucceeds(t *testing.T) {
	store := &fakeStore{}
	w, slept := newTestWriter(store, 4)

	w.Persist(context.Background(), capturedOutcome())

	assert.Equal(t, 1, store.createCalls)
	assert.Zero(t, store.resetCalls)
	assert.Empty(t, *slept)

	require.NotNil(t, store.lastRecord.TimeBlock)
	assert.Equal(t, "10:15 - 10:30", *store.lastRecord.TimeBlock)
	assert.Equal(t, "12,345 MW", store.lastRecord.CurrentDemand, "raw string stored verbatim")
}

func TestPersistRetriesStoreErrorsWithBackoff(t *testing.T) {
	connErr := errors.New("connection refused")
	store := &fakeStore{errs: []error{connErr, connErr, connErr}}
	w, slept := newTestWriter(store, 4)

	w.Persist(context.Background(), capturedOutcome())

	assert.Equal(t, 4, store.createCalls, "three failures then one success")
	assert.Equal(t, 3, store.resetCalls, "pool reset before every retry")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *slept)
}

func TestPersistExhaustsAttempts(t *testing.T) {
	connErr := errors.New("connection refused")
	store := &fakeStore{errs: []error{connErr, connErr, connErr, connErr}}
	w, slept := newTestWriter(store, 4)

	w.Persist(context.Background(), capturedOutcome())

	assert.Equal(t, 4, store.createCalls)
	assert.Equal(t, 3, store.resetCalls, "no reset after the final attempt")
	assert.Len(t, *slept, 3, "no backoff after the final attempt")
}

func TestPersistDoesNotRetryApplicationErrors(t *testing.T) {
	store := &fakeStore{errs: []error{&pgconn.PgError{Code: "23502", Message: "null value"}}}
	w, slept := newTestWriter(store, 4)

	w.Persist(context.Background(), capturedOutcome())

	assert.Equal(t, 1, store.createCalls)
	assert.Zero(t, store.resetCalls)
	assert.Empty(t, *slept)
}

func TestPersistIgnoresNonCapturedOutcomes(t *testing.T) {
	store := &fakeStore{}
	w, _ := newTestWriter(store, 4)

	for _, status := range []capture.Status{capture.StatusParsingFailed, capture.StatusTimeout, capture.StatusScrapingFailed} {
		w.Persist(context.Background(), capture.Outcome{Status: status})
	}

	assert.Zero(t, store.createCalls, "only fully captured cycles are persisted")
}

func TestNewWriterDefaultsAttempts(t *testing.T) {
	w := NewWriter(&fakeStore{}, 0)
	assert.Equal(t, DefaultMaxAttempts, w.maxAttempts)
}
