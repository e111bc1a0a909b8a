// Package scheduler runs the capture agent forever: one cycle, publish,
// persist, then a fixed wait until the next cycle.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jonathan/demand-capture/internal/capture"
)

// DefaultInterval is the wait between cycles.
const DefaultInterval = 300 * time.Second

// Runner executes one capture cycle.
type Runner interface {
	Run(ctx context.Context) capture.Outcome
}

// Publisher pushes a cycle outcome downstream.
type Publisher interface {
	Publish(ctx context.Context, outcome capture.Outcome)
}

// Persister writes a successful outcome to the record store.
type Persister interface {
	Persist(ctx context.Context, outcome capture.Outcome)
}

// Loop sequences cycle -> publish -> persist -> sleep until the context is
// cancelled. Every failure mode inside the stages is already absorbed there,
// so nothing can terminate the loop except cancellation.
type Loop struct {
	Cycle     Runner
	Publisher Publisher
	Writer    Persister
	Interval  time.Duration

	// Countdown, when set, receives a per-second countdown to the next
	// cycle. Purely cosmetic; nil disables it.
	Countdown io.Writer

	// OnOutcome, when set, is called with each cycle's outcome after the
	// publish and persist stages have run.
	OnOutcome func(capture.Outcome)
}

// Run executes cycles until ctx is cancelled and returns the cancellation
// cause.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Printf("[LOOP] Stopped: %v", err)
			return err
		}

		start := time.Now()
		log.Printf("[LOOP] Starting data capture cycle at %s", start.Format("2006-01-02 15:04:05"))

		outcome := l.Cycle.Run(ctx)
		l.Publisher.Publish(ctx, outcome)
		if outcome.Status == capture.StatusDataCaptured {
			l.Writer.Persist(ctx, outcome)
		}

		log.Printf("[LOOP] Cycle finished in %.2fs with status %s", time.Since(start).Seconds(), outcome.Status)
		if l.OnOutcome != nil {
			l.OnOutcome(outcome)
		}

		if err := l.wait(ctx, interval); err != nil {
			log.Printf("[LOOP] Stopped: %v", err)
			return err
		}
	}
}

// wait sleeps for the inter-cycle interval, returning early when ctx is
// cancelled. With a Countdown writer the wait is chunked per second so the
// remaining time can be displayed.
func (l *Loop) wait(ctx context.Context, interval time.Duration) error {
	if l.Countdown == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
			return nil
		}
	}

	for remaining := interval; remaining > 0; remaining -= time.Second {
		mins := int(remaining.Seconds()) / 60
		secs := int(remaining.Seconds()) % 60
		fmt.Fprintf(l.Countdown, "Next capture in: %02d:%02d...   \r", mins, secs)

		step := time.Second
		if remaining < step {
			step = remaining
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.Countdown)
			return ctx.Err()
		case <-time.After(step):
		}
	}
	fmt.Fprintln(l.Countdown)
	return nil
}
