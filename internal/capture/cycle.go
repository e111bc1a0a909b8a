// Package capture runs one scrape of the demand dashboard page and
// classifies the result into a status.
package capture

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonathan/demand-capture/internal/parsing"
)

// Outcome is the result of one capture cycle. The demand and time-block
// fields are populated only when Status is StatusDataCaptured.
type Outcome struct {
	Status          Status
	CurrentDemand   string
	YesterdayDemand string
	TimeBlock       string
	Date            time.Time
	CapturedAt      time.Time
}

// Renderer is one browsing session against the target page. Every operation
// is individually time-bounded; Close releases the session and must be safe
// to call after any failure.
type Renderer interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	WaitVisible(ctx context.Context, locator string, timeout time.Duration) error
	Text(ctx context.Context, locator string, timeout time.Duration) (string, error)
	Screenshot(ctx context.Context, path string, timeout time.Duration) error
	Close()
}

// RendererFactory opens a fresh renderer session for a cycle.
type RendererFactory func(ctx context.Context) (Renderer, error)

// Locators identifies the three fixed text regions on the target page.
type Locators struct {
	Current   string
	Yesterday string
	TimeBlock string
}

// Timeouts holds the per-operation budgets for one cycle.
type Timeouts struct {
	Navigation time.Duration
	Selector   time.Duration
	Text       time.Duration
	Screenshot time.Duration
}

// Artifacts is the screenshot lifecycle collaborator.
type Artifacts interface {
	PathFor(runDate time.Time) string
	Prune(runDate time.Time) error
}

// Cycle drives one capture iteration: navigate, read, parse, screenshot.
type Cycle struct {
	TargetURL   string
	Locators    Locators
	Timeouts    Timeouts
	NewRenderer RendererFactory
	Artifacts   Artifacts

	clock func() time.Time // overridable for tests
}

// NewCycle creates a capture cycle using the process clock.
func NewCycle(targetURL string, locators Locators, timeouts Timeouts, factory RendererFactory, artifacts Artifacts) *Cycle {
	return &Cycle{
		TargetURL:   targetURL,
		Locators:    locators,
		Timeouts:    timeouts,
		NewRenderer: factory,
		Artifacts:   artifacts,
		clock:       time.Now,
	}
}

// Run executes one cycle. It never returns an error: every failure inside
// the cycle is absorbed into the outcome's status, and the renderer session
// is always released before returning.
func (c *Cycle) Run(ctx context.Context) (outcome Outcome) {
	outcome = Outcome{Status: StatusScrapingFailed, CapturedAt: c.clock()}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[CAPTURE] Recovered from panic during capture: %v", r)
			outcome = Outcome{Status: StatusScrapingFailed, CapturedAt: outcome.CapturedAt}
		}
	}()

	renderer, err := c.NewRenderer(ctx)
	if err != nil {
		log.Printf("[CAPTURE] Failed to start renderer session: %v", err)
		outcome.Status = statusForError(err)
		return outcome
	}
	defer renderer.Close()

	log.Printf("[CAPTURE] Navigating to: %s", c.TargetURL)
	if err := renderer.Navigate(ctx, c.TargetURL, c.Timeouts.Navigation); err != nil {
		log.Printf("[CAPTURE] Navigation failed: %v", err)
		outcome.Status = statusForError(err)
		return outcome
	}

	if err := renderer.WaitVisible(ctx, c.Locators.Current, c.Timeouts.Selector); err != nil {
		log.Printf("[CAPTURE] Data elements never became visible: %v", err)
		outcome.Status = statusForError(err)
		return outcome
	}

	current, err := renderer.Text(ctx, c.Locators.Current, c.Timeouts.Text)
	if err != nil {
		log.Printf("[CAPTURE] Failed to read current demand: %v", err)
		outcome.Status = statusForError(err)
		return outcome
	}
	yesterday, err := renderer.Text(ctx, c.Locators.Yesterday, c.Timeouts.Text)
	if err != nil {
		log.Printf("[CAPTURE] Failed to read yesterday demand: %v", err)
		outcome.Status = statusForError(err)
		return outcome
	}
	blockText, err := renderer.Text(ctx, c.Locators.TimeBlock, c.Timeouts.Text)
	if err != nil {
		log.Printf("[CAPTURE] Failed to read time block text: %v", err)
		outcome.Status = statusForError(err)
		return outcome
	}
	log.Printf("[CAPTURE] Extracted demand -> current: %s | yesterday: %s", current, yesterday)

	info, err := parsing.ParseTimeBlock(blockText)
	if err != nil {
		log.Printf("[CAPTURE] %v", err)
		outcome.Status = StatusParsingFailed
		return outcome
	}
	log.Printf("[CAPTURE] Parsed time block %s dated %s", info.TimeBlock, parsing.FormatDate(info.Date))

	outcome.Status = StatusDataCaptured
	outcome.CurrentDemand = current
	outcome.YesterdayDemand = yesterday
	outcome.TimeBlock = info.TimeBlock
	outcome.Date = info.Date

	// The screenshot is best effort: a save failure never downgrades a
	// successful capture.
	path := c.Artifacts.PathFor(outcome.CapturedAt)
	if err := renderer.Screenshot(ctx, path, c.Timeouts.Screenshot); err != nil {
		log.Printf("[CAPTURE] Screenshot failed (keeping captured data): %v", err)
	} else {
		log.Printf("[CAPTURE] Screenshot saved to: %s", path)
	}
	if err := c.Artifacts.Prune(outcome.CapturedAt); err != nil {
		log.Printf("[CAPTURE] Screenshot pruning failed: %v", err)
	}

	return outcome
}

// statusForError maps a renderer failure to a cycle status. An exceeded
// deadline anywhere in the chain is a timeout; everything else is a generic
// scraping failure.
func statusForError(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}
	return StatusScrapingFailed
}
