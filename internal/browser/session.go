// Package browser provides the headless Chrome session used to render and
// screenshot the demand dashboard page. Requires Chrome/Chromium to be
// installed on the system.
package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// userAgent mirrors a desktop browser so the dashboard serves its normal
// layout.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// Session is one headless browser tab. It is owned by a single capture
// cycle and released with Close once the cycle finishes.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewSession launches a headless browser tab. The parent context bounds the
// whole session: cancelling it tears the browser down.
func NewSession(parent context.Context) (*Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
			chromedp.WindowSize(1920, 1080),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
	}

	// Start the browser process now so a missing Chrome install fails the
	// session open instead of the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch headless browser: %w", err)
	}

	return s, nil
}

// Navigate loads the target URL under the given timeout.
func (s *Session) Navigate(_ context.Context, url string, timeout time.Duration) error {
	if err := s.run(timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the element at the locator becomes visible.
func (s *Session) WaitVisible(_ context.Context, locator string, timeout time.Duration) error {
	if err := s.run(timeout, chromedp.WaitVisible(locator, chromedp.BySearch)); err != nil {
		return fmt.Errorf("element %s never became visible: %w", locator, err)
	}
	return nil
}

// Text reads the visible text of the element at the locator.
func (s *Session) Text(_ context.Context, locator string, timeout time.Duration) (string, error) {
	var text string
	if err := s.run(timeout, chromedp.Text(locator, &text, chromedp.BySearch)); err != nil {
		return "", fmt.Errorf("failed to read text at %s: %w", locator, err)
	}
	return text, nil
}

// Screenshot captures the viewport and writes it to path.
func (s *Session) Screenshot(_ context.Context, path string, timeout time.Duration) error {
	var buf []byte
	if err := s.run(timeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}
	return nil
}

// Close releases the browser tab and its allocator. Safe to call more than
// once.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// run executes chromedp actions against the session under a per-operation
// timeout.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	opCtx := s.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(s.ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(opCtx, actions...)
}
