// Package observability provides formatted output utilities for verbose
// agent mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/demand-capture/internal/capture"
	"github.com/jonathan/demand-capture/internal/parsing"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOutcome outputs a human-readable summary of a capture cycle outcome.
func (p *Printer) PrintOutcome(outcome capture.Outcome) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Status:     %s\n", outcome.Status))
	sb.WriteString(fmt.Sprintf("Captured:   %s\n", outcome.CapturedAt.Format("2006-01-02 15:04:05")))

	if outcome.Status == capture.StatusDataCaptured {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Current:    %s\n", outcome.CurrentDemand))
		sb.WriteString(fmt.Sprintf("Yesterday:  %s\n", outcome.YesterdayDemand))
		sb.WriteString(fmt.Sprintf("Time Block: %s\n", outcome.TimeBlock))
		sb.WriteString(fmt.Sprintf("Date:       %s", parsing.FormatDate(outcome.Date)))
	}

	p.printBox("Capture Cycle Result", sb.String())
}
