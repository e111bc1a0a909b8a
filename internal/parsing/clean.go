package parsing

import (
	"strconv"
	"strings"
	"time"
)

// CleanDemand strips the thousands separators and " MW" unit suffix from a
// raw demand string and trims surrounding whitespace: "12,345 MW" -> "12345".
// Both the downstream publisher and the read-side API use this so the two
// never disagree on the cleaned form.
func CleanDemand(raw string) string {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.ReplaceAll(s, " MW", "")
	return strings.TrimSpace(s)
}

// DemandValue converts a raw demand string into a numeric chart value.
// Returns false when the cleaned string is not a number.
func DemandValue(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(CleanDemand(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CompactTimeBlock removes the spaces around the range separator:
// "10:15 - 10:30" -> "10:15-10:30".
func CompactTimeBlock(block string) string {
	return strings.ReplaceAll(block, " ", "")
}

// FormatDate renders a reporting-window date in the API's wire form.
func FormatDate(d time.Time) string {
	return d.Format("2006-01-02")
}
