// Package parsing extracts structured fields from the raw text captured off
// the demand dashboard page.
package parsing

import (
	"regexp"
	"strings"
	"time"
)

// timeBlockPattern matches the reporting-window banner on the source page,
// e.g. "TIME BLOCK 10:15 - 10:30 DATED 05 JAN 2024".
var timeBlockPattern = regexp.MustCompile(`TIME BLOCK (\d{2}:\d{2} - \d{2}:\d{2}) DATED (\d{2} [A-Z]{3} \d{4})`)

// dateLayout is the site's date format once the month is folded to title case.
const dateLayout = "02 Jan 2006"

// BlockInfo holds the reporting window parsed from the page banner.
// TimeBlock is the matched range substring verbatim ("HH:MM - HH:MM").
type BlockInfo struct {
	TimeBlock string
	Date      time.Time
}

// ParseTimeBlock matches the raw banner text against the time-block grammar.
// Runs of whitespace (including line breaks) are collapsed to single spaces
// before matching. Returns a *ParseError when the grammar does not match or
// the matched date does not parse.
func ParseTimeBlock(raw string) (*BlockInfo, error) {
	collapsed := strings.Join(strings.Fields(raw), " ")

	m := timeBlockPattern.FindStringSubmatch(collapsed)
	if m == nil {
		return nil, &ParseError{Message: "time block and date not found in text"}
	}

	date, err := time.Parse(dateLayout, titleCaseMonth(m[2]))
	if err != nil {
		return nil, &ParseError{Message: "unparseable date in time block text", Cause: err}
	}

	return &BlockInfo{TimeBlock: m[1], Date: date}, nil
}

// titleCaseMonth folds the site's uppercase month abbreviation ("JAN") into
// the form time.Parse expects ("Jan"). The input shape is guaranteed by the
// grammar: "DD MMM YYYY".
func titleCaseMonth(s string) string {
	parts := strings.Split(s, " ")
	if len(parts) != 3 || len(parts[1]) != 3 {
		return s
	}
	parts[1] = parts[1][:1] + strings.ToLower(parts[1][1:])
	return strings.Join(parts, " ")
}
