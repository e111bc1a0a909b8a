package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeBlock(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedBlock string
		expectedDate  time.Time
	}{
		{
			name:          "Plain banner text",
			input:         "TIME BLOCK 10:15 - 10:30 DATED 05 JAN 2024",
			expectedBlock: "10:15 - 10:30",
			expectedDate:  time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "Banner embedded in surrounding page text",
			input:         "TAMIL NADU POWER POSITION FOR TIME BLOCK 10:15 - 10:30 DATED 05 JAN 2024 (ALL FIGURES IN MW)",
			expectedBlock: "10:15 - 10:30",
			expectedDate:  time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "Line breaks and runs of whitespace collapse before matching",
			input:         "TIME BLOCK\n  23:45 - 00:00\n\tDATED   31 DEC 2023",
			expectedBlock: "23:45 - 00:00",
			expectedDate:  time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "Every month abbreviation parses",
			input:         "TIME BLOCK 00:00 - 00:15 DATED 01 AUG 2026",
			expectedBlock: "00:00 - 00:15",
			expectedDate:  time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseTimeBlock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBlock, info.TimeBlock)
			assert.Equal(t, tt.expectedDate, info.Date)
		})
	}
}

func TestParseTimeBlockFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Missing DATED marker", "TIME BLOCK 10:15 - 10:30 05 JAN 2024"},
		{"Missing TIME BLOCK marker", "10:15 - 10:30 DATED 05 JAN 2024"},
		{"Empty text", ""},
		{"Lowercase month does not match the grammar", "TIME BLOCK 10:15 - 10:30 DATED 05 Jan 2024"},
		{"Nonexistent month", "TIME BLOCK 10:15 - 10:30 DATED 05 XXX 2024"},
		{"Day out of range for month", "TIME BLOCK 10:15 - 10:30 DATED 32 JAN 2024"},
		{"Malformed time range", "TIME BLOCK 10:15-10:30 DATED 05 JAN 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseTimeBlock(tt.input)
			assert.Nil(t, info)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseTimeBlockDeterministic(t *testing.T) {
	input := "TIME BLOCK 10:15 - 10:30 DATED 05 JAN 2024"

	first, err := ParseTimeBlock(input)
	require.NoError(t, err)
	second, err := ParseTimeBlock(input)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input should always yield the same result")
}
