package db

import "time"

// DemandRecord is one persisted observation from the dashboard. The demand
// fields hold the raw strings exactly as extracted (e.g. "12,345 MW").
// TimeBlock and Date are pointers because a legacy schema revision allowed
// rows without them; new rows always carry both.
type DemandRecord struct {
	ID              int64      `json:"id"`
	CurrentDemand   string     `json:"current_demand"`
	YesterdayDemand string     `json:"yesterday_demand"`
	TimeBlock       *string    `json:"time_block,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	CapturedAt      time.Time  `json:"captured_at"`
}
