package domain

import "time"

// WatermarkDateLayout is the calendar-date format persisted in the rollover
// watermark row.
const WatermarkDateLayout = "2006-01-02"

// RolloverWatermark is the singleton record storing the calendar date on which
// the last successful rollover ran. It guarantees at-most-once-per-day
// execution of the carry-forward batch.
type RolloverWatermark struct {
	LastRunDate string    `json:"lastRunDate"` // WatermarkDateLayout
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RolloverResult summarizes one invocation of the rollover engine.
type RolloverResult struct {
	RunDate         string `json:"runDate"`
	Skipped         bool   `json:"skipped"` // true when the watermark already covered today
	AccountsUpdated int    `json:"accountsUpdated"`
}
