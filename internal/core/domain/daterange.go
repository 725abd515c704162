package domain

import (
	"fmt"
	"strings"
	"time"
)

// RangePreset names a supported dashboard date range.
type RangePreset string

const (
	RangeToday       RangePreset = "today"
	RangeYesterday   RangePreset = "yesterday"
	RangeWeek        RangePreset = "week" // trailing 7 days
	RangeMonthToDate RangePreset = "month"
	RangeYearToDate  RangePreset = "year"
	RangeAllTime     RangePreset = "all"
	RangeCustom      RangePreset = "custom"
)

// DateRange is a half-open [From, To) instant range used by the aggregator and
// ledger queries. A zero From together with a zero To means "all time".
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsAllTime reports whether the range places no bounds on createdAt.
func (r DateRange) IsAllTime() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsAllTime() {
		return true
	}
	return !t.Before(r.From) && t.Before(r.To)
}

// ResolveDateRange turns a preset name (plus optional custom bounds) into a
// concrete range, anchored at now in now's location. An unknown preset or an
// inverted/missing custom range is a validation failure surfaced before any
// querying happens.
func ResolveDateRange(preset string, from, to *time.Time, now time.Time) (DateRange, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch RangePreset(strings.ToLower(preset)) {
	case RangeToday:
		// Runs to the next midnight so entries written in the same instant as
		// the query are not excluded by the half-open bound.
		return DateRange{From: midnight, To: midnight.AddDate(0, 0, 1)}, nil
	case RangeYesterday:
		return DateRange{From: midnight.AddDate(0, 0, -1), To: midnight}, nil
	case RangeWeek:
		return DateRange{From: now.AddDate(0, 0, -7), To: now}, nil
	case RangeMonthToDate:
		return DateRange{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), To: now}, nil
	case RangeYearToDate:
		return DateRange{From: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), To: now}, nil
	case RangeAllTime:
		return DateRange{}, nil
	case RangeCustom:
		if from == nil || to == nil {
			return DateRange{}, fmt.Errorf("custom range requires both from and to instants")
		}
		if !from.Before(*to) {
			return DateRange{}, fmt.Errorf("custom range is inverted: from %s is not before to %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
		}
		return DateRange{From: *from, To: *to}, nil
	}
	return DateRange{}, fmt.Errorf("unknown date range preset %q", preset)
}
