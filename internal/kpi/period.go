package kpi

import (
	"fmt"
	"time"
)

// Period identifies a reporting window preset.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodToday  Period = "today"
	Period7d     Period = "7d"
	Period30d    Period = "30d"
	Period90d    Period = "90d"
	PeriodCustom Period = "custom"
)

// Range is a resolved reporting window. Nil bounds mean unbounded.
type Range struct {
	Start *time.Time
	End   *time.Time
	Label string
}

// ResolvePeriod turns a preset into concrete bounds anchored at now. The
// custom preset passes the caller's bounds through unchanged; unknown presets
// fall back to the full history.
func ResolvePeriod(p Period, now time.Time, customStart, customEnd *time.Time) Range {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodToday:
		return Range{Start: &today, End: &today, Label: "Today"}
	case Period7d:
		start := today.AddDate(0, 0, -6)
		return Range{Start: &start, End: &today, Label: "Last 7 Days"}
	case Period30d:
		start := today.AddDate(0, 0, -29)
		return Range{Start: &start, End: &today, Label: "Last 30 Days"}
	case Period90d:
		start := today.AddDate(0, 0, -89)
		return Range{Start: &start, End: &today, Label: "Last 90 Days"}
	case PeriodCustom:
		return Range{Start: customStart, End: customEnd, Label: customLabel(customStart, customEnd)}
	default:
		return Range{Label: "All Time"}
	}
}

func customLabel(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	case start != nil:
		return fmt.Sprintf("From %s", start.Format("2006-01-02"))
	case end != nil:
		return fmt.Sprintf("Until %s", end.Format("2006-01-02"))
	default:
		return "All Time"
	}
}
