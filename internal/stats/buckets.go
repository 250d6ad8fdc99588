package stats

import (
	"fmt"
	"time"
)

// Granularity selects the time-bucket size for timelines.
type Granularity int

// Supported timeline granularities.
const (
	Daily Granularity = iota
	Weekly
	Monthly
)

// Span thresholds for automatic granularity selection.
const (
	daysDaily  = 92  // up to ~3 months: daily buckets
	daysWeekly = 731 // up to ~2 years: weekly buckets
)

// String returns the granularity name.
func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// PickGranularity chooses bucket size from the project's lifespan so a
// timeline stays readable at any repository age.
func PickGranularity(first, last time.Time) Granularity {
	days := int(last.Sub(first).Hours() / 24)

	switch {
	case days <= daysDaily:
		return Daily
	case days <= daysWeekly:
		return Weekly
	default:
		return Monthly
	}
}

// bucketStart truncates t to the start of its bucket in UTC.
func (g Granularity) bucketStart(t time.Time) time.Time {
	t = t.UTC()

	switch g {
	case Weekly:
		// Start of the ISO week (Monday).
		offset := (int(t.Weekday()) + 6) % 7

		return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// next advances a bucket start to the following bucket.
func (g Granularity) next(t time.Time) time.Time {
	switch g {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Daily:
		return t.AddDate(0, 0, 1)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// label formats a bucket start for chart axes.
func (g Granularity) label(t time.Time) string {
	switch g {
	case Weekly:
		year, week := t.ISOWeek()

		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return t.Format("2006-01")
	case Daily:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01-02")
	}
}
