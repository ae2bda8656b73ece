package analyzer

import (
	"fmt"
	"time"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// TimeRange selects how far back from the reference time records are kept
type TimeRange string

const (
	RangeAll   TimeRange = "all"
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// ParseTimeRange validates a range name; the empty string means RangeAll
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case "", RangeAll:
		return RangeAll, nil
	case RangeDay, RangeWeek, RangeMonth:
		return TimeRange(s), nil
	}
	return "", fmt.Errorf("invalid time range %q", s)
}

// Window returns the lookback duration; zero means unbounded
func (r TimeRange) Window() time.Duration {
	switch r {
	case RangeDay:
		return 24 * time.Hour
	case RangeWeek:
		return 7 * 24 * time.Hour
	case RangeMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// FilterByRange returns a new slice with the records whose timestamp lies
// within the range ending at now. RangeAll returns every record; bounded
// ranges drop records without a usable timestamp.
func FilterByRange(records []models.Record, r TimeRange, now time.Time) []models.Record {
	window := r.Window()
	filtered := make([]models.Record, 0, len(records))
	if window == 0 {
		return append(filtered, records...)
	}

	cutoff := now.Add(-window)
	for _, rec := range records {
		ts, ok := rec.Timestamp()
		if !ok || ts.Before(cutoff) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}
