package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// MaxLabelLen is the chart label width before truncation
const MaxLabelLen = 15

// TruncateLabel shortens long keys for chart axes. It only affects the
// displayed text; grouping keys are never rewritten.
func TruncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxLabelLen {
		return s
	}
	return string(runes[:MaxLabelLen]) + "..."
}

// FormatNanos renders an HTTP response time recorded in nanoseconds
func FormatNanos(ns float64) string {
	switch {
	case ns < 1000:
		return fmt.Sprintf("%.2f ns", ns)
	case ns < 1000000:
		return fmt.Sprintf("%.2f μs", ns/1000)
	default:
		return fmt.Sprintf("%.2f ms", ns/1000000)
	}
}

// FormatKindLatency renders a latency in the unit of the record kind it
// came from. An empty kind means the unit is unknown and prints bare.
func FormatKindLatency(kind models.Kind, latency float64) string {
	switch kind {
	case models.KindHTTP:
		return FormatNanos(latency)
	case models.KindGraphQL:
		return fmt.Sprintf("%.2f ms", latency)
	}
	return fmt.Sprintf("%.2f", latency)
}

// FormatLatency renders a record's latency in its variant's unit
func FormatLatency(rec models.Record) string {
	return FormatKindLatency(rec.Kind, rec.Latency())
}

// FormatPercent renders a 0..1 fraction with one decimal
func FormatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

// FormatTime renders a timestamp for table rows, "-" when unknown
func FormatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(time.DateTime)
}

// FormatTimestamp renders a record timestamp for table rows
func FormatTimestamp(rec models.Record) string {
	ts, ok := rec.Timestamp()
	if !ok {
		return "-"
	}
	return FormatTime(ts)
}
