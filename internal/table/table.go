package table

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// SortField names a sortable column
type SortField string

const (
	SortNone      SortField = ""
	SortTimestamp SortField = "timestamp"
	SortKey       SortField = "key"
	SortStatus    SortField = "status"
	SortLatency   SortField = "latency"
)

// PageSizes are the selectable rows-per-page values
var PageSizes = []int{10, 20, 50, 100}

// Query describes one table view. Page is 1-based.
type Query struct {
	Endpoint string
	Method   string
	SortBy   SortField
	Desc     bool
	Page     int
	PageSize int
}

// Page is one slice of the filtered, sorted record list
type Page struct {
	Rows      []models.Record `json:"rows"`
	Total     int             `json:"total"`
	Start     int             `json:"start"`
	End       int             `json:"end"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
	PageCount int             `json:"page_count"`
}

// ParseSortField validates a column name
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortNone, SortTimestamp, SortKey, SortStatus, SortLatency:
		return SortField(s), nil
	}
	return SortNone, fmt.Errorf("invalid sort field %q", s)
}

// Apply filters, sorts and slices records. The input slice is not
// reordered. fallbackKey names records without endpoint or operation.
func Apply(records []models.Record, q Query, fallbackKey string) Page {
	if q.PageSize <= 0 {
		q.PageSize = PageSizes[0]
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	endpoint := strings.ToLower(q.Endpoint)
	method := strings.ToLower(q.Method)

	rows := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if endpoint != "" && !strings.Contains(strings.ToLower(rec.GroupKey(fallbackKey)), endpoint) {
			continue
		}
		if method != "" && !strings.Contains(strings.ToLower(rec.Method()), method) {
			continue
		}
		rows = append(rows, rec)
	}

	if less := lessFunc(q.SortBy, fallbackKey); less != nil {
		sort.SliceStable(rows, func(i, j int) bool {
			if q.Desc {
				return less(rows[j], rows[i])
			}
			return less(rows[i], rows[j])
		})
	}

	page := Page{
		Total:     len(rows),
		Page:      q.Page,
		PageSize:  q.PageSize,
		PageCount: (len(rows) + q.PageSize - 1) / q.PageSize,
		Rows:      []models.Record{},
	}

	offset := (q.Page - 1) * q.PageSize
	if offset >= len(rows) {
		return page
	}
	end := offset + q.PageSize
	if end > len(rows) {
		end = len(rows)
	}

	page.Rows = rows[offset:end]
	page.Start = offset + 1
	page.End = end
	return page
}

// Find returns the record with the given id
func Find(records []models.Record, id string) (models.Record, bool) {
	for _, rec := range records {
		if rec.ID() == id {
			return rec, true
		}
	}
	return models.Record{}, false
}

func lessFunc(field SortField, fallbackKey string) func(a, b models.Record) bool {
	switch field {
	case SortTimestamp:
		return func(a, b models.Record) bool {
			return timestampOf(a).Before(timestampOf(b))
		}
	case SortKey:
		return func(a, b models.Record) bool {
			return a.GroupKey(fallbackKey) < b.GroupKey(fallbackKey)
		}
	case SortStatus:
		return func(a, b models.Record) bool {
			return a.StatusCode() < b.StatusCode()
		}
	case SortLatency:
		return func(a, b models.Record) bool {
			return a.Latency() < b.Latency()
		}
	}
	return nil
}

func timestampOf(rec models.Record) time.Time {
	ts, _ := rec.Timestamp()
	return ts
}
