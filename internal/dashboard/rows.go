package dashboard

import (
	"github.com/justin4957/logflow-api-analytics/internal/render"
	"github.com/justin4957/logflow-api-analytics/internal/table"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// recordRow is the list view of a record. Headers and payloads are not
// listed; the redacted record is served by /api/records/{id}.
type recordRow struct {
	ID           string      `json:"id"`
	Kind         models.Kind `json:"kind"`
	Timestamp    string      `json:"timestamp"`
	Key          string      `json:"key"`
	Method       string      `json:"method,omitempty"`
	Status       int         `json:"status,omitempty"`
	Latency      float64     `json:"latency"`
	LatencyLabel string      `json:"latency_label"`
}

// recordsPage mirrors table.Page with projected rows
type recordsPage struct {
	Rows      []recordRow `json:"rows"`
	Total     int         `json:"total"`
	Start     int         `json:"start"`
	End       int         `json:"end"`
	Page      int         `json:"page"`
	PageSize  int         `json:"page_size"`
	PageCount int         `json:"page_count"`
}

func newRecordRow(rec models.Record, fallbackKey string) recordRow {
	return recordRow{
		ID:           rec.ID(),
		Kind:         rec.Kind,
		Timestamp:    render.FormatTimestamp(rec),
		Key:          rec.GroupKey(fallbackKey),
		Method:       rec.Method(),
		Status:       rec.StatusCode(),
		Latency:      rec.Latency(),
		LatencyLabel: render.FormatLatency(rec),
	}
}

func projectPage(p table.Page, fallbackKey string) recordsPage {
	rows := make([]recordRow, 0, len(p.Rows))
	for _, rec := range p.Rows {
		rows = append(rows, newRecordRow(rec, fallbackKey))
	}
	return recordsPage{
		Rows:      rows,
		Total:     p.Total,
		Start:     p.Start,
		End:       p.End,
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: p.PageCount,
	}
}
