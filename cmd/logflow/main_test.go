package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/justin4957/logflow-api-analytics/internal/render"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

func testSummary() *models.Summary {
	now := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	return &models.Summary{
		TotalRecords:     3,
		HTTPRecords:      2,
		GraphQLRecords:   1,
		UniqueKeys:       2,
		MeanLatency:      150,
		SuccessRate:      0.5,
		MeanLatencyByKey: map[string]float64{"/v1/users": 200, "GetMe": 50},
		KindByKey:        map[string]models.Kind{"/v1/users": models.KindHTTP, "GetMe": models.KindGraphQL},
		MethodDistribution: map[string]int{
			"GET":  1,
			"POST": 1,
		},
		StatusDistribution: map[int]int{200: 1, 500: 1},
		TopKeys: []models.KeyCount{
			{Key: "/v1/users", Count: 2},
			{Key: "GetMe", Count: 1},
		},
		Outliers: []models.Outlier{
			{RecordID: "a9", Kind: models.KindHTTP, Key: "/v1/users", Severity: models.SeverityHigh, Latency: 900, ExpectedLatency: 200},
		},
		Timeline: []models.TimelinePoint{
			{Timestamp: now.Add(-time.Hour), Kind: models.KindHTTP, Key: "/v1/users", Latency: 100, Label: "1 hour ago"},
			{Timestamp: now, Kind: models.KindGraphQL, Key: "GetMe", Latency: 50, Label: "now"},
		},
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, testSummary())
	out := buf.String()

	for _, want := range []string{
		"3 (2 HTTP, 1 GraphQL)", "50.0%", "/v1/users", "Slow requests", "Recent activity",
		"Mean response time: 150.00\n",
		"900.00 ns  (expected 200.00 ns)",
		"2025-03-08 12:00:00",
		"50.00 ms",
		"100.00 ns",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary output to contain %q:\n%s", want, out)
		}
	}

	// Most recent activity is listed first
	if strings.Index(out, "now") > strings.Index(out, "1 hour ago") {
		t.Errorf("Expected newest timeline entry first:\n%s", out)
	}
}

func TestWriteSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, &models.Summary{})

	if strings.Contains(buf.String(), "Top endpoints") {
		t.Error("Expected no top endpoints section for an empty summary")
	}
}

func TestRenderChart(t *testing.T) {
	summary := testSummary()

	for _, kind := range []string{"top", "latency", "timeline", "methods", "status"} {
		var buf bytes.Buffer
		if kind == "latency" {
			summary.TopLatency = []models.KeyLatency{{Key: "/v1/users", Latency: 200}}
		}
		if err := renderChart(&buf, kind, summary, render.FormatSVG); err != nil {
			t.Errorf("renderChart(%q) failed: %v", kind, err)
			continue
		}
		if !strings.Contains(buf.String(), "<svg") {
			t.Errorf("renderChart(%q) did not produce SVG", kind)
		}
	}

	if err := renderChart(&bytes.Buffer{}, "histogram", summary, render.FormatSVG); err == nil {
		t.Error("Expected error for unknown chart kind")
	}
}

func TestSummaryKind(t *testing.T) {
	tests := []struct {
		http, graphql int
		want          models.Kind
	}{
		{2, 0, models.KindHTTP},
		{0, 3, models.KindGraphQL},
		{2, 1, ""},
		{0, 0, ""},
	}

	for _, tt := range tests {
		s := &models.Summary{HTTPRecords: tt.http, GraphQLRecords: tt.graphql}
		if got := summaryKind(s); got != tt.want {
			t.Errorf("summaryKind(%d http, %d graphql) = %q, want %q", tt.http, tt.graphql, got, tt.want)
		}
	}
}

func TestWriteChartFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.svg")
	if err := writeChartFile(path, "top", testSummary(), render.FormatSVG); err != nil {
		t.Fatalf("writeChartFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("Expected an SVG document on disk")
	}

	if err := writeChartFile(path, "histogram", testSummary(), render.FormatSVG); err == nil {
		t.Error("Expected error for unknown chart kind")
	}

	missing := filepath.Join(t.TempDir(), "absent", "top.svg")
	if err := writeChartFile(missing, "top", testSummary(), render.FormatSVG); err == nil {
		t.Error("Expected error for an uncreatable path")
	}
}
