package analyzer

import (
	"math"
	"testing"

	"github.com/justin4957/logflow-api-analytics/internal/config"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// baselineWithSpike returns n steady requests to path followed by one slow request
func baselineWithSpike(path string, n int, baseline, spike float64) []models.Record {
	records := make([]models.Record, 0, n+1)
	for i := 0; i < n; i++ {
		records = append(records, createTestRecord(200, path, baseline))
	}
	return append(records, createTestRecord(200, path, spike))
}

func newTestDetector() *OutlierDetector {
	return NewOutlierDetector(config.DefaultConfig().AnalyticsConfig)
}

// TestOutlierDetector_ColdStart tests behavior with insufficient data
func TestOutlierDetector_ColdStart(t *testing.T) {
	records := baselineWithSpike("/api/users", 4, 100, 1000)

	outliers := newTestDetector().Detect(records)
	if len(outliers) != 0 {
		t.Errorf("Expected no outliers with insufficient data, got %d", len(outliers))
	}
}

// TestOutlierDetector_SlowRequest tests detection of a single slow request
func TestOutlierDetector_SlowRequest(t *testing.T) {
	records := baselineWithSpike("/api/users", 10, 100, 1000)

	outliers := newTestDetector().Detect(records)
	if len(outliers) != 1 {
		t.Fatalf("Expected 1 outlier, got %d", len(outliers))
	}

	o := outliers[0]
	if o.Key != "/api/users" || o.Latency != 1000 || o.Kind != models.KindHTTP {
		t.Errorf("Unexpected outlier: %+v", o)
	}
	if math.Abs(o.ExpectedLatency-2000.0/11.0) > 1e-9 {
		t.Errorf("Expected baseline mean %.3f, got %.3f", 2000.0/11.0, o.ExpectedLatency)
	}
	if o.Severity != models.SeverityHigh {
		t.Errorf("Expected high severity, got %s", o.Severity)
	}
}

// TestOutlierDetector_FastRequestIgnored tests that only slow requests are flagged
func TestOutlierDetector_FastRequestIgnored(t *testing.T) {
	records := baselineWithSpike("/api/users", 10, 1000, 1)

	if outliers := newTestDetector().Detect(records); len(outliers) != 0 {
		t.Errorf("Expected fast request to be ignored, got %d outliers", len(outliers))
	}
}

// TestOutlierDetector_ConstantLatency tests that a zero deviation baseline flags nothing
func TestOutlierDetector_ConstantLatency(t *testing.T) {
	records := baselineWithSpike("/api/users", 10, 100, 100)

	if outliers := newTestDetector().Detect(records); len(outliers) != 0 {
		t.Errorf("Expected no outliers for constant latency, got %d", len(outliers))
	}
}

// TestOutlierDetector_PerKeyBaseline tests that keys do not share a baseline
func TestOutlierDetector_PerKeyBaseline(t *testing.T) {
	// /slow is uniformly slow; alone it has no outliers
	var records []models.Record
	for i := 0; i < 10; i++ {
		records = append(records, createTestRecord(200, "/fast", 10))
		records = append(records, createTestRecord(200, "/slow", 5000))
	}

	if outliers := newTestDetector().Detect(records); len(outliers) != 0 {
		t.Errorf("Expected no outliers across steady keys, got %d", len(outliers))
	}
}

// TestOutlierDetector_Ordering tests that the strongest deviation comes first
func TestOutlierDetector_Ordering(t *testing.T) {
	records := append(
		baselineWithSpike("/a", 10, 100, 1000),
		baselineWithSpike("/b", 20, 100, 1000)...,
	)

	outliers := newTestDetector().Detect(records)
	if len(outliers) != 2 {
		t.Fatalf("Expected 2 outliers, got %d", len(outliers))
	}
	if outliers[0].Key != "/b" || outliers[1].Key != "/a" {
		t.Errorf("Expected /b before /a, got %s, %s", outliers[0].Key, outliers[1].Key)
	}
	if outliers[0].Severity != models.SeverityCritical {
		t.Errorf("Expected critical severity for /b, got %s", outliers[0].Severity)
	}
}

// TestAggregate_Outliers tests that the summary carries detected outliers
func TestAggregate_Outliers(t *testing.T) {
	records := baselineWithSpike("/api/users", 10, 100, 1000)

	summary := newTestAggregator().Aggregate(records, referenceTime)
	if len(summary.Outliers) != 1 {
		t.Fatalf("Expected 1 outlier in summary, got %d", len(summary.Outliers))
	}

	empty := newTestAggregator().Aggregate(nil, referenceTime)
	if empty.Outliers == nil || len(empty.Outliers) != 0 {
		t.Error("Expected empty, non-nil outliers")
	}
}

// TestCalculateSeverity tests severity bands
func TestCalculateSeverity(t *testing.T) {
	tests := []struct {
		actual float64
		want   models.Severity
	}{
		{100.0, models.SeverityLow},
		{120.0, models.SeverityMedium},
		{135.0, models.SeverityHigh},
		{150.0, models.SeverityCritical},
	}

	for _, tt := range tests {
		if got := calculateSeverity(tt.actual, 95.0, 10.0); got != tt.want {
			t.Errorf("calculateSeverity(%.0f) = %s, want %s", tt.actual, got, tt.want)
		}
	}
}

// TestCalculateStats tests population mean and standard deviation
func TestCalculateStats(t *testing.T) {
	records := []models.Record{
		createTestRecord(200, "/", 2),
		createTestRecord(200, "/", 4),
		createTestRecord(200, "/", 4),
		createTestRecord(200, "/", 4),
		createTestRecord(200, "/", 5),
		createTestRecord(200, "/", 5),
		createTestRecord(200, "/", 7),
		createTestRecord(200, "/", 9),
	}

	mean, stdDev := calculateStats(records, func(rec models.Record) float64 { return rec.Latency() })
	if mean != 5 || stdDev != 2 {
		t.Errorf("Expected mean 5 and std dev 2, got %f and %f", mean, stdDev)
	}

	mean, stdDev = calculateStats(nil, func(rec models.Record) float64 { return rec.Latency() })
	if mean != 0 || stdDev != 0 {
		t.Errorf("Expected zeros for empty input, got %f and %f", mean, stdDev)
	}
}
