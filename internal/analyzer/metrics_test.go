package analyzer

import (
	"reflect"
	"testing"
	"time"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

func TestMean(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"Empty", nil, 0},
		{"Single", []float64{42}, 42},
		{"Spec", []float64{10, 20, 30}, 20},
		{"Zeros", []float64{0, 0, 30}, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Mean(tc.values); got != tc.want {
				t.Errorf("Expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{50, 10, 40, 20, 30}

	if got := Percentile(values, 50); got != 30 {
		t.Errorf("Expected p50 30, got %f", got)
	}
	if got := Percentile(values, 95); got != 50 {
		t.Errorf("Expected p95 50, got %f", got)
	}
	if got := Percentile(values, 0); got != 10 {
		t.Errorf("Expected p0 10, got %f", got)
	}
	if got := Percentile(nil, 95); got != 0 {
		t.Errorf("Expected 0 for empty input, got %f", got)
	}
	if !reflect.DeepEqual(values, []float64{50, 10, 40, 20, 30}) {
		t.Error("Percentile must not reorder its input")
	}
}

func TestTopMeanLatency(t *testing.T) {
	means := map[string]float64{"/b": 10, "/a": 10, "/c": 99}

	got := TopMeanLatency(means, 0)
	want := []models.KeyLatency{{Key: "/c", Latency: 99}, {Key: "/a", Latency: 10}, {Key: "/b", Latency: 10}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := TopMeanLatency(nil, 10); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

func TestFilterByRange(t *testing.T) {
	records := []models.Record{
		createGraphQLRecord(nil, 1, referenceTime.Add(-time.Hour)),
		createGraphQLRecord(nil, 2, referenceTime.Add(-3*24*time.Hour)),
		createGraphQLRecord(nil, 3, referenceTime.Add(-20*24*time.Hour)),
		createGraphQLRecord(nil, 4, referenceTime.Add(-90*24*time.Hour)),
		models.NewHTTPRecord(&models.HTTPLog{}),
	}

	testCases := []struct {
		rng  TimeRange
		want int
	}{
		{RangeAll, 5},
		{RangeDay, 1},
		{RangeWeek, 2},
		{RangeMonth, 3},
	}

	for _, tc := range testCases {
		t.Run(string(tc.rng), func(t *testing.T) {
			got := FilterByRange(records, tc.rng, referenceTime)
			if len(got) != tc.want {
				t.Errorf("Expected %d records, got %d", tc.want, len(got))
			}
		})
	}

	all := FilterByRange(records, RangeAll, referenceTime)
	all[0] = models.Record{}
	if records[0].Kind != models.KindGraphQL {
		t.Error("FilterByRange must return a fresh slice")
	}
}

func TestParseTimeRange(t *testing.T) {
	if r, err := ParseTimeRange(""); err != nil || r != RangeAll {
		t.Errorf("Expected RangeAll for empty input, got %q (%v)", r, err)
	}
	if r, err := ParseTimeRange("week"); err != nil || r != RangeWeek {
		t.Errorf("Expected RangeWeek, got %q (%v)", r, err)
	}
	if _, err := ParseTimeRange("decade"); err == nil {
		t.Error("Expected error for unknown range")
	}
}
