package analyzer

import (
	"math"
	"sort"

	"github.com/justin4957/logflow-api-analytics/internal/config"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

const (
	defaultOutlierSensitivity = 2.0
	defaultOutlierMinSamples  = 10
)

// OutlierDetector flags requests that are much slower than the other
// requests to the same endpoint or operation
type OutlierDetector struct {
	sensitivity float64
	minSamples  int
	fallbackKey string
}

// NewOutlierDetector creates a detector, filling zero settings with defaults
func NewOutlierDetector(cfg config.AnalyticsConfig) *OutlierDetector {
	d := &OutlierDetector{
		sensitivity: cfg.OutlierSensitivity,
		minSamples:  cfg.OutlierMinSamples,
		fallbackKey: cfg.FallbackKey,
	}
	if d.sensitivity <= 0 {
		d.sensitivity = defaultOutlierSensitivity
	}
	if d.minSamples <= 0 {
		d.minSamples = defaultOutlierMinSamples
	}
	if d.fallbackKey == "" {
		d.fallbackKey = defaultFallbackKey
	}
	return d
}

// Detect compares each record against the latency mean and standard
// deviation of its grouping key. Keys with fewer than the minimum number
// of samples have no baseline and are skipped. Results are ordered by
// deviation in standard deviations, largest first.
func (d *OutlierDetector) Detect(records []models.Record) []models.Outlier {
	groups := make(map[string][]models.Record)
	for _, rec := range records {
		key := rec.GroupKey(d.fallbackKey)
		groups[key] = append(groups[key], rec)
	}

	outliers := []models.Outlier{}
	for key, group := range groups {
		if len(group) < d.minSamples {
			continue // Not enough data for baseline
		}

		mean, stdDev := calculateStats(group, func(rec models.Record) float64 {
			return rec.Latency()
		})
		if stdDev == 0 {
			continue
		}

		for _, rec := range group {
			latency := rec.Latency()
			if latency <= mean+d.sensitivity*stdDev {
				continue
			}

			ts, _ := rec.Timestamp()
			outliers = append(outliers, models.Outlier{
				RecordID:        rec.ID(),
				Kind:            rec.Kind,
				Key:             key,
				Timestamp:       ts,
				Severity:        calculateSeverity(latency, mean, stdDev),
				Latency:         latency,
				ExpectedLatency: mean,
				Deviation:       latency - mean,
				StdDev:          stdDev,
			})
		}
	}

	sort.Slice(outliers, func(i, j int) bool {
		zi := outliers[i].Deviation / outliers[i].StdDev
		zj := outliers[j].Deviation / outliers[j].StdDev
		if zi != zj {
			return zi > zj
		}
		if outliers[i].Key != outliers[j].Key {
			return outliers[i].Key < outliers[j].Key
		}
		if outliers[i].RecordID != outliers[j].RecordID {
			return outliers[i].RecordID < outliers[j].RecordID
		}
		return outliers[i].Timestamp.Before(outliers[j].Timestamp)
	})

	return outliers
}

// Helper functions
func calculateStats(records []models.Record, getValue func(models.Record) float64) (mean, stdDev float64) {
	if len(records) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, rec := range records {
		sum += getValue(rec)
	}
	mean = sum / float64(len(records))

	variance := 0.0
	for _, rec := range records {
		diff := getValue(rec) - mean
		variance += diff * diff
	}
	stdDev = math.Sqrt(variance / float64(len(records)))

	return mean, stdDev
}

func calculateSeverity(actual, expected, stdDev float64) models.Severity {
	deviation := math.Abs(actual - expected)
	if deviation > 4*stdDev {
		return models.SeverityCritical
	} else if deviation > 3*stdDev {
		return models.SeverityHigh
	} else if deviation > 2*stdDev {
		return models.SeverityMedium
	}
	return models.SeverityLow
}
