package analyzer

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/justin4957/logflow-api-analytics/internal/config"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

const (
	defaultFallbackKey    = "unknown"
	defaultTimelineWindow = 20
	defaultTopN           = 10
)

// Aggregator derives summary metrics from a complete record set.
// It holds only settings; every call rebuilds its output from scratch.
type Aggregator struct {
	fallbackKey    string
	timelineWindow int
	topN           int
	detector       *OutlierDetector
}

// NewAggregator creates an aggregator, filling zero settings with defaults
func NewAggregator(cfg config.AnalyticsConfig) *Aggregator {
	a := &Aggregator{
		fallbackKey:    cfg.FallbackKey,
		timelineWindow: cfg.TimelineWindow,
		topN:           cfg.TopN,
		detector:       NewOutlierDetector(cfg),
	}
	if a.fallbackKey == "" {
		a.fallbackKey = defaultFallbackKey
	}
	if a.timelineWindow <= 0 {
		a.timelineWindow = defaultTimelineWindow
	}
	if a.topN <= 0 {
		a.topN = defaultTopN
	}
	return a
}

// FallbackKey is the grouping key used for records without endpoint or operation
func (a *Aggregator) FallbackKey() string {
	return a.fallbackKey
}

// Aggregate computes the summary of records. now is the reference time
// for relative timeline labels; the records are not modified.
func (a *Aggregator) Aggregate(records []models.Record, now time.Time) *models.Summary {
	summary := &models.Summary{
		GeneratedAt:        now,
		TotalRecords:       len(records),
		CountsByKey:        make(map[string]int),
		LatenciesByKey:     make(map[string][]float64),
		MeanLatencyByKey:   make(map[string]float64),
		KindByKey:          make(map[string]models.Kind),
		MethodDistribution: make(map[string]int),
		StatusDistribution: make(map[int]int),
		UserAgents:         make(map[string]int),
		ClientIPs:          make(map[string]int),
		Timeline:           []models.TimelinePoint{},
		Outliers:           []models.Outlier{},
	}

	all := make([]float64, 0, len(records))
	successes := 0

	for _, rec := range records {
		key := rec.GroupKey(a.fallbackKey)
		latency := rec.Latency()

		summary.CountsByKey[key]++
		if kind, seen := summary.KindByKey[key]; !seen {
			summary.KindByKey[key] = rec.Kind
		} else if kind != rec.Kind {
			// Mixed units under one key
			summary.KindByKey[key] = ""
		}
		summary.LatenciesByKey[key] = append(summary.LatenciesByKey[key], latency)
		all = append(all, latency)

		if ua := rec.UserAgent(); ua != "" {
			summary.UserAgents[ua]++
		}

		switch rec.Kind {
		case models.KindHTTP:
			summary.HTTPRecords++

			method := rec.Method()
			if method == "" {
				method = a.fallbackKey
			}
			summary.MethodDistribution[method]++

			status := rec.StatusCode()
			summary.StatusDistribution[status]++
			if status > 0 && status < 400 {
				successes++
			}

			if ip := rec.ClientIP(); ip != "" {
				summary.ClientIPs[ip]++
			}
		case models.KindGraphQL:
			summary.GraphQLRecords++
		}
	}

	for key, latencies := range summary.LatenciesByKey {
		summary.MeanLatencyByKey[key] = Mean(latencies)
	}

	summary.MeanLatency = Mean(all)
	summary.P95Latency = Percentile(all, 95)
	summary.UniqueKeys = len(summary.CountsByKey)
	if summary.HTTPRecords > 0 {
		summary.SuccessRate = float64(successes) / float64(summary.HTTPRecords)
	}

	summary.TopKeys = TopKeys(summary.CountsByKey, a.topN)
	summary.TopLatency = TopMeanLatency(summary.MeanLatencyByKey, a.topN)
	summary.Timeline = a.timeline(records, now)

	summary.Outliers = a.detector.Detect(records)
	if len(summary.Outliers) > a.topN {
		summary.Outliers = summary.Outliers[:a.topN]
	}

	return summary
}

// timeline sorts records ascending by timestamp and keeps the most recent
// window. Records without a usable timestamp sort first; equal timestamps
// keep input order.
func (a *Aggregator) timeline(records []models.Record, now time.Time) []models.TimelinePoint {
	points := make([]models.TimelinePoint, 0, len(records))
	for _, rec := range records {
		ts, _ := rec.Timestamp()
		points = append(points, models.TimelinePoint{
			Timestamp: ts,
			Kind:      rec.Kind,
			Key:       rec.GroupKey(a.fallbackKey),
			Latency:   rec.Latency(),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	if len(points) > a.timelineWindow {
		points = points[len(points)-a.timelineWindow:]
	}

	for i := range points {
		points[i].Label = relativeLabel(points[i].Timestamp, now)
	}
	return points
}

func relativeLabel(ts, now time.Time) string {
	if ts.IsZero() {
		return "unknown time"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
