package models

import (
	"time"
)

// Summary represents the metrics derived from one record set
type Summary struct {
	GeneratedAt    time.Time `json:"generated_at"`
	TotalRecords   int       `json:"total_records"`
	HTTPRecords    int       `json:"http_records"`
	GraphQLRecords int       `json:"graphql_records"`
	MeanLatency    float64   `json:"mean_latency"`
	P95Latency     float64   `json:"p95_latency"`
	UniqueKeys     int       `json:"unique_keys"`
	SuccessRate    float64   `json:"success_rate"`

	CountsByKey        map[string]int       `json:"counts_by_key"`
	LatenciesByKey     map[string][]float64 `json:"-"`
	MeanLatencyByKey   map[string]float64   `json:"mean_latency_by_key"`
	KindByKey          map[string]Kind      `json:"kind_by_key"`
	MethodDistribution map[string]int       `json:"method_distribution"`
	StatusDistribution map[int]int          `json:"status_distribution"`
	UserAgents         map[string]int       `json:"user_agents"`
	ClientIPs          map[string]int       `json:"client_ips"`

	TopKeys    []KeyCount      `json:"top_keys"`
	TopLatency []KeyLatency    `json:"top_latency"`
	Timeline   []TimelinePoint `json:"timeline"`
	Outliers   []Outlier       `json:"outliers"`
}

// KeyCount represents request count per grouping key
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// KeyLatency represents mean latency per grouping key
type KeyLatency struct {
	Key     string  `json:"key"`
	Latency float64 `json:"latency"`
}

// TimelinePoint is one entry of the recent-activity window
type TimelinePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Key       string    `json:"key"`
	Latency   float64   `json:"latency"`
	Label     string    `json:"label"`
}
