package models

import (
	"time"
)

// Outlier is a request whose latency deviates strongly from the other
// requests to the same endpoint or operation
type Outlier struct {
	RecordID        string    `json:"record_id"`
	Kind            Kind      `json:"kind"`
	Key             string    `json:"key"`
	Timestamp       time.Time `json:"timestamp"`
	Severity        Severity  `json:"severity"`
	Latency         float64   `json:"latency"`
	ExpectedLatency float64   `json:"expected_latency"`
	Deviation       float64   `json:"deviation"`
	StdDev          float64   `json:"std_dev"`
}

// Severity represents outlier severity
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)
