package analyzer

import (
	"math"
	"sort"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percentile returns the nearest-rank p-th percentile (0 < p <= 100), or 0
// for an empty slice. values is not reordered.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// TopKeys ranks keys by count descending, ties broken by key ascending.
// limit <= 0 returns every key.
func TopKeys(counts map[string]int, limit int) []models.KeyCount {
	if len(counts) == 0 {
		return nil
	}

	// Pre-allocate slice with exact capacity needed
	sorted := make([]models.KeyCount, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, models.KeyCount{Key: k, Count: v})
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Key < sorted[j].Key
	})

	return sorted[:resultSize(len(sorted), limit)]
}

// TopMeanLatency ranks keys by mean latency descending, ties broken by key
// ascending. limit <= 0 returns every key.
func TopMeanLatency(means map[string]float64, limit int) []models.KeyLatency {
	if len(means) == 0 {
		return nil
	}

	sorted := make([]models.KeyLatency, 0, len(means))
	for k, v := range means {
		sorted = append(sorted, models.KeyLatency{Key: k, Latency: v})
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Latency != sorted[j].Latency {
			return sorted[i].Latency > sorted[j].Latency
		}
		return sorted[i].Key < sorted[j].Key
	})

	return sorted[:resultSize(len(sorted), limit)]
}

func resultSize(n, limit int) int {
	if limit <= 0 || n < limit {
		return n
	}
	return limit
}
