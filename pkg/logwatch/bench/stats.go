package bench

import (
	"sort"
	"time"
)

// Stats summarizes the latency distribution of one run. All latency values
// are milliseconds over successful requests only.
type Stats struct {
	Throughput float64 // successful requests per second
	Avg        float64
	Min        float64
	Max        float64
	P50        float64
	P95        float64
	P99        float64
}

// ComputeStats derives summary statistics from per-request latencies.
func ComputeStats(latencies []float64, successful int, elapsed time.Duration) Stats {
	var s Stats

	if elapsed > 0 {
		s.Throughput = float64(successful) / elapsed.Seconds()
	}

	if len(latencies) == 0 {
		return s
	}

	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Avg = sum / float64(len(sorted))
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P50 = sorted[len(sorted)/2]
	s.P95 = sorted[percentileIndex(len(sorted), 0.95)]
	s.P99 = sorted[percentileIndex(len(sorted), 0.99)]

	return s
}

func percentileIndex(n int, p float64) int {
	i := int(float64(n) * p)
	if i >= n {
		i = n - 1
	}
	return i
}
