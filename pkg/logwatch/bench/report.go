package bench

import (
	"fmt"
	"io"
	"strings"
)

const reportRule = 60

// WriteReport renders a human-readable run summary to w. threshold is the
// required throughput in requests per second; zero disables the check.
func WriteReport(w io.Writer, result *Result, threshold float64) {
	rule := strings.Repeat("=", reportRule)

	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "BENCHMARK RESULTS: %s\n", result.Scenario.Name)
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "Run ID:              %s\n", result.RunID)
	fmt.Fprintf(w, "Total time:          %.2f seconds\n", result.Elapsed.Seconds())
	fmt.Fprintf(w, "Successful requests: %d\n", result.Successful)
	fmt.Fprintf(w, "Failed requests:     %d\n", result.Failed)
	fmt.Fprintf(w, "\nThroughput: %.2f requests/second\n", result.Stats.Throughput)

	if result.Successful > 0 {
		fmt.Fprintf(w, "\nResponse times (ms):\n")
		fmt.Fprintf(w, "  Average: %.2f\n", result.Stats.Avg)
		fmt.Fprintf(w, "  Min:     %.2f\n", result.Stats.Min)
		fmt.Fprintf(w, "  Max:     %.2f\n", result.Stats.Max)
		fmt.Fprintf(w, "  P50:     %.2f\n", result.Stats.P50)
		fmt.Fprintf(w, "  P95:     %.2f\n", result.Stats.P95)
		fmt.Fprintf(w, "  P99:     %.2f\n", result.Stats.P99)
	}

	if threshold > 0 {
		fmt.Fprintf(w, "\nRequirement (%.0f req/s): ", threshold)
		if result.Stats.Throughput >= threshold {
			margin := (result.Stats.Throughput - threshold) / threshold * 100
			fmt.Fprintf(w, "PASS\n")
			fmt.Fprintf(w, "  Achieved: %.2f req/s (+%.1f%%)\n", result.Stats.Throughput, margin)
		} else {
			fmt.Fprintf(w, "FAIL\n")
			fmt.Fprintf(w, "  Current: %.2f req/s\n", result.Stats.Throughput)
			fmt.Fprintf(w, "  Gap:     %.2f req/s\n", threshold-result.Stats.Throughput)
		}
	}

	fmt.Fprintf(w, "%s\n", rule)
}
