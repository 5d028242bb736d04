package runner

import (
	"math"
	"slices"
	"time"
)

// DefaultPercentiles are reported when a run does not choose its own.
var DefaultPercentiles = []int{50, 90, 95, 99}

// LatencyStats summarizes the per-query round trips of a search phase.
// Queries are issued one after another, so Total is also the wall time spent
// waiting on the engine and QPS follows from it.
type LatencyStats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Median      time.Duration         `json:"median"`
	Stddev      time.Duration         `json:"stddev"`
	Total       time.Duration         `json:"total"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sample_count"`
	Samples     []time.Duration       `json:"-"`
}

// ComputeLatencyStats summarizes search samples at the given percentiles,
// DefaultPercentiles when none are passed. Percentiles interpolate linearly
// between the closest ranks.
func ComputeLatencyStats(samples []time.Duration, percentiles ...int) LatencyStats {
	if len(percentiles) == 0 {
		percentiles = DefaultPercentiles
	}

	stats := LatencyStats{
		Percentiles: make(map[int]time.Duration, len(percentiles)),
		SampleCount: len(samples),
		Samples:     samples,
	}
	if len(samples) == 0 {
		return stats
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	for _, d := range sorted {
		stats.Total += d
	}
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Mean = stats.Total / time.Duration(len(sorted))
	stats.Median = atPercentile(sorted, 50)
	stats.Stddev = sampleStddev(sorted, stats.Mean)

	for _, p := range percentiles {
		stats.Percentiles[p] = atPercentile(sorted, p)
	}

	return stats
}

func atPercentile(sorted []time.Duration, p int) time.Duration {
	switch {
	case len(sorted) == 0:
		return 0
	case p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[len(sorted)-1]
	}

	rank := float64(p) / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + time.Duration(frac*float64(sorted[lo+1]-sorted[lo]))
}

func sampleStddev(samples []time.Duration, mean time.Duration) time.Duration {
	if len(samples) < 2 {
		return 0
	}
	var sq float64
	for _, d := range samples {
		diff := float64(d - mean)
		sq += diff * diff
	}
	return time.Duration(math.Sqrt(sq / float64(len(samples)-1)))
}

// MergeLatencyStats pools the samples of several search phases and
// recomputes the statistics at the percentiles of the first input.
func MergeLatencyStats(stats ...LatencyStats) LatencyStats {
	var (
		pooled      []time.Duration
		percentiles []int
	)
	for _, s := range stats {
		pooled = append(pooled, s.Samples...)
		if percentiles == nil {
			for p := range s.Percentiles {
				percentiles = append(percentiles, p)
			}
		}
	}
	slices.Sort(percentiles)

	return ComputeLatencyStats(pooled, percentiles...)
}

// QPS is the serial query throughput implied by the samples.
func (s LatencyStats) QPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.SampleCount) / s.Total.Seconds()
}

func (s LatencyStats) P50() time.Duration { return s.Percentiles[50] }
func (s LatencyStats) P95() time.Duration { return s.Percentiles[95] }
func (s LatencyStats) P99() time.Duration { return s.Percentiles[99] }

func (s LatencyStats) IsZero() bool {
	return s.SampleCount == 0
}
