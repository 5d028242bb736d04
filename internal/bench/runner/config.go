package runner

const (
	DefaultWarmupRuns = 0
	DefaultRuns       = 1
)

type Config struct {
	// WarmupRuns passes over the query set are issued before measuring.
	WarmupRuns int
	// Runs measured passes over the query set.
	Runs int
	// Percentiles of search latency to report; DefaultPercentiles when empty.
	Percentiles []int
}

func DefaultConfig() Config {
	return Config{
		WarmupRuns:  DefaultWarmupRuns,
		Runs:        DefaultRuns,
		Percentiles: DefaultPercentiles,
	}
}
