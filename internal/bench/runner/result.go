package runner

import (
	"time"

	"github.com/DjordjeVuckovic/knn-bench/internal/bench/metrics"
)

type CaseResult struct {
	CaseName  string
	IndexName string
	Dataset   string
	Metric    string
	Dim       int
	K         int
	Filtered  bool

	Inserted         int
	LoadDuration     time.Duration
	OptimizeDuration time.Duration
	SearchDuration   time.Duration
	QPS              float64

	Scores  metrics.ScoreSet
	Latency LatencyStats

	// Phase is where a failed case stopped.
	Phase string
	Error error
}

func (r CaseResult) Failed() bool { return r.Error != nil }

type BenchmarkResult struct {
	Cases  []CaseResult
	Config Config
}

func (br *BenchmarkResult) Failed() int {
	var n int
	for _, c := range br.Cases {
		if c.Failed() {
			n++
		}
	}
	return n
}
