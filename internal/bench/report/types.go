package report

import (
	"runtime"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/knn-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/knn-bench/pkg/utils"
	"github.com/google/uuid"
)

type Report struct {
	Meta    BenchMeta    `json:"meta"`
	Config  ReportConfig `json:"config"`
	Summary Summary      `json:"summary"`
	Cases   []CaseReport `json:"cases"`
}

type BenchMeta struct {
	RunID       string          `json:"run_id"`
	Version     string          `json:"version"`
	Timestamp   time.Time       `json:"timestamp"`
	Engine      EngineInfo      `json:"engine"`
	Environment EnvironmentInfo `json:"environment"`
}

type EngineInfo struct {
	Type       string `json:"type"`
	Connection string `json:"connection"`
	Version    string `json:"version,omitempty"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// NewMeta stamps a fresh run id and the current environment.
func NewMeta(version string, engine EngineInfo) BenchMeta {
	return BenchMeta{
		RunID:       uuid.NewString(),
		Version:     version,
		Timestamp:   time.Now().UTC(),
		Engine:      engine,
		Environment: NewEnvironmentInfo(),
	}
}

type ReportConfig struct {
	WarmupRuns  int   `json:"warmup_runs"`
	Runs        int   `json:"runs"`
	Percentiles []int `json:"percentiles,omitempty"`
}

type CaseReport struct {
	Name      string `json:"name"`
	IndexName string `json:"index_name"`
	Dataset   string `json:"dataset"`
	Metric    string `json:"metric"`
	Dim       int    `json:"dim"`
	K         int    `json:"k"`
	Filtered  bool   `json:"filtered"`

	Inserted     int          `json:"inserted"`
	LoadTime     Duration     `json:"load_time"`
	OptimizeTime Duration     `json:"optimize_time"`
	QPS          float64      `json:"qps"`
	Recall       float64      `json:"recall"`
	NDCG         float64      `json:"ndcg"`
	MRR          float64      `json:"mrr"`
	Latency      LatencyStats `json:"latency"`

	FailedPhase string `json:"failed_phase,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Summary struct {
	CaseCount   int          `json:"case_count"`
	FailedCount int          `json:"failed_count"`
	MeanRecall  float64      `json:"mean_recall"`
	Latency     LatencyStats `json:"latency"`
}

type LatencyStats struct {
	Min         Duration         `json:"min"`
	Max         Duration         `json:"max"`
	Mean        Duration         `json:"mean"`
	Median      Duration         `json:"median"`
	Stddev      Duration         `json:"stddev"`
	Percentiles map[int]Duration `json:"percentiles"`
	SampleCount int              `json:"sample_count"`
}

func fromRunnerLatencyStats(s runner.LatencyStats) LatencyStats {
	pcts := make(map[int]Duration, len(s.Percentiles))
	for p, d := range s.Percentiles {
		pcts[p] = Duration(d)
	}
	return LatencyStats{
		Min:         Duration(s.Min),
		Max:         Duration(s.Max),
		Mean:        Duration(s.Mean),
		Median:      Duration(s.Median),
		Stddev:      Duration(s.Stddev),
		Percentiles: pcts,
		SampleCount: s.SampleCount,
	}
}

func (s LatencyStats) P50() time.Duration { return time.Duration(s.Percentiles[50]) }
func (s LatencyStats) P95() time.Duration { return time.Duration(s.Percentiles[95]) }
func (s LatencyStats) P99() time.Duration { return time.Duration(s.Percentiles[99]) }

// Duration marshals as fractional milliseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	ms := float64(d) / float64(time.Millisecond)
	return []byte(strconv.FormatFloat(utils.RoundDecimal(ms, 3), 'f', -1, 64)), nil
}
