package report

import (
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/knn-bench/pkg/utils"
)

func Generate(br *runner.BenchmarkResult, meta BenchMeta) *Report {
	r := &Report{
		Meta: meta,
		Config: ReportConfig{
			WarmupRuns:  br.Config.WarmupRuns,
			Runs:        br.Config.Runs,
			Percentiles: br.Config.Percentiles,
		},
		Cases: make([]CaseReport, 0, len(br.Cases)),
	}

	for _, cr := range br.Cases {
		r.Cases = append(r.Cases, caseReport(cr))
	}
	r.Summary = summarize(br)

	return r
}

func caseReport(cr runner.CaseResult) CaseReport {
	entry := CaseReport{
		Name:         cr.CaseName,
		IndexName:    cr.IndexName,
		Dataset:      cr.Dataset,
		Metric:       cr.Metric,
		Dim:          cr.Dim,
		K:            cr.K,
		Filtered:     cr.Filtered,
		Inserted:     cr.Inserted,
		LoadTime:     Duration(cr.LoadDuration),
		OptimizeTime: Duration(cr.OptimizeDuration),
		QPS:          utils.RoundDecimal(cr.QPS, 2),
		Recall:       utils.RoundDecimal(cr.Scores.Recall, 4),
		NDCG:         utils.RoundDecimal(cr.Scores.NDCG, 4),
		MRR:          utils.RoundDecimal(cr.Scores.RR, 4),
		Latency:      fromRunnerLatencyStats(cr.Latency),
	}
	if cr.Error != nil {
		entry.FailedPhase = cr.Phase
		entry.Error = cr.Error.Error()
	}
	return entry
}

// summarize averages recall over successful cases and pools their latency samples.
func summarize(br *runner.BenchmarkResult) Summary {
	s := Summary{CaseCount: len(br.Cases)}

	var (
		stats  []runner.LatencyStats
		recall float64
	)
	for _, cr := range br.Cases {
		if cr.Failed() {
			s.FailedCount++
			continue
		}
		recall += cr.Scores.Recall
		stats = append(stats, cr.Latency)
	}

	if n := len(stats); n > 0 {
		s.MeanRecall = utils.RoundDecimal(recall/float64(n), 4)
	}
	s.Latency = fromRunnerLatencyStats(runner.MergeLatencyStats(stats...))

	return s
}
