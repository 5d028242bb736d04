package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/knn-bench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
)

const (
	PhaseDataset  = "dataset"
	PhaseConnect  = "connect"
	PhaseLoad     = "load"
	PhaseOptimize = "optimize"
	PhaseSearch   = "search"
)

// AdapterFactory constructs the vector database under test for one case.
type AdapterFactory func(ctx context.Context, c spec.Case, dim int) (storage.VectorDB, error)

type DatasetLoader func(d spec.Dataset, metric storage.MetricType) (*dataset.Dataset, error)

type Runner struct {
	config  Config
	factory AdapterFactory
	loader  DatasetLoader
}

func New(cfg Config, factory AdapterFactory) *Runner {
	return &Runner{
		config:  cfg,
		factory: factory,
		loader:  dataset.Load,
	}
}

// WithDatasetLoader replaces how case datasets are materialized.
func (r *Runner) WithDatasetLoader(l DatasetLoader) *Runner {
	r.loader = l
	return r
}

// RunAll runs every case in order. A failing case is recorded and the run
// moves on; only context cancellation aborts it.
func (r *Runner) RunAll(ctx context.Context, bs *spec.BenchSpec) (*BenchmarkResult, error) {
	br := &BenchmarkResult{Config: r.config}

	for _, c := range bs.Cases {
		if err := ctx.Err(); err != nil {
			return br, err
		}

		res := r.RunCase(ctx, c)
		if res.Failed() {
			slog.Warn("case failed", "case", c.Name, "phase", res.Phase, "error", res.Error)
		} else {
			slog.Info("case finished",
				"case", c.Name,
				"inserted", res.Inserted,
				"recall", res.Scores.Recall,
				"qps", res.QPS,
				"p99", res.Latency.P99(),
			)
		}
		br.Cases = append(br.Cases, res)
	}

	return br, nil
}

func (r *Runner) RunCase(ctx context.Context, c spec.Case) CaseResult {
	res := CaseResult{
		CaseName:  c.Name,
		IndexName: c.IndexName,
		K:         c.K,
		Filtered:  c.FilterID != nil,
	}

	fail := func(phase string, err error) CaseResult {
		res.Phase = phase
		res.Error = err
		return res
	}

	metric, err := storage.ParseMetricType(c.Index.Metric)
	if err != nil {
		return fail(PhaseDataset, err)
	}
	res.Metric = string(metric)
	if metric == "" {
		res.Metric = string(storage.COSINE)
	}

	ds, err := r.loader(c.Dataset, metric)
	if err != nil {
		return fail(PhaseDataset, fmt.Errorf("load dataset: %w", err))
	}
	res.Dataset = ds.Name
	res.Dim = ds.Dim

	truth := dataset.GroundTruth(ds, metric, c.K, c.Filter())

	db, err := r.factory(ctx, c, ds.Dim)
	if err != nil {
		return fail(PhaseConnect, err)
	}

	start := time.Now()
	err = storage.WithSession(ctx, db, func(ctx context.Context) error {
		n, err := load(ctx, db, ds, c.LoadBatch)
		res.Inserted = n
		return err
	})
	res.LoadDuration = time.Since(start)
	if err != nil {
		return fail(PhaseLoad, err)
	}
	slog.Info("load finished", "case", c.Name, "inserted", res.Inserted, "took", res.LoadDuration)

	start = time.Now()
	err = storage.WithSession(ctx, db, db.Optimize)
	res.OptimizeDuration = time.Since(start)
	if err != nil {
		return fail(PhaseOptimize, err)
	}
	slog.Info("optimize finished", "case", c.Name, "took", res.OptimizeDuration)

	var out searchOutcome
	err = storage.WithSession(ctx, db, func(ctx context.Context) error {
		var err error
		out, err = r.search(ctx, db, ds.Queries, c.K, c.Filter())
		return err
	})
	if err != nil {
		return fail(PhaseSearch, err)
	}

	res.Latency = ComputeLatencyStats(out.latencies, r.config.Percentiles...)
	res.SearchDuration = res.Latency.Total
	res.QPS = res.Latency.QPS()

	scores := make([]metrics.ScoreSet, len(out.results))
	for i, got := range out.results {
		scores[i] = metrics.ComputeAll(got, truth[i], c.K)
	}
	res.Scores = metrics.Mean(scores)

	return res
}

func load(ctx context.Context, db storage.VectorDB, ds *dataset.Dataset, batchSize int) (int, error) {
	if err := db.ReadyToLoad(ctx); err != nil {
		return 0, fmt.Errorf("ready to load: %w", err)
	}

	var inserted int
	for _, b := range ds.Batches(batchSize) {
		n, err := db.InsertEmbeddings(ctx, b.Vectors, b.IDs)
		if err != nil {
			return inserted, fmt.Errorf("insert embeddings: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

type searchOutcome struct {
	// results of the last measured pass, one per query
	results   [][]int64
	latencies []time.Duration
}

func (r *Runner) search(
	ctx context.Context,
	db storage.VectorDB,
	queries [][]float32,
	k int,
	filter *storage.Filter,
) (searchOutcome, error) {
	if failed, err := r.warmup(ctx, db, queries, k, filter); err != nil {
		slog.Warn("warmup searches failed", "failed", failed, "first_error", err)
	}

	runs := max(r.config.Runs, 1)
	out := searchOutcome{
		results:   make([][]int64, len(queries)),
		latencies: make([]time.Duration, 0, runs*len(queries)),
	}

	for run := 0; run < runs; run++ {
		for i, q := range queries {
			if err := ctx.Err(); err != nil {
				return out, err
			}

			start := time.Now()
			ids, err := db.SearchEmbedding(ctx, q, k, filter)
			took := time.Since(start)
			if err != nil {
				return out, fmt.Errorf("search query %d: %w", i, err)
			}

			out.latencies = append(out.latencies, took)
			out.results[i] = ids
		}
	}

	return out, nil
}

// warmup issues unmeasured passes over the query set. Failures do not stop
// it; it reports how many searches failed and the first error seen.
func (r *Runner) warmup(
	ctx context.Context,
	db storage.VectorDB,
	queries [][]float32,
	k int,
	filter *storage.Filter,
) (int, error) {
	var (
		failed int
		first  error
	)
	for i := 0; i < r.config.WarmupRuns; i++ {
		for _, q := range queries {
			if _, err := db.SearchEmbedding(ctx, q, k, filter); err != nil {
				if first == nil {
					first = err
				}
				failed++
			}
		}
	}
	return failed, first
}
