package main

import (
	"context"
	"strings"

	"github.com/DjordjeVuckovic/knn-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage/opensearch"
)

func indexConfigFor(c spec.Case) (opensearch.IndexConfig, error) {
	metric, err := storage.ParseMetricType(c.Index.Metric)
	if err != nil {
		return opensearch.IndexConfig{}, err
	}

	cfg := opensearch.DefaultIndexConfig()
	cfg.Metric = metric
	cfg.M = c.Index.M
	cfg.EFConstruction = c.Index.EFConstruction
	cfg.NumCandidates = c.Index.NumCandidates
	if c.Index.Index != "" {
		cfg.Index = storage.IndexType(strings.ToLower(c.Index.Index))
	}
	if c.Index.ElementType != "" {
		cfg.ElementType = opensearch.ElementType(strings.ToLower(c.Index.ElementType))
	}
	return cfg, nil
}

func clientOptionsFor(c spec.Case, cli cliConfig) []opensearch.Option {
	opts := []opensearch.Option{
		opensearch.WithIndexName(c.IndexName),
		opensearch.WithDropOld(c.DropOld),
	}
	if cli.BulkSize > 0 {
		opts = append(opts, opensearch.WithBulkSize(cli.BulkSize))
	}
	if cli.PollInterval > 0 {
		opts = append(opts, opensearch.WithPollInterval(cli.PollInterval))
	}
	return opts
}

func newOpenSearchFactory(clientCfg opensearch.ClientConfig, cli cliConfig) runner.AdapterFactory {
	return func(ctx context.Context, c spec.Case, dim int) (storage.VectorDB, error) {
		idxCfg, err := indexConfigFor(c)
		if err != nil {
			return nil, err
		}
		return opensearch.New(ctx, dim, clientCfg, idxCfg, clientOptionsFor(c, cli)...)
	}
}
