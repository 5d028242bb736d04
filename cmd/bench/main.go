package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/DjordjeVuckovic/knn-bench/internal/apperr"
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/knn-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage/opensearch"
	"github.com/DjordjeVuckovic/knn-bench/pkg/config/env"
)

const version = "0.1.0"

func main() {
	cfg := parseFlags()

	lvl, err := cfg.slogLevel()
	if err != nil {
		slog.Error("Invalid flags", "error", err)
		os.Exit(apperr.ExitInvalidArgs)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	if err := env.LoadDotEnv(cfg.Env, cfg.EnvPath); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(apperr.ExitFailure)
	}

	clientCfg, err := opensearch.LoadEnv()
	if err != nil {
		slog.Error("Failed to load OpenSearch config", "error", err)
		os.Exit(apperr.ExitInvalidArgs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case "bench":
		err = runBench(ctx, cfg, clientCfg)
	case "check":
		err = opensearch.Check(ctx, clientCfg)
		if err == nil {
			slog.Info("Cluster is reachable", "hosts", strings.Join(clientCfg.Options().Addresses(), ","))
		}
	default:
		slog.Error("Unknown mode", "mode", cfg.Mode)
		os.Exit(apperr.ExitInvalidArgs)
	}

	if code := apperr.Report(err); code != apperr.ExitOK {
		os.Exit(code)
	}
}

func runBench(ctx context.Context, cfg cliConfig, clientCfg opensearch.ClientConfig) error {
	bs, err := spec.LoadFromFile(cfg.SpecPath)
	if err != nil {
		return err
	}

	runCfg := runner.Config{
		WarmupRuns:  bs.Runs.Warmup,
		Runs:        bs.Runs.Iterations,
		Percentiles: bs.Runs.Percentiles,
	}
	if cfg.Warmup >= 0 {
		runCfg.WarmupRuns = cfg.Warmup
	}
	if cfg.Runs > 0 {
		runCfg.Runs = cfg.Runs
	}

	slog.Info("Starting benchmark", "spec", cfg.SpecPath, "cases", len(bs.Cases), "warmup", runCfg.WarmupRuns, "runs", runCfg.Runs)

	r := runner.New(runCfg, newOpenSearchFactory(clientCfg, cfg))
	result, err := r.RunAll(ctx, bs)
	if err != nil {
		return err
	}

	engine := report.EngineInfo{
		Type:       "opensearch",
		Connection: strings.Join(clientCfg.Options().Addresses(), ","),
	}
	return outputReport(result, report.NewMeta(version, engine), cfg.Output)
}

func outputReport(result *runner.BenchmarkResult, meta report.BenchMeta, outputPath string) error {
	rpt := report.Generate(result, meta)
	report.WriteTable(rpt, os.Stdout)

	if outputPath != "" {
		if err := report.WriteJSON(rpt, outputPath); err != nil {
			return err
		}
		slog.Info("Report written", "path", outputPath)
	}
	return nil
}
