package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type cliConfig struct {
	Mode         string
	SpecPath     string
	Output       string
	Env          string
	EnvPath      string
	LogLevel     string
	Warmup       int
	Runs         int
	BulkSize     int
	PollInterval time.Duration
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Mode, "mode", "bench", "Run mode: bench or check")
	flag.StringVar(&cfg.SpecPath, "spec", "configs/bench/knn.yaml", "Path to bench spec YAML")
	flag.StringVar(&cfg.Output, "output", "", "Output path for the JSON report")
	flag.StringVar(&cfg.Env, "env", "local", "Environment name; .env is mandatory only for local")
	flag.StringVar(&cfg.EnvPath, "env-file", ".env", "Default .env path when ENV_PATH is not set")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.IntVar(&cfg.Warmup, "warmup", -1, "Warmup passes over the query set; overrides the spec when >= 0")
	flag.IntVar(&cfg.Runs, "runs", 0, "Measured passes over the query set; overrides the spec when > 0")
	flag.IntVar(&cfg.BulkSize, "bulk-size", 0, "Documents per bulk request (default 1000)")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", 0, "Force merge task poll interval (default 30s)")

	flag.Parse()
	return cfg
}

func (c cliConfig) slogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
