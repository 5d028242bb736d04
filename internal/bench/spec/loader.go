package spec

import (
	"fmt"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/knn-bench/internal/apperr"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	DefaultK         = 100
	DefaultLoadBatch = 10000
	DefaultIndexName = "vdb_bench_index"
)

func LoadFromFile(path string) (*BenchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*BenchSpec, error) {
	var s BenchSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validElementTypes = map[string]bool{
	"":      true,
	"float": true,
	"byte":  true,
}

func validate(s *BenchSpec) error {
	if len(s.Cases) == 0 {
		return apperr.NewValidation("spec has no cases")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Name == "" {
			return apperr.NewValidation(fmt.Sprintf("case at index %d has no name", i))
		}
		if seen[c.Name] {
			return apperr.NewValidation(fmt.Sprintf("duplicate case name %q", c.Name))
		}
		seen[c.Name] = true

		if err := validateDataset(c.Name, &c.Dataset); err != nil {
			return err
		}
		if _, err := storage.ParseMetricType(c.Index.Metric); err != nil {
			return apperr.NewValidationWrap(fmt.Sprintf("case %q", c.Name), err)
		}
		if !validElementTypes[strings.ToLower(c.Index.ElementType)] {
			return apperr.NewValidation(fmt.Sprintf("case %q has invalid element type %q", c.Name, c.Index.ElementType))
		}
		if c.IndexName == "" {
			c.IndexName = DefaultIndexName
		}
		if c.IndexName != strings.ToLower(c.IndexName) {
			return apperr.NewValidation(fmt.Sprintf("case %q index name %q must be lowercase", c.Name, c.IndexName))
		}
		if c.K <= 0 {
			c.K = DefaultK
		}
		if c.LoadBatch <= 0 {
			c.LoadBatch = DefaultLoadBatch
		}
	}

	if s.Runs.Iterations <= 0 {
		s.Runs.Iterations = 1
	}
	if s.Runs.Warmup < 0 {
		s.Runs.Warmup = 0
	}
	for _, p := range s.Runs.Percentiles {
		if p < 0 || p > 100 {
			return apperr.NewValidation(fmt.Sprintf("latency percentile %d out of range [0, 100]", p))
		}
	}
	return nil
}

func validateDataset(caseName string, d *Dataset) error {
	switch d.Kind {
	case DatasetSynthetic:
		if d.Size <= 0 || d.Dim <= 0 {
			return apperr.NewValidation(fmt.Sprintf("case %q: synthetic dataset needs positive size and dim", caseName))
		}
		if d.NumQ <= 0 {
			d.NumQ = 100
		}
	case DatasetFvecs:
		if d.Path == "" || d.Queries == "" {
			return apperr.NewValidation(fmt.Sprintf("case %q: fvecs dataset needs path and queries", caseName))
		}
	default:
		return apperr.NewValidation(fmt.Sprintf("case %q has invalid dataset kind %q", caseName, d.Kind))
	}
	return nil
}
