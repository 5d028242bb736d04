package spec

import "github.com/DjordjeVuckovic/knn-bench/internal/storage"

type BenchSpec struct {
	Cases []Case     `yaml:"cases"`
	Runs  RunsConfig `yaml:"runs"`
}

type Case struct {
	Name      string          `yaml:"name"`
	IndexName string          `yaml:"index_name"`
	DropOld   bool            `yaml:"drop_old"`
	LoadBatch int             `yaml:"load_batch"`
	K         int             `yaml:"k"`
	FilterID  *int64          `yaml:"filter_id,omitempty"`
	Dataset   Dataset         `yaml:"dataset"`
	Index     IndexParameters `yaml:"index"`
}

// Filter returns the id post-filter of the case, nil when unfiltered.
func (c Case) Filter() *storage.Filter {
	if c.FilterID == nil {
		return nil
	}
	return &storage.Filter{ID: *c.FilterID}
}

type Dataset struct {
	Kind    string `yaml:"kind"`
	Path    string `yaml:"path,omitempty"`
	Queries string `yaml:"queries,omitempty"`
	Size    int    `yaml:"size"`
	NumQ    int    `yaml:"num_queries"`
	Dim     int    `yaml:"dim"`
	Seed    int64  `yaml:"seed"`
}

type IndexParameters struct {
	Metric         string `yaml:"metric"`
	Index          string `yaml:"index"`
	ElementType    string `yaml:"element_type"`
	M              *int   `yaml:"m"`
	EFConstruction *int   `yaml:"ef_construction"`
	NumCandidates  *int   `yaml:"num_candidates"`
}

type RunsConfig struct {
	Warmup     int `yaml:"warmup"`
	Iterations int `yaml:"iterations"`
	// Percentiles of search latency to report, each in [0, 100].
	Percentiles []int `yaml:"percentiles,omitempty"`
}

const (
	DatasetSynthetic = "synthetic"
	DatasetFvecs     = "fvecs"
)
