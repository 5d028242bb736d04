package dataset

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/DjordjeVuckovic/knn-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
)

// Dataset is an in-memory train/query split. IDs[i] identifies Train[i].
type Dataset struct {
	Name    string
	Dim     int
	Train   [][]float32
	IDs     []int64
	Queries [][]float32
}

func (d *Dataset) Size() int { return len(d.Train) }

// Load builds the dataset described by a case. Vectors are normalized when
// the metric compares directions (cosine, the default, and inner product).
func Load(d spec.Dataset, metric storage.MetricType) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)

	switch d.Kind {
	case spec.DatasetSynthetic:
		ds = Synthetic(d.Size, d.NumQ, d.Dim, d.Seed)
	case spec.DatasetFvecs:
		ds, err = LoadFvecs(d.Path, d.Queries)
	default:
		return nil, fmt.Errorf("unsupported dataset kind %q", d.Kind)
	}
	if err != nil {
		return nil, err
	}

	if metric != storage.L2 {
		normalizeAll(ds.Train)
		normalizeAll(ds.Queries)
	}

	slog.Info("Dataset loaded", "name", ds.Name, "size", ds.Size(), "queries", len(ds.Queries), "dim", ds.Dim)
	return ds, nil
}

// Batches splits the train set into consecutive chunks of at most size entries.
func (d *Dataset) Batches(size int) []Batch {
	if size <= 0 {
		size = len(d.Train)
	}

	var batches []Batch
	for start := 0; start < len(d.Train); start += size {
		end := min(start+size, len(d.Train))
		batches = append(batches, Batch{
			Vectors: d.Train[start:end],
			IDs:     d.IDs[start:end],
		})
	}
	return batches
}

type Batch struct {
	Vectors [][]float32
	IDs     []int64
}

func sequentialIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}
	return ids
}

func normalizeAll(vectors [][]float32) {
	for _, v := range vectors {
		normalize(v)
	}
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
