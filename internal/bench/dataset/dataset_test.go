package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/knn-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthetic(t *testing.T) {
	a := Synthetic(100, 5, 8, 42)
	b := Synthetic(100, 5, 8, 42)
	c := Synthetic(100, 5, 8, 43)

	assert.Equal(t, 100, a.Size())
	assert.Len(t, a.Queries, 5)
	assert.Equal(t, 8, a.Dim)
	assert.Len(t, a.Train[0], 8)
	assert.Equal(t, int64(0), a.IDs[0])
	assert.Equal(t, int64(99), a.IDs[99])

	assert.Equal(t, a.Train, b.Train, "same seed must reproduce vectors")
	assert.NotEqual(t, a.Train, c.Train)
}

func TestLoad_NormalizesForAngularMetrics(t *testing.T) {
	d := spec.Dataset{Kind: spec.DatasetSynthetic, Size: 20, NumQ: 2, Dim: 16, Seed: 1}

	ds, err := Load(d, storage.COSINE)
	require.NoError(t, err)
	for _, v := range ds.Train {
		assert.InDelta(t, 1.0, math.Sqrt(dot(v, v)), 1e-5)
	}

	ds, err = Load(d, storage.L2)
	require.NoError(t, err)
	assert.Greater(t, math.Abs(math.Sqrt(dot(ds.Train[0], ds.Train[0]))-1), 1e-3)

	_, err = Load(spec.Dataset{Kind: "hdf5"}, storage.L2)
	assert.Error(t, err)
}

func TestBatches(t *testing.T) {
	ds := Synthetic(25, 0, 2, 1)

	batches := ds.Batches(10)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0].Vectors, 10)
	assert.Len(t, batches[2].Vectors, 5)
	assert.Equal(t, int64(20), batches[2].IDs[0])

	assert.Len(t, ds.Batches(0), 1)
	assert.Empty(t, Synthetic(0, 0, 2, 1).Batches(10))
}

func TestFvecsRoundTrip(t *testing.T) {
	vectors := [][]float32{{1, 2, 3}, {-1.5, 0, 7.25}}

	var buf bytes.Buffer
	require.NoError(t, WriteFvecs(&buf, vectors))
	assert.Equal(t, 2*(4+3*4), buf.Len())

	got, err := ReadFvecs(&buf)
	require.NoError(t, err)
	assert.Equal(t, vectors, got)
}

func TestReadFvecs_Errors(t *testing.T) {
	t.Run("truncated body", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteFvecs(&buf, [][]float32{{1, 2, 3}}))
		_, err := ReadFvecs(bytes.NewReader(buf.Bytes()[:buf.Len()-2]))
		assert.Error(t, err)
	})

	t.Run("mixed dimensions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteFvecs(&buf, [][]float32{{1, 2}, {1, 2, 3}}))
		_, err := ReadFvecs(&buf)
		assert.ErrorContains(t, err, "expected 2")
	})

	t.Run("zero dimension", func(t *testing.T) {
		_, err := ReadFvecs(bytes.NewReader([]byte{0, 0, 0, 0}))
		assert.ErrorContains(t, err, "invalid dimension")
	})
}

func TestLoadFvecs(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, vectors [][]float32) string {
		var buf bytes.Buffer
		require.NoError(t, WriteFvecs(&buf, vectors))
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
		return p
	}

	base := write("sift_base.fvecs", [][]float32{{1, 0}, {0, 1}, {1, 1}})
	query := write("sift_query.fvecs", [][]float32{{1, 0}})
	wide := write("wide.fvecs", [][]float32{{1, 0, 0}})

	ds, err := LoadFvecs(base, query)
	require.NoError(t, err)
	assert.Equal(t, "sift_base", ds.Name)
	assert.Equal(t, 2, ds.Dim)
	assert.Equal(t, 3, ds.Size())
	assert.Len(t, ds.Queries, 1)

	_, err = LoadFvecs(base, wide)
	assert.ErrorContains(t, err, "does not match")

	_, err = LoadFvecs(filepath.Join(dir, "missing.fvecs"), query)
	assert.Error(t, err)
}

func TestGroundTruth(t *testing.T) {
	ds := &Dataset{
		Dim: 2,
		Train: [][]float32{
			{0, 0},
			{1, 0},
			{5, 5},
			{0, 2},
			{-1, 0},
		},
		IDs:     []int64{0, 1, 2, 3, 4},
		Queries: [][]float32{{0.9, 0}},
	}

	tests := []struct {
		name   string
		metric storage.MetricType
		k      int
		filter *storage.Filter
		want   []int64
	}{
		{name: "l2", metric: storage.L2, k: 3, want: []int64{1, 0, 4}},
		{name: "l2 filtered", metric: storage.L2, k: 2, filter: &storage.Filter{ID: 1}, want: []int64{4, 3}},
		{name: "inner product", metric: storage.IP, k: 2, want: []int64{2, 1}},
		{name: "cosine", metric: storage.COSINE, k: 1, want: []int64{1}},
		{name: "k above candidates", metric: storage.L2, k: 10, filter: &storage.Filter{ID: 3}, want: []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroundTruth(ds, tt.metric, tt.k, tt.filter)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}
