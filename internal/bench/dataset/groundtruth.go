package dataset

import (
	"cmp"
	"math"
	"slices"

	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
)

// GroundTruth computes the exact k nearest ids of every query by brute force.
// With a filter only ids strictly greater than filter.ID are candidates,
// matching the engine-side post-filter.
func GroundTruth(ds *Dataset, metric storage.MetricType, k int, filter *storage.Filter) [][]int64 {
	score := scorer(metric)
	out := make([][]int64, len(ds.Queries))

	type candidate struct {
		id    int64
		score float64
	}
	cands := make([]candidate, 0, len(ds.Train))

	for qi, q := range ds.Queries {
		cands = cands[:0]
		for i, v := range ds.Train {
			if filter != nil && ds.IDs[i] <= filter.ID {
				continue
			}
			cands = append(cands, candidate{id: ds.IDs[i], score: score(q, v)})
		}

		// higher score is closer; ties broken by id for determinism
		slices.SortFunc(cands, func(a, b candidate) int {
			if c := cmp.Compare(b.score, a.score); c != 0 {
				return c
			}
			return cmp.Compare(a.id, b.id)
		})

		n := min(k, len(cands))
		ids := make([]int64, n)
		for i := 0; i < n; i++ {
			ids[i] = cands[i].id
		}
		out[qi] = ids
	}

	return out
}

func scorer(metric storage.MetricType) func(a, b []float32) float64 {
	switch metric {
	case storage.L2:
		return func(a, b []float32) float64 { return -squaredL2(a, b) }
	case storage.IP:
		return dot
	default:
		return cosine
	}
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func cosine(a, b []float32) float64 {
	na, nb := dot(a, a), dot(b, b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot(a, b) / (math.Sqrt(na) * math.Sqrt(nb))
}
