package metrics

import "math"

// NDCGAtK computes Normalized Discounted Cumulative Gain at rank K with binary
// relevance: an id is relevant when it belongs to the true top-K.
func NDCGAtK(got, truth []int64, k int) float64 {
	if k <= 0 || len(got) == 0 {
		return 0
	}

	relevant := relevantSet(truth, k)
	if len(relevant) == 0 {
		return 0
	}

	var dcg float64
	n := min(k, len(got))
	for i := 0; i < n; i++ {
		if _, ok := relevant[got[i]]; ok {
			dcg += discount(i)
		}
	}

	var idcg float64
	for i := 0; i < len(relevant); i++ {
		idcg += discount(i)
	}

	return dcg / idcg
}

// ReciprocalRank returns 1/rank of the exact nearest neighbour in got.
func ReciprocalRank(got, truth []int64) float64 {
	if len(truth) == 0 {
		return 0
	}
	for i, id := range got {
		if id == truth[0] {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

func discount(rank int) float64 {
	return 1 / math.Log2(float64(rank+2))
}
