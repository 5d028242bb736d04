package dataset

import (
	"fmt"
	"math/rand/v2"
)

// Synthetic generates a reproducible dataset of uniform vectors in [-1, 1).
func Synthetic(size, numQueries, dim int, seed int64) *Dataset {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	return &Dataset{
		Name:    fmt.Sprintf("synthetic-%dx%d", size, dim),
		Dim:     dim,
		Train:   randomVectors(rng, size, dim),
		IDs:     sequentialIDs(size),
		Queries: randomVectors(rng, numQueries, dim),
	}
}

func randomVectors(rng *rand.Rand, n, dim int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()*2 - 1
		}
		out[i] = v
	}
	return out
}
