package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecallAtK(t *testing.T) {
	tests := []struct {
		name  string
		got   []int64
		truth []int64
		k     int
		want  float64
	}{
		{name: "k=0", got: []int64{1}, truth: []int64{1}, k: 0, want: 0},
		{name: "empty truth", got: []int64{1, 2}, truth: nil, k: 2, want: 0},
		{name: "empty result", got: nil, truth: []int64{1, 2}, k: 2, want: 0},
		{name: "all found", got: []int64{3, 1, 2}, truth: []int64{1, 2, 3}, k: 3, want: 1},
		{name: "partial", got: []int64{1, 9, 8, 2}, truth: []int64{1, 2, 3, 4}, k: 4, want: 0.5},
		{name: "only top-k of truth counts", got: []int64{5, 6}, truth: []int64{1, 2, 5, 6}, k: 2, want: 0},
		{name: "hits past k ignored", got: []int64{9, 1}, truth: []int64{1, 2}, k: 1, want: 0},
		{name: "short truth shrinks denominator", got: []int64{7, 1, 8}, truth: []int64{7}, k: 3, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RecallAtK(tt.got, tt.truth, tt.k), 1e-9)
		})
	}
}

func TestPrecisionAtK(t *testing.T) {
	tests := []struct {
		name  string
		got   []int64
		truth []int64
		k     int
		want  float64
	}{
		{name: "empty", got: nil, truth: []int64{1}, k: 5, want: 0},
		{name: "all relevant", got: []int64{1, 2}, truth: []int64{2, 1}, k: 2, want: 1},
		{name: "short result", got: []int64{1, 2}, truth: []int64{1, 2, 3, 4, 5}, k: 5, want: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PrecisionAtK(tt.got, tt.truth, tt.k), 1e-9)
		})
	}
}

func TestNDCGAtK(t *testing.T) {
	partial := (1/math.Log2(3) + 1/math.Log2(4)) / (1 + 1/math.Log2(3) + 1/math.Log2(4))

	tests := []struct {
		name  string
		got   []int64
		truth []int64
		k     int
		want  float64
	}{
		{name: "empty result", got: nil, truth: []int64{1}, k: 3, want: 0},
		{name: "empty truth", got: []int64{1}, truth: nil, k: 3, want: 0},
		{name: "k=0", got: []int64{1}, truth: []int64{1}, k: 0, want: 0},
		{name: "perfect", got: []int64{1, 2, 3}, truth: []int64{1, 2, 3}, k: 3, want: 1},
		{name: "permuted top-k is still perfect", got: []int64{3, 1, 2}, truth: []int64{1, 2, 3}, k: 3, want: 1},
		{name: "miss at rank one", got: []int64{9, 1, 2}, truth: []int64{1, 2, 3}, k: 3, want: partial},
		{name: "no hits", got: []int64{7, 8}, truth: []int64{1, 2}, k: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NDCGAtK(tt.got, tt.truth, tt.k), 1e-9)
		})
	}
}

func TestReciprocalRank(t *testing.T) {
	assert.InDelta(t, 1.0, ReciprocalRank([]int64{4, 5}, []int64{4, 5}), 1e-9)
	assert.InDelta(t, 1.0/3.0, ReciprocalRank([]int64{5, 6, 4}, []int64{4, 5}), 1e-9)
	assert.Zero(t, ReciprocalRank([]int64{5, 6}, []int64{4}))
	assert.Zero(t, ReciprocalRank([]int64{5, 6}, nil))
}

func TestComputeAllAndMean(t *testing.T) {
	a := ComputeAll([]int64{1, 2}, []int64{1, 2}, 2)
	b := ComputeAll([]int64{8, 9}, []int64{1, 2}, 2)

	assert.Equal(t, ScoreSet{Recall: 1, NDCG: 1, Precision: 1, RR: 1}, a)
	assert.Equal(t, ScoreSet{}, b)

	m := Mean([]ScoreSet{a, b})
	assert.InDelta(t, 0.5, m.Recall, 1e-9)
	assert.InDelta(t, 0.5, m.NDCG, 1e-9)
	assert.InDelta(t, 0.5, m.RR, 1e-9)

	assert.Equal(t, ScoreSet{}, Mean(nil))
}
