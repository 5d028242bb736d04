package metrics

type ScoreSet struct {
	Recall    float64 `json:"recall"`
	NDCG      float64 `json:"ndcg"`
	Precision float64 `json:"precision"`
	RR        float64 `json:"rr"`
}

func ComputeAll(got, truth []int64, k int) ScoreSet {
	return ScoreSet{
		Recall:    RecallAtK(got, truth, k),
		NDCG:      NDCGAtK(got, truth, k),
		Precision: PrecisionAtK(got, truth, k),
		RR:        ReciprocalRank(got, truth),
	}
}

// Mean averages per-query scores. An empty input yields the zero ScoreSet.
func Mean(sets []ScoreSet) ScoreSet {
	if len(sets) == 0 {
		return ScoreSet{}
	}

	var m ScoreSet
	for _, s := range sets {
		m.Recall += s.Recall
		m.NDCG += s.NDCG
		m.Precision += s.Precision
		m.RR += s.RR
	}

	n := float64(len(sets))
	m.Recall /= n
	m.NDCG /= n
	m.Precision /= n
	m.RR /= n
	return m
}
