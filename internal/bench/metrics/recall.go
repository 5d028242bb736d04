package metrics

// RecallAtK is the fraction of the true top-K neighbours present in the first
// K returned ids. When fewer than K true neighbours exist the denominator
// shrinks accordingly.
func RecallAtK(got, truth []int64, k int) float64 {
	if k <= 0 {
		return 0
	}

	relevant := relevantSet(truth, k)
	if len(relevant) == 0 {
		return 0
	}

	return float64(countHits(got, relevant, k)) / float64(len(relevant))
}

// PrecisionAtK is the fraction of the first K returned ids that are true
// top-K neighbours.
func PrecisionAtK(got, truth []int64, k int) float64 {
	if k <= 0 || len(got) == 0 {
		return 0
	}

	relevant := relevantSet(truth, k)
	return float64(countHits(got, relevant, k)) / float64(k)
}

func relevantSet(truth []int64, k int) map[int64]struct{} {
	n := min(k, len(truth))
	set := make(map[int64]struct{}, n)
	for _, id := range truth[:n] {
		set[id] = struct{}{}
	}
	return set
}

func countHits(got []int64, relevant map[int64]struct{}, k int) int {
	n := min(k, len(got))
	var hits int
	for _, id := range got[:n] {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}
	return hits
}
