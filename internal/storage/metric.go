package storage

import (
	"fmt"
	"strings"
)

// MetricType is the distance function used to score vector similarity.
// The zero value means unset; adapters pick their own default.
type MetricType string

const (
	L2     MetricType = "L2"
	IP     MetricType = "IP"
	COSINE MetricType = "COSINE"
)

// ParseMetricType accepts the metric names used in case files, case-insensitively.
func ParseMetricType(s string) (MetricType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "L2", "EUCLIDEAN":
		return L2, nil
	case "IP", "DOT", "DOT_PRODUCT", "INNER_PRODUCT":
		return IP, nil
	case "COSINE", "COS":
		return COSINE, nil
	default:
		return "", fmt.Errorf("unknown metric type %q", s)
	}
}

// IndexType names the ANN index variant requested from the engine.
type IndexType string

const (
	HNSW IndexType = "hnsw"
	IVF  IndexType = "ivf"
)
