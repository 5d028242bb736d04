package opensearch

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the client could not be created.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
)

// ResponseError is a non-2xx answer from the cluster.
type ResponseError struct {
	Op     string
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("opensearch %s: status %d: %s", e.Op, e.Status, e.Body)
}

// BulkError is returned when a bulk response carries errors=true.
// Raw holds the whole response; items that succeeded are not reported.
type BulkError struct {
	Raw []byte
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("opensearch bulk: response reported errors: %s", e.Raw)
}
