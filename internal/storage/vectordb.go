package storage

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by VectorDB operations invoked outside of a session.
var ErrNotConnected = errors.New("vector db: not connected, call Init first")

// VectorDB is the vendor-neutral contract a benchmark drives.
// A load or search phase runs between Init and the returned release func.
type VectorDB interface {
	// Init opens a connection for one unit of work. The caller must invoke
	// release when done; WithSession does that on every exit path.
	Init(ctx context.Context) (release func(), err error)
	// InsertEmbeddings stores vectors under the matching ids and reports how
	// many the engine acknowledged.
	InsertEmbeddings(ctx context.Context, vectors [][]float32, ids []int64) (int, error)
	// SearchEmbedding returns the ids of the k nearest neighbours of query,
	// best match first.
	SearchEmbedding(ctx context.Context, query []float32, k int, filter *Filter) ([]int64, error)
	// ReadyToLoad is called before a load phase.
	ReadyToLoad(ctx context.Context) error
	// Optimize is called between the load and the search phase.
	Optimize(ctx context.Context) error
}

// Filter restricts search results to ids strictly greater than ID.
type Filter struct {
	ID int64 `json:"id" yaml:"id"`
}

// WithSession runs fn inside an Init/release scope.
func WithSession(ctx context.Context, db VectorDB, fn func(ctx context.Context) error) error {
	release, err := db.Init(ctx)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx)
}
