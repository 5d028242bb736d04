package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
)

const storedFieldsNone = "_none_"

// SearchEmbedding runs a kNN query for the k nearest neighbours of query.
// A non-nil filter keeps only ids strictly greater than filter.ID. Only the
// id doc value is fetched; _source and stored fields are suppressed.
func (c *Client) SearchEmbedding(ctx context.Context, query []float32, k int, filter *storage.Filter) ([]int64, error) {
	conn, err := c.session()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(c.buildSearchBody(query, k, filter))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	res, err := conn.Search(
		conn.Search.WithContext(ctx),
		conn.Search.WithIndex(c.indexName),
		conn.Search.WithBody(bytes.NewReader(body)),
		conn.Search.WithSize(k),
		conn.Search.WithSource("false"),
		conn.Search.WithDocvalueFields(c.idField),
		conn.Search.WithStoredFields(storedFieldsNone),
	)
	if err != nil {
		slog.Warn("Failed to search", "index", c.indexName, "error", err)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	var sr searchResponse
	if err := decodeResponse("search", res, &sr); err != nil {
		slog.Warn("Failed to search", "index", c.indexName, "error", err)
		return nil, err
	}

	ids := make([]int64, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		vals := hit.Fields[c.idField]
		if len(vals) == 0 {
			return nil, fmt.Errorf("search hit %q has no %q doc value", hit.ID, c.idField)
		}
		ids = append(ids, vals[0])
	}

	return ids, nil
}

func (c *Client) buildSearchBody(query []float32, k int, filter *storage.Filter) searchBody {
	body := searchBody{
		Size: k,
		Query: knnQuery{
			KNN: map[string]knnClause{
				c.vectorField: {Vector: query, K: k},
			},
		},
	}
	if filter != nil {
		body.PostFilter = &rangePostFilt{
			Range: map[string]rangeBound{c.idField: {GT: filter.ID}},
		}
	}
	return body
}
