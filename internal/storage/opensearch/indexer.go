package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/DjordjeVuckovic/knn-bench/internal/apperr"
	"github.com/opensearch-project/opensearch-go/v2"
)

// InsertEmbeddings bulk-loads vectors in input order, flushing every bulkSize
// documents and once more for the remainder. If a flush reports errors the
// call stops and returns (0, *BulkError); earlier flushes stay in the index.
func (c *Client) InsertEmbeddings(ctx context.Context, vectors [][]float32, ids []int64) (int, error) {
	conn, err := c.session()
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(ids) {
		return 0, apperr.NewValidation(fmt.Sprintf("got %d vectors but %d ids", len(vectors), len(ids)))
	}

	var (
		buf     bytes.Buffer
		enc     = json.NewEncoder(&buf)
		pending int
		total   int
	)

	for i := range vectors {
		if err := enc.Encode(bulkAction{Index: bulkTarget{Index: c.indexName, ID: ids[i]}}); err != nil {
			return 0, fmt.Errorf("failed to encode bulk action: %w", err)
		}
		doc := map[string]any{c.idField: ids[i], c.vectorField: vectors[i]}
		if err := enc.Encode(doc); err != nil {
			return 0, fmt.Errorf("failed to encode document %d: %w", ids[i], err)
		}
		pending++

		if pending == c.bulkSize {
			n, err := c.flush(ctx, conn, &buf)
			if err != nil {
				slog.Warn("Failed to insert data", "index", c.indexName, "error", err)
				return 0, err
			}
			total += n
			pending = 0
			slog.Info("Bulk flushed", "index", c.indexName, "created", total)
		}
	}

	if pending > 0 {
		n, err := c.flush(ctx, conn, &buf)
		if err != nil {
			slog.Warn("Failed to insert data", "index", c.indexName, "error", err)
			return 0, err
		}
		total += n
		slog.Info("Bulk flushed", "index", c.indexName, "created", total)
	}

	return total, nil
}

// flush sends buf as one bulk request and resets it.
func (c *Client) flush(ctx context.Context, conn *opensearch.Client, buf *bytes.Buffer) (int, error) {
	defer buf.Reset()

	res, err := conn.Bulk(bytes.NewReader(buf.Bytes()), conn.Bulk.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send bulk request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read bulk response: %w", err)
	}
	if res.IsError() {
		return 0, &ResponseError{Op: "bulk", Status: res.StatusCode, Body: string(raw)}
	}

	var br bulkResponse
	if err := json.Unmarshal(raw, &br); err != nil {
		return 0, fmt.Errorf("failed to parse bulk response: %w", err)
	}
	if br.Errors {
		return 0, &BulkError{Raw: raw}
	}

	return len(br.Items), nil
}
