package opensearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Optimize refreshes the index, starts an asynchronous force merge down to a
// single segment and blocks until the merge task completes. The task is
// polled at a constant interval; only ctx cancellation stops the wait early.
func (c *Client) Optimize(ctx context.Context) error {
	conn, err := c.session()
	if err != nil {
		return err
	}

	res, err := conn.Indices.Refresh(
		conn.Indices.Refresh.WithIndex(c.indexName),
		conn.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	if err := decodeResponse("indices.refresh", res, nil); err != nil {
		return err
	}

	taskID, err := c.forceMerge(ctx, conn)
	if err != nil {
		return err
	}
	slog.Info("OpenSearch force merge started", "index", c.indexName, "task", taskID)

	start := time.Now()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for force merge task %s: %w", taskID, ctx.Err())
		case <-ticker.C:
		}

		done, err := c.taskCompleted(ctx, conn, taskID)
		if err != nil {
			return err
		}
		if done {
			slog.Info("OpenSearch force merge completed", "index", c.indexName, "task", taskID, "elapsed", time.Since(start))
			return nil
		}
		slog.Debug("Force merge still running", "task", taskID, "elapsed", time.Since(start))
	}
}

// forceMerge issues the merge with wait_for_completion=false and returns the
// task id. The typed API has no wait_for_completion option, so the request
// goes through Perform.
func (c *Client) forceMerge(ctx context.Context, conn *opensearch.Client) (string, error) {
	params := url.Values{}
	params.Set("max_num_segments", "1")
	params.Set("wait_for_completion", "false")

	u := &url.URL{Path: "/" + c.indexName + "/_forcemerge", RawQuery: params.Encode()}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build force merge request: %w", err)
	}

	httpRes, err := conn.Perform(req)
	if err != nil {
		return "", fmt.Errorf("failed to force merge: %w", err)
	}
	res := &opensearchapi.Response{
		StatusCode: httpRes.StatusCode,
		Body:       httpRes.Body,
		Header:     httpRes.Header,
	}

	var fm forceMergeResponse
	if err := decodeResponse("indices.forcemerge", res, &fm); err != nil {
		return "", err
	}
	if fm.Task == "" {
		return "", fmt.Errorf("force merge response has no task id")
	}
	return fm.Task, nil
}

func (c *Client) taskCompleted(ctx context.Context, conn *opensearch.Client, taskID string) (bool, error) {
	res, err := conn.Tasks.Get(taskID, conn.Tasks.Get.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}

	var tr taskResponse
	if err := decodeResponse("tasks.get", res, &tr); err != nil {
		return false, err
	}
	return tr.Completed, nil
}
