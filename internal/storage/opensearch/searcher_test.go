package opensearch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeHits = `{"hits":{"hits":[
	{"_id":"12","fields":{"id":[12]}},
	{"_id":"3","fields":{"id":[3]}},
	{"_id":"40","fields":{"id":[40]}}
]}}`

func TestSearchEmbedding_NoFilter(t *testing.T) {
	fc := newFakeCluster(t)
	fc.searchResponse = threeHits
	c := newTestClient(t, fc)
	connect(t, c)

	ids, err := c.SearchEmbedding(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 3, 40}, ids, "engine ranking order is preserved")

	searches := fc.requestsTo("/_search")
	require.Len(t, searches, 1)
	req := searches[0]

	assert.Equal(t, "10", req.Query.Get("size"))
	assert.Equal(t, "false", req.Query.Get("_source"))
	assert.Equal(t, "id", req.Query.Get("docvalue_fields"))
	assert.Equal(t, "_none_", req.Query.Get("stored_fields"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))

	assert.EqualValues(t, 10, body["size"])
	assert.NotContains(t, body, "post_filter")

	knn := body["query"].(map[string]any)["knn"].(map[string]any)
	require.Len(t, knn, 1)
	clause := knn["vector"].(map[string]any)
	assert.EqualValues(t, 10, clause["k"])
	assert.Len(t, clause["vector"], 4)
}

func TestSearchEmbedding_IDFilter(t *testing.T) {
	fc := newFakeCluster(t)
	fc.searchResponse = threeHits
	c := newTestClient(t, fc)
	connect(t, c)

	_, err := c.SearchEmbedding(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 10, &storage.Filter{ID: 5})
	require.NoError(t, err)

	searches := fc.requestsTo("/_search")
	require.Len(t, searches, 1)

	var body map[string]any
	require.NoError(t, json.Unmarshal(searches[0].Body, &body))

	want := map[string]any{"range": map[string]any{"id": map[string]any{"gt": float64(5)}}}
	assert.Equal(t, want, body["post_filter"])
}

func TestSearchEmbedding_Errors(t *testing.T) {
	t.Run("hit without id doc value", func(t *testing.T) {
		fc := newFakeCluster(t)
		fc.searchResponse = `{"hits":{"hits":[{"_id":"1","fields":{}}]}}`
		c := newTestClient(t, fc)
		connect(t, c)

		_, err := c.SearchEmbedding(context.Background(), []float32{1, 0, 0, 0}, 1, nil)
		assert.Error(t, err)
	})

	t.Run("malformed response", func(t *testing.T) {
		fc := newFakeCluster(t)
		fc.searchResponse = `{"hits":`
		c := newTestClient(t, fc)
		connect(t, c)

		_, err := c.SearchEmbedding(context.Background(), []float32{1, 0, 0, 0}, 1, nil)
		assert.Error(t, err)
	})

	t.Run("empty result", func(t *testing.T) {
		fc := newFakeCluster(t)
		fc.searchResponse = `{"hits":{"hits":[]}}`
		c := newTestClient(t, fc)
		connect(t, c)

		ids, err := c.SearchEmbedding(context.Background(), []float32{1, 0, 0, 0}, 5, nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
