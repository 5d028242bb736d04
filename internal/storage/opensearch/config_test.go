package opensearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMetricMapping(t *testing.T) {
	tests := []struct {
		metric     storage.MetricType
		similarity string
		space      string
	}{
		{metric: storage.L2, similarity: "l2_norm", space: "l2"},
		{metric: storage.IP, similarity: "dot_product", space: "dot_product"},
		{metric: storage.COSINE, similarity: "cosine", space: "cosinesimil"},
		{metric: "", similarity: "cosine", space: "cosinesimil"},
		{metric: "HAMMING", similarity: "cosine", space: "cosinesimil"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("metric=%q", tt.metric), func(t *testing.T) {
			assert.Equal(t, tt.similarity, ResolveMetricName(tt.metric))
			assert.Equal(t, tt.space, SpaceType(tt.metric))
		})
	}
}

func TestIndexConfig_IndexParams(t *testing.T) {
	t.Run("carries metric names and construction params", func(t *testing.T) {
		cfg := IndexConfig{Metric: storage.L2, M: intPtr(16), EFConstruction: intPtr(200)}

		p := cfg.IndexParams()

		assert.Equal(t, "knn_vector", p.Type)
		assert.True(t, p.Index)
		assert.Equal(t, "l2_norm", p.Similarity)
		assert.Equal(t, "hnsw", p.Method.Name)
		assert.Equal(t, "l2", p.Method.SpaceType)
		assert.Equal(t, "nmslib", p.Method.Engine)
		assert.Equal(t, 16, *p.Method.Parameters.M)
		assert.Equal(t, 200, *p.Method.Parameters.EFConstruction)
	})

	t.Run("unset construction params marshal as null", func(t *testing.T) {
		raw, err := json.Marshal(IndexConfig{Metric: storage.IP}.IndexParams())
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))

		method := got["method"].(map[string]any)
		params := method["parameters"].(map[string]any)
		assert.Contains(t, params, "m")
		assert.Nil(t, params["m"])
		assert.Contains(t, params, "ef_construction")
		assert.Nil(t, params["ef_construction"])
		assert.Equal(t, "dot_product", got["similarity"])
		assert.Equal(t, "dot_product", method["space_type"])
	})
}

func TestIndexConfig_SearchParams(t *testing.T) {
	assert.Nil(t, IndexConfig{}.SearchParams().NumCandidates)
	assert.Equal(t, 64, *IndexConfig{NumCandidates: intPtr(64)}.SearchParams().NumCandidates)
}

func TestClientConfig_Options(t *testing.T) {
	cfg := ClientConfig{Username: "admin", Password: "s3cret", Host: "search.local", Port: 9200}

	opts := cfg.Options()

	assert.Equal(t, []HostPort{{Host: "search.local", Port: 9200}}, opts.Hosts)
	assert.Equal(t, "admin", opts.Username)
	assert.Equal(t, "s3cret", opts.Password)
	assert.True(t, opts.UseSSL)
	assert.False(t, opts.VerifyCerts)
	assert.False(t, opts.AssertHostname)
	assert.True(t, opts.HTTPCompress)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.Equal(t, []string{"https://search.local:9200"}, opts.Addresses())
}

func TestConnectionOptions_ClientConfig(t *testing.T) {
	before := http.DefaultTransport.(*http.Transport).TLSClientConfig

	oc := ClientConfig{Username: "admin", Password: "pw", Host: "::1", Port: 9200}.Options().ClientConfig()

	assert.Equal(t, []string{"https://[::1]:9200"}, oc.Addresses)
	assert.True(t, oc.CompressRequestBody)
	assert.True(t, oc.DisableRetry)

	tr, ok := oc.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, DefaultTimeout, tr.ResponseHeaderTimeout)

	assert.True(t, before == http.DefaultTransport.(*http.Transport).TLSClientConfig, "process-wide transport must stay untouched")
}

func TestSecret_Redacted(t *testing.T) {
	s := Secret("hunter2")

	assert.Equal(t, "******", s.String())
	assert.Equal(t, "******", fmt.Sprintf("%v", s))
	assert.Equal(t, "******", s.LogValue().String())
	assert.Equal(t, "hunter2", s.Reveal())
	assert.Empty(t, Secret("").String())
}

func TestLoadEnv(t *testing.T) {
	t.Run("reads values and defaults", func(t *testing.T) {
		t.Setenv("OPENSEARCH_USERNAME", "admin")
		t.Setenv("OPENSEARCH_PASSWORD", "pw")

		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, "admin", cfg.Username)
		assert.Equal(t, "pw", cfg.Password.Reveal())
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 9200, cfg.Port)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("OPENSEARCH_USERNAME", "")
		t.Setenv("OPENSEARCH_PASSWORD", "")

		_, err := LoadEnv()
		assert.Error(t, err)
	})
}
