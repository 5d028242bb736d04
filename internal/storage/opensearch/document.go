package opensearch

import "encoding/json"

const (
	defaultShards   = 3
	defaultReplicas = 0
	defaultEFSearch = 100
)

// indexBody is the create-index request.
type indexBody struct {
	Settings indexSettings `json:"settings"`
	Mappings indexMappings `json:"mappings"`
}

type indexSettings struct {
	Index knnIndexSettings `json:"index"`
}

type knnIndexSettings struct {
	KNN              bool `json:"knn"`
	EFSearch         int  `json:"knn.algo_param.ef_search"`
	NumberOfShards   int  `json:"number_of_shards"`
	NumberOfReplicas int  `json:"number_of_replicas"`
}

type indexMappings struct {
	Source     sourceMapping  `json:"_source"`
	Properties map[string]any `json:"properties"`
}

type sourceMapping struct {
	Excludes []string `json:"excludes"`
}

type idFieldMapping struct {
	Type  string `json:"type"`
	Store bool   `json:"store"`
}

type vectorFieldMapping struct {
	Dimension int `json:"dimension"`
	IndexParams
}

func (c *Client) buildIndexBody() indexBody {
	return indexBody{
		Settings: indexSettings{
			Index: knnIndexSettings{
				KNN:              true,
				EFSearch:         defaultEFSearch,
				NumberOfShards:   defaultShards,
				NumberOfReplicas: defaultReplicas,
			},
		},
		Mappings: indexMappings{
			Source: sourceMapping{Excludes: []string{c.vectorField}},
			Properties: map[string]any{
				c.idField: idFieldMapping{Type: "integer", Store: true},
				c.vectorField: vectorFieldMapping{
					Dimension:   c.dim,
					IndexParams: c.caseConfig.IndexParams(),
				},
			},
		},
	}
}

type bulkAction struct {
	Index bulkTarget `json:"index"`
}

type bulkTarget struct {
	Index string `json:"_index"`
	ID    int64  `json:"_id"`
}

type bulkResponse struct {
	Errors bool              `json:"errors"`
	Items  []json.RawMessage `json:"items"`
}

// searchBody is a kNN query with an optional id range post-filter.
type searchBody struct {
	Size       int            `json:"size"`
	Query      knnQuery       `json:"query"`
	PostFilter *rangePostFilt `json:"post_filter,omitempty"`
}

type knnQuery struct {
	KNN map[string]knnClause `json:"knn"`
}

type knnClause struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

type rangePostFilt struct {
	Range map[string]rangeBound `json:"range"`
}

type rangeBound struct {
	GT int64 `json:"gt"`
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string             `json:"_id"`
	Fields map[string][]int64 `json:"fields"`
}

type forceMergeResponse struct {
	Task string `json:"task"`
}

type taskResponse struct {
	Completed bool `json:"completed"`
}
