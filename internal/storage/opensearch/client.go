package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/knn-bench/internal/apperr"
	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

const (
	DefaultIndexName    = "vdb_bench_index"
	DefaultIDField      = "id"
	DefaultVectorField  = "vector"
	DefaultBulkSize     = 1000
	DefaultPollInterval = 30 * time.Second
)

var _ storage.VectorDB = (*Client)(nil)

// Client adapts an OpenSearch cluster to storage.VectorDB.
// It is not safe for concurrent use; one caller owns a session at a time.
type Client struct {
	dim          int
	options      ConnectionOptions
	caseConfig   IndexConfig
	indexName    string
	idField      string
	vectorField  string
	dropOld      bool
	bulkSize     int
	pollInterval time.Duration

	conn      *opensearch.Client
	transport *http.Transport
}

type Option func(*Client)

func WithIndexName(name string) Option {
	return func(c *Client) { c.indexName = name }
}

func WithIDField(name string) Option {
	return func(c *Client) { c.idField = name }
}

func WithVectorField(name string) Option {
	return func(c *Client) { c.vectorField = name }
}

// WithDropOld deletes an existing index of the same name and creates it anew.
func WithDropOld(drop bool) Option {
	return func(c *Client) { c.dropOld = drop }
}

func WithBulkSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.bulkSize = size
		}
	}
}

// WithPollInterval sets how often Optimize checks the force merge task.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// New validates the configuration and, when drop-old is requested, recreates
// the index over a throwaway connection. A failed create after a drop leaves
// the index absent.
func New(ctx context.Context, dim int, cfg ClientConfig, caseCfg IndexConfig, opts ...Option) (*Client, error) {
	c := &Client{
		dim:          dim,
		options:      cfg.Options(),
		caseConfig:   caseCfg.withDefaults(),
		indexName:    DefaultIndexName,
		idField:      DefaultIDField,
		vectorField:  DefaultVectorField,
		bulkSize:     DefaultBulkSize,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	conn, transport, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer transport.CloseIdleConnections()

	if err := Healthcheck(conn)(ctx); err != nil {
		return nil, err
	}

	if c.dropOld {
		slog.Info("Dropping old index", "index", c.indexName)
		if err := c.dropIndex(ctx, conn); err != nil {
			return nil, err
		}
		if err := c.createIndex(ctx, conn); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Client) validate() error {
	if c.dim <= 0 {
		return apperr.NewValidation(fmt.Sprintf("vector dimension must be positive, got %d", c.dim))
	}
	if c.indexName == "" || c.indexName != strings.ToLower(c.indexName) {
		return apperr.NewValidation(fmt.Sprintf("index name %q must be non-empty and lowercase", c.indexName))
	}
	if c.idField == "" || c.vectorField == "" {
		return apperr.NewValidation("id and vector field names must be set")
	}
	return nil
}

// Init opens the connection used by Insert, Search and Optimize until release is called.
// A session still open from an earlier Init is closed first.
func (c *Client) Init(_ context.Context) (func(), error) {
	c.Close()

	conn, transport, err := c.dial()
	if err != nil {
		return nil, err
	}
	c.conn, c.transport = conn, transport

	return c.Close, nil
}

// Close drops the live connection, if any.
func (c *Client) Close() {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	c.conn, c.transport = nil, nil
}

// ReadyToLoad has nothing to prepare for OpenSearch.
func (c *Client) ReadyToLoad(_ context.Context) error {
	return nil
}

func (c *Client) IndexName() string { return c.indexName }

func (c *Client) dial() (*opensearch.Client, *http.Transport, error) {
	cfg := c.options.ClientConfig()
	conn, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, nil, errors.Join(ErrConnectionFailed, err)
	}

	transport, _ := cfg.Transport.(*http.Transport)
	return conn, transport, nil
}

func (c *Client) session() (*opensearch.Client, error) {
	if c.conn == nil {
		return nil, storage.ErrNotConnected
	}
	return c.conn, nil
}

func (c *Client) dropIndex(ctx context.Context, conn *opensearch.Client) error {
	res, err := conn.Indices.Exists([]string{c.indexName}, conn.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return &ResponseError{Op: "indices.exists", Status: res.StatusCode}
	}

	res, err = conn.Indices.Delete([]string{c.indexName}, conn.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	return decodeResponse("indices.delete", res, nil)
}

func (c *Client) createIndex(ctx context.Context, conn *opensearch.Client) error {
	body, err := json.Marshal(c.buildIndexBody())
	if err != nil {
		return fmt.Errorf("failed to marshal index body: %w", err)
	}

	res, err := conn.Indices.Create(
		c.indexName,
		conn.Indices.Create.WithBody(bytes.NewReader(body)),
		conn.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := decodeResponse("indices.create", res, nil); err != nil {
		return err
	}

	slog.Info("Index created successfully", "index", c.indexName, "dim", c.dim, "space_type", SpaceType(c.caseConfig.Metric))
	return nil
}

// Healthcheck returns a check that calls the cluster info endpoint.
func Healthcheck(conn *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := conn.Info(conn.Info.WithContext(ctx))
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if err := decodeResponse("info", res, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Check dials the cluster described by cfg and runs one healthcheck.
func Check(ctx context.Context, cfg ClientConfig) error {
	c := &Client{options: cfg.Options()}
	conn, transport, err := c.dial()
	if err != nil {
		return err
	}
	if transport != nil {
		defer transport.CloseIdleConnections()
	}
	return Healthcheck(conn)(ctx)
}

// decodeResponse closes res, turns non-2xx statuses into *ResponseError and
// decodes the body into v when v is not nil.
func decodeResponse(op string, res *opensearchapi.Response, v any) error {
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return &ResponseError{Op: op, Status: res.StatusCode, Body: string(body)}
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("opensearch %s: decode response: %w", op, err)
	}
	return nil
}
