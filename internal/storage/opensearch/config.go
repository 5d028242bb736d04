package opensearch

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/knn-bench/internal/storage"
	"github.com/caarlos0/env/v11"
	"github.com/opensearch-project/opensearch-go/v2"
)

const (
	// DefaultTimeout bounds a single request round trip.
	DefaultTimeout = 600 * time.Second

	engineNMSLIB = "nmslib"
)

// Secret holds a credential that must not leak into logs.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "******"
}

func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

// Reveal returns the raw credential.
func (s Secret) Reveal() string { return string(s) }

// ClientConfig holds cluster connection parameters. Field tags are read by
// github.com/caarlos0/env/v11.
type ClientConfig struct {
	Username string `env:"OPENSEARCH_USERNAME,notEmpty"`
	Password Secret `env:"OPENSEARCH_PASSWORD,notEmpty"`
	Host     string `env:"OPENSEARCH_HOST" envDefault:"localhost"`
	Port     int    `env:"OPENSEARCH_PORT" envDefault:"9200"`
}

// LoadEnv reads ClientConfig from OPENSEARCH_* environment variables.
func LoadEnv() (ClientConfig, error) {
	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return ClientConfig{}, fmt.Errorf("failed to load opensearch config from env: %w", err)
	}
	return cfg, nil
}

// HostPort is a single seed node.
type HostPort struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ConnectionOptions is the client-side view of ClientConfig with the fixed
// transport settings applied.
type ConnectionOptions struct {
	Hosts          []HostPort    `json:"hosts"`
	Username       string        `json:"-"`
	Password       string        `json:"-"`
	UseSSL         bool          `json:"use_ssl"`
	VerifyCerts    bool          `json:"verify_certs"`
	AssertHostname bool          `json:"ssl_assert_hostname"`
	HTTPCompress   bool          `json:"http_compress"`
	Timeout        time.Duration `json:"timeout"`
}

// Options translates the config into connection options. This is the only
// place the password is revealed.
func (c ClientConfig) Options() ConnectionOptions {
	return ConnectionOptions{
		Hosts:          []HostPort{{Host: c.Host, Port: c.Port}},
		Username:       c.Username,
		Password:       c.Password.Reveal(),
		UseSSL:         true,
		VerifyCerts:    false,
		AssertHostname: false,
		HTTPCompress:   true,
		Timeout:        DefaultTimeout,
	}
}

// Addresses renders the seed nodes as URLs.
func (o ConnectionOptions) Addresses() []string {
	scheme := "http"
	if o.UseSSL {
		scheme = "https"
	}

	addrs := make([]string, 0, len(o.Hosts))
	for _, h := range o.Hosts {
		addrs = append(addrs, fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(h.Host, fmt.Sprint(h.Port))))
	}
	return addrs
}

// ClientConfig builds the opensearch-go configuration. Certificate checks are
// relaxed on this connection's transport only.
func (o ConnectionOptions) ClientConfig() opensearch.Config {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !o.VerifyCerts || !o.AssertHostname,
		},
		ResponseHeaderTimeout: o.Timeout,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}

	return opensearch.Config{
		Addresses:           o.Addresses(),
		Username:            o.Username,
		Password:            o.Password,
		CompressRequestBody: o.HTTPCompress,
		DisableRetry:        true,
		Transport:           transport,
	}
}

// ElementType is the storage precision of vector components.
type ElementType string

const (
	ElementFloat ElementType = "float" // 4 bytes
	ElementByte  ElementType = "byte"  // 1 byte, -128 to 127
)

// IndexConfig holds the per-case index parameters. Nil pointers are sent
// to the cluster as null.
type IndexConfig struct {
	ElementType    ElementType
	Index          storage.IndexType
	Metric         storage.MetricType
	EFConstruction *int
	M              *int
	NumCandidates  *int
}

// DefaultIndexConfig returns float elements on an hnsw index with cosine similarity.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		ElementType: ElementFloat,
		Index:       storage.HNSW,
	}
}

func (c IndexConfig) withDefaults() IndexConfig {
	if c.ElementType == "" {
		c.ElementType = ElementFloat
	}
	if c.Index == "" {
		c.Index = storage.HNSW
	}
	return c
}

// ResolveMetricName maps a metric to the similarity name used at search time.
// Every other metric mapping derives from it.
func ResolveMetricName(metric storage.MetricType) string {
	switch metric {
	case storage.L2:
		return "l2_norm"
	case storage.IP:
		return "dot_product"
	default:
		return "cosine"
	}
}

// SpaceType maps a metric to the space identifier of the index engine.
// Keep in lockstep with ResolveMetricName.
func SpaceType(metric storage.MetricType) string {
	switch ResolveMetricName(metric) {
	case "l2_norm":
		return "l2"
	case "dot_product":
		return "dot_product"
	default:
		return "cosinesimil"
	}
}

type MethodParameters struct {
	M              *int `json:"m"`
	EFConstruction *int `json:"ef_construction"`
}

type Method struct {
	Name       string           `json:"name"`
	SpaceType  string           `json:"space_type"`
	Engine     string           `json:"engine"`
	Parameters MethodParameters `json:"parameters"`
}

// IndexParams is the knn_vector mapping block of the vector field.
type IndexParams struct {
	Type       string `json:"type"`
	Index      bool   `json:"index"`
	Similarity string `json:"similarity"`
	Method     Method `json:"method"`
}

// IndexParams derives the vector field mapping. M and efConstruction are not
// validated; the cluster rejects or defaults them.
func (c IndexConfig) IndexParams() IndexParams {
	c = c.withDefaults()
	return IndexParams{
		Type:       "knn_vector",
		Index:      true,
		Similarity: ResolveMetricName(c.Metric),
		Method: Method{
			Name:      string(c.Index),
			SpaceType: SpaceType(c.Metric),
			Engine:    engineNMSLIB,
			Parameters: MethodParameters{
				M:              c.M,
				EFConstruction: c.EFConstruction,
			},
		},
	}
}

type SearchParams struct {
	NumCandidates *int `json:"num_candidates"`
}

func (c IndexConfig) SearchParams() SearchParams {
	return SearchParams{NumCandidates: c.NumCandidates}
}
