package testing

import (
	"context"
	"crypto/tls"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	openSearchImage    = "opensearchproject/opensearch:2.11.1"
	openSearchUser     = "admin"
	openSearchPassword = "admin"
)

// OSContainer is a running single-node OpenSearch with the security plugin
// enabled, so it serves HTTPS with a self-signed certificate.
type OSContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
	Username  string
	Password  string
}

// NewOSContainer starts an OpenSearch test container and terminates it on cleanup.
func NewOSContainer(ctx context.Context, tb testing.TB) *OSContainer {
	tb.Helper()

	req := testcontainers.ContainerRequest{
		Image:        openSearchImage,
		ExposedPorts: []string{"9200/tcp"},
		Env: map[string]string{
			"discovery.type":                    "single-node",
			"OPENSEARCH_JAVA_OPTS":              "-Xms512m -Xmx512m",
			"OPENSEARCH_INITIAL_ADMIN_PASSWORD": openSearchPassword,
		},
		WaitingFor: wait.ForHTTP("/").
			WithPort("9200/tcp").
			WithTLS(true, &tls.Config{InsecureSkipVerify: true}).
			WithBasicAuth(openSearchUser, openSearchPassword).
			WithStartupTimeout(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		tb.Fatalf("failed to start opensearch container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("failed to terminate opensearch container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		tb.Fatalf("failed to get opensearch host: %v", err)
	}

	port, err := container.MappedPort(ctx, "9200/tcp")
	if err != nil {
		tb.Fatalf("failed to get opensearch port: %v", err)
	}

	p, err := strconv.Atoi(port.Port())
	if err != nil {
		tb.Fatalf("invalid opensearch port %q: %v", port.Port(), err)
	}

	return &OSContainer{
		Container: container,
		Host:      host,
		Port:      p,
		Username:  openSearchUser,
		Password:  openSearchPassword,
	}
}
