package tadau

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPDoer is the transport collaborator: anything that can execute an
// HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ HTTPDoer = (*http.Client)(nil)

// defaultRequestTimeout bounds a single dispatch. The reporter itself has
// no timeout contract; this lives entirely in the transport.
const defaultRequestTimeout = 10 * time.Second

// NewTracedHTTPClient creates an HTTP client that automatically propagates
// trace context to the collection endpoint via W3C TraceContext headers.
//
// If telemetry is not initialized by the host application the transport
// uses a no-op tracer, which is safe but produces no spans.
//
// Parameters:
//   - baseTransport: The underlying transport to use. If nil, uses http.DefaultTransport.
//
// The returned client is safe for concurrent use and should be reused
// across requests for connection pooling benefits.
func NewTracedHTTPClient(baseTransport http.RoundTripper) *http.Client {
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	return &http.Client{
		Timeout:   defaultRequestTimeout,
		Transport: otelhttp.NewTransport(baseTransport),
	}
}
