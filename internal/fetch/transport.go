package fetch

import "net/http"

// RequestTransport performs a prepared HTTP request. The request context
// carries the unified abort signal; transports observe it cooperatively.
type RequestTransport interface {
	PerformRequest(request *http.Request) (*http.Response, error)
}

// HTTPClientTransport adapts net/http to the RequestTransport collaborator.
type HTTPClientTransport struct {
	client *http.Client
}

// NewHTTPClientTransport wraps the provided client, defaulting to
// http.DefaultClient when nil. Per-request deadlines come from the request
// context, so no client-level timeout is imposed here.
func NewHTTPClientTransport(client *http.Client) *HTTPClientTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClientTransport{client: client}
}

// PerformRequest executes the request through the wrapped client.
func (transport *HTTPClientTransport) PerformRequest(request *http.Request) (*http.Response, error) {
	return transport.client.Do(request)
}
