package httpclient

import "net/http"

// HTTPClient is the subset of *http.Client that provider clients depend on,
// so tests can swap the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Default returns a client with the transport defaults and no explicit timeout.
func Default() HTTPClient {
	return &http.Client{}
}
