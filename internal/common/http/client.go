package http

import (
	"net/http"
	"time"
)

const userAgent = "loan-broker/1.0"

// Doer is the part of *http.Client that outbound integrations depend on.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the outbound client for third-party APIs. It stamps every request with the
// service's User-Agent.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return c.httpClient.Do(req)
}

// IsTransientStatus reports whether a response status is worth retrying.
func IsTransientStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return statusCode >= 500
}
