// Package dataset fetches the pre-computed JSON tree exported by the vote
// processing pipeline.
package dataset

import (
	"net/http"
	"time"

	"github.com/epwatch/rebelboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithTimeout sets the per-fetch timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpc.Timeout = timeout
		}
	}
}

// WithCacheSize bounds the in-memory dataset cache.
func WithCacheSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.cache = newDatasetCache(size)
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
