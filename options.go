package flipoll

import (
	"strings"

	"github.com/jrsteele09/go-flipoll-sdk/api"
	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(transport api.Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL points API calls at another REST API root, for example a
// staging host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.builder.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithIntentURL changes the host the login and logout URLs point at.
func WithIntentURL(intentURL string) Option {
	return func(c *Client) {
		c.intentURL = strings.TrimRight(intentURL, "/")
	}
}
