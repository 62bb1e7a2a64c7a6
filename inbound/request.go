// Package inbound gives the login flows read-only access to the HTTP request
// currently being served by the integrating application.
package inbound

import (
	"net/http"
	"strings"
)

// Request is the part of the current inbound request the SDK reads.
type Request interface {
	// Query returns a query string parameter, or "" when absent.
	Query(name string) string
	// Cookie returns a cookie value, or "" when absent.
	Cookie(name string) string
	// CurrentURL is the absolute URL of the request without its query string.
	CurrentURL() string
	// RemoteAddr is the client network address.
	RemoteAddr() string
}

type httpRequest struct {
	r *http.Request
}

var _ Request = httpRequest{}

// FromHTTP adapts a net/http request.
func FromHTTP(r *http.Request) Request {
	return httpRequest{r: r}
}

func (h httpRequest) Query(name string) string {
	return h.r.URL.Query().Get(name)
}

func (h httpRequest) Cookie(name string) string {
	c, err := h.r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h httpRequest) CurrentURL() string {
	return Scheme(h.r) + "://" + h.r.Host + h.r.URL.Path
}

func (h httpRequest) RemoteAddr() string {
	return h.r.RemoteAddr
}

// Scheme determines the scheme (http/https) the client used.
func Scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	// Only http and https are taken from a proxy header.
	switch scheme := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); scheme {
	case "http", "https":
		return scheme
	}
	return "http"
}
