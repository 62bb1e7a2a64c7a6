package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	ConnectTimeout = 10 * time.Second
	RequestTimeout = 60 * time.Second
)

// RawResponse is what the transport saw on the wire. RawHeader is only set by
// transports that hand back the unparsed header block.
type RawResponse struct {
	StatusCode int
	StatusLine string
	Header     http.Header
	RawHeader  string
	Body       []byte
}

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks . Transport

// Transport performs a single blocking HTTP exchange.
type Transport interface {
	Send(ctx context.Context, req *Request) (*RawResponse, error)
}

// HTTPTransport is the net/http Transport. It never retries.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient replaces the default client and its timeouts.
func WithHTTPClient(client *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// WithRateLimiter makes Send wait on limiter before every request.
func WithRateLimiter(limiter *rate.Limiter) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.limiter = limiter
	}
}

func WithLogger(logger zerolog.Logger) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.logger = logger
	}
}

func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client: &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: ConnectTimeout}).DialContext,
				TLSHandshakeTimeout: ConnectTimeout,
			},
		},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*RawResponse, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, &sdkerrors.TransportError{Op: "rate limit", Err: err}
		}
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &sdkerrors.TransportError{Op: "build request", Err: err}
	}
	httpReq.Header = req.Header.Clone()
	if httpReq.Header == nil {
		httpReq.Header = http.Header{}
	}

	started := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Debug().Err(err).Str("method", req.Method).Str("url", redactURL(req.URL)).Msg("fliPoll request failed")
		return nil, &sdkerrors.TransportError{Op: req.Method + " " + redactURL(req.URL), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &sdkerrors.TransportError{Op: "read body", Err: err}
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("url", redactURL(req.URL)).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("fliPoll request")

	return &RawResponse{
		StatusCode: resp.StatusCode,
		StatusLine: resp.Proto + " " + resp.Status,
		Header:     resp.Header,
		RawHeader:  rawHeaderBlock(resp),
		Body:       respBody,
	}, nil
}

// rawHeaderBlock renders the status line and headers the way they came off
// the wire so the classifier can read OAuth errors from the status line.
func rawHeaderBlock(resp *http.Response) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\r\n", resp.Proto, resp.Status)
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			fmt.Fprintf(&sb, "%s: %s\r\n", k, v)
		}
	}
	return sb.String()
}

// redactURL drops the query string, which may carry secrets or tokens.
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
