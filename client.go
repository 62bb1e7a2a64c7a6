// Package flipoll is the Go SDK for the fliPoll REST API. A Client owns the
// app credentials and the active access token, signs API calls with it and
// hands out the OAuth 2.0 token exchanges and login handlers.
package flipoll

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/jrsteele09/go-flipoll-sdk/api"
	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/jrsteele09/go-flipoll-sdk/login"
	"github.com/jrsteele09/go-flipoll-sdk/oauth2"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/sessions"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"
)

var apiVersionPattern = regexp.MustCompile(`^v[1-9]\.[0-9]$`)

// Config is validated once by New.
type Config struct {
	AppID     string
	AppSecret string
	// APIVersion is "vX.Y". Defaults to api.DefaultAPIVersion.
	APIVersion string
	// AccessToken is an optional initial token: a string, an
	// *token.AccessToken or a metadata map.
	AccessToken any
}

// Client is safe for concurrent use. Its only mutable state is the active
// access token.
type Client struct {
	appID      string
	appSecret  string
	apiVersion string

	builder   api.Builder
	transport api.Transport
	intentURL string
	logger    zerolog.Logger

	mu    sync.RWMutex
	token *token.AccessToken
}

var (
	_ oauth2.Caller       = (*Client)(nil)
	_ login.App           = (*Client)(nil)
	_ xoauth2.TokenSource = (*Client)(nil)
)

func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.AppID) == "" {
		return nil, errors.Wrap(sdkerrors.ErrConfig, "[flipoll.New] app id is required")
	}
	if strings.TrimSpace(cfg.AppSecret) == "" {
		return nil, errors.Wrap(sdkerrors.ErrConfig, "[flipoll.New] app secret is required")
	}
	version := cfg.APIVersion
	if version == "" {
		version = api.DefaultAPIVersion
	}
	if !apiVersionPattern.MatchString(version) {
		return nil, errors.Wrapf(sdkerrors.ErrConfig, "[flipoll.New] api version %q must look like v2.1", version)
	}

	c := &Client{
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		apiVersion: version,
		builder:    api.NewBuilder(version),
		intentURL:  login.DefaultIntentURL,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = api.NewHTTPTransport(api.WithLogger(c.logger))
	}

	if cfg.AccessToken != nil {
		if err := c.SetAccessToken(cfg.AccessToken); err != nil {
			return nil, errors.Wrapf(sdkerrors.ErrConfig, "[flipoll.New] initial access token: %v", err)
		}
	}
	return c, nil
}

func (c *Client) AppID() string { return c.appID }

func (c *Client) AppSecret() string { return c.appSecret }

func (c *Client) APIVersion() string { return c.apiVersion }

// AccessToken returns the active token, or nil when none is set.
func (c *Client) AccessToken() *token.AccessToken {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetAccessToken replaces the active token. v is anything token.Parse
// accepts; nil clears the token.
func (c *Client) SetAccessToken(v any) error {
	var tok *token.AccessToken
	if v != nil {
		parsed, err := token.Parse(v)
		if err != nil {
			return err
		}
		tok = parsed
	}
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
	return nil
}

// API performs call and classifies the result. The call's own token, if
// any, is used instead of the active token.
func (c *Client) API(ctx context.Context, call api.Call) (*api.Response, error) {
	req, err := c.builder.Build(call, c.AccessToken())
	if err != nil {
		return nil, err
	}

	raw, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.API] %s %s", req.Method, call.Endpoint)
	}
	if raw == nil {
		return nil, &sdkerrors.TransportError{Op: req.Method + " " + call.Endpoint, Err: errors.New("transport returned no response")}
	}

	resp, err := api.Classify(raw)
	if err != nil {
		c.logger.Debug().Err(err).Str("endpoint", call.Endpoint).Int("status", raw.StatusCode).Msg("fliPoll call rejected")
		return nil, errors.Wrapf(err, "[Client.API] %s %s", req.Method, call.Endpoint)
	}
	return resp, nil
}

// Call is API with positional arguments:
// Call(ctx, endpoint, [method], [params], [accessToken]).
func (c *Client) Call(ctx context.Context, args ...any) (*api.Response, error) {
	call, err := api.ParseArgs(args...)
	if err != nil {
		return nil, err
	}
	return c.API(ctx, call)
}

// OAuth2 returns the token exchanges. Pass oauth2.WithRequest to let
// UserAccessToken default its redirect URI to that request's URL.
func (c *Client) OAuth2(opts ...oauth2.ClientOption) *oauth2.Client {
	return oauth2.New(c, append([]oauth2.ClientOption{oauth2.WithLogger(c.logger)}, opts...)...)
}

// RedirectLoginHandler returns the redirect login flow for one inbound
// request, keeping its state in store.
func (c *Client) RedirectLoginHandler(req inbound.Request, store sessions.Store) *login.RedirectHandler {
	return login.NewRedirectHandler(c, c.OAuth2(oauth2.WithRequest(req)), req, store,
		login.WithIntentURL(c.intentURL),
		login.WithLogger(c.logger),
	)
}

// EmbeddedLoginHandler returns the embedded login flow for one inbound request.
func (c *Client) EmbeddedLoginHandler(req inbound.Request) *login.EmbeddedHandler {
	return login.NewEmbeddedHandler(c, c.OAuth2(oauth2.WithRequest(req)), req)
}

// Token makes the client an oauth2.TokenSource over its active token.
func (c *Client) Token() (*xoauth2.Token, error) {
	tok := c.AccessToken()
	if tok == nil {
		return nil, errors.Wrap(sdkerrors.ErrMissingToken, "[Client.Token]")
	}
	return tok.OAuth2Token(), nil
}

// HTTPClient returns an http.Client that sends the active token as a bearer
// token, for fliPoll endpoints the SDK does not wrap. The token is read on
// every request so SetAccessToken takes effect immediately.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{
		Timeout:   api.RequestTimeout,
		Transport: &xoauth2.Transport{Source: c},
	}
}
