// Package oauth2 performs the fliPoll OAuth 2.0 token exchanges: app tokens,
// authorization code exchange and token introspection.
package oauth2

import (
	"context"

	"github.com/jrsteele09/go-flipoll-sdk/api"
	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Caller is the part of the SDK client the token exchanges need.
type Caller interface {
	AppID() string
	AppSecret() string
	AccessToken() *token.AccessToken
	API(ctx context.Context, call api.Call) (*api.Response, error)
}

// Client performs token exchanges through a Caller.
type Client struct {
	caller Caller
	req    inbound.Request
	logger zerolog.Logger
}

type ClientOption func(*Client)

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequest sets the inbound request whose URL UserAccessToken uses when no
// redirect URI is given.
func WithRequest(req inbound.Request) ClientOption {
	return func(c *Client) {
		c.req = req
	}
}

func New(caller Caller, opts ...ClientOption) *Client {
	c := &Client{caller: caller, logger: log.Logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AppAccessToken obtains an app access token with the client credentials grant.
func (c *Client) AppAccessToken(ctx context.Context) (*token.AccessToken, error) {
	result, err := c.exchange(ctx, "AppAccessToken", api.Params{
		ParamClientID:     c.caller.AppID(),
		ParamClientSecret: c.caller.AppSecret(),
		ParamGrantType:    string(ClientCredentialsGrant),
	})
	if err != nil {
		return nil, err
	}
	return token.New(result.AccessToken)
}

// UserAccessToken exchanges an authorization code for a user access token.
// redirectURI must be the URI the code was issued for; it defaults to the
// current URL of the request set with WithRequest.
func (c *Client) UserAccessToken(ctx context.Context, code, redirectURI string) (*token.AccessToken, error) {
	if code == "" {
		return nil, errors.Wrap(sdkerrors.ErrInvalidArgument, "[UserAccessToken] code is required")
	}
	if redirectURI == "" && c.req != nil {
		redirectURI = c.req.CurrentURL()
	}
	if redirectURI == "" {
		return nil, errors.Wrap(sdkerrors.ErrInvalidRedirectURI, "[UserAccessToken] redirect uri is required")
	}
	result, err := c.exchange(ctx, "UserAccessToken", api.Params{
		ParamClientID:     c.caller.AppID(),
		ParamClientSecret: c.caller.AppSecret(),
		ParamCode:         code,
		ParamRedirectURI:  redirectURI,
		ParamGrantType:    string(AuthorizationCodeGrant),
	})
	if err != nil {
		return nil, err
	}
	return token.New(result.AccessToken)
}

// AccessTokenMetadata introspects tok and returns it with its metadata. tok
// may be nil, a string or an access token; nil or empty uses the caller's
// active token.
func (c *Client) AccessTokenMetadata(ctx context.Context, tok any) (*token.AccessToken, error) {
	input, err := c.inputToken(tok)
	if err != nil {
		return nil, err
	}

	resp, err := c.caller.API(ctx, api.Call{
		Endpoint: TokenEndpoint,
		Method:   api.MethodGet,
		Params:   api.Params{ParamInputToken: input},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[AccessTokenMetadata] introspection request failed")
	}

	metadata := resp.ResultsMap()
	if metadata == nil {
		return nil, errors.Wrap(sdkerrors.ErrTokenExchangeFailed, "[AccessTokenMetadata] response has no results")
	}
	result, err := token.FromMetadata(metadata)
	if err != nil {
		return nil, errors.Wrapf(sdkerrors.ErrTokenExchangeFailed, "[AccessTokenMetadata] %v", err)
	}
	c.logger.Debug().Str("token_type", result.TokenType()).Msg("fliPoll access token introspected")
	return result, nil
}

func (c *Client) inputToken(tok any) (string, error) {
	var input string
	switch t := tok.(type) {
	case nil:
	case string:
		input = t
	case *token.AccessToken:
		if t != nil {
			input = t.String()
		}
	case token.AccessToken:
		input = t.String()
	default:
		return "", errors.Wrapf(sdkerrors.ErrInvalidArgument, "[AccessTokenMetadata] unsupported token type %T", tok)
	}
	if input != "" {
		return input, nil
	}
	active := c.caller.AccessToken()
	if active == nil {
		return "", errors.Wrap(sdkerrors.ErrMissingToken, "[AccessTokenMetadata] no token given and none is set")
	}
	return active.String(), nil
}

func (c *Client) exchange(ctx context.Context, op string, params api.Params) (ExchangeResult, error) {
	resp, err := c.caller.API(ctx, api.Call{
		Endpoint: TokenEndpoint,
		Method:   api.MethodPost,
		Params:   params,
	})
	if err != nil {
		return ExchangeResult{}, errors.Wrapf(err, "[%s] token request failed", op)
	}

	var result ExchangeResult
	if err := resp.DecodeResults(&result); err != nil {
		return ExchangeResult{}, errors.Wrapf(sdkerrors.ErrTokenExchangeFailed, "[%s] %v", op, err)
	}
	if err := result.validate(op); err != nil {
		return ExchangeResult{}, err
	}

	c.logger.Debug().
		Str("grant_type", grantOf(params)).
		Str("token_type", result.TokenType).
		Int64("expires_in", result.ExpiresIn).
		Msg("fliPoll token exchanged")
	return result, nil
}

func grantOf(params api.Params) string {
	grant, _ := params[ParamGrantType].(string)
	return grant
}
