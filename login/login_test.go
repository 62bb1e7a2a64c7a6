package login_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/stretchr/testify/require"
)

const (
	testAppID     = "123"
	testAppSecret = "app-secret"
)

type fakeApp struct {
	token *token.AccessToken
}

func (a *fakeApp) AppID() string                   { return testAppID }
func (a *fakeApp) AppSecret() string               { return testAppSecret }
func (a *fakeApp) AccessToken() *token.AccessToken { return a.token }

type exchangeCall struct {
	code        string
	redirectURI string
}

type fakeExchanger struct {
	calls []exchangeCall
	err   error
}

func (e *fakeExchanger) UserAccessToken(_ context.Context, code, redirectURI string) (*token.AccessToken, error) {
	e.calls = append(e.calls, exchangeCall{code: code, redirectURI: redirectURI})
	if e.err != nil {
		return nil, e.err
	}
	return token.New("exchanged-" + code)
}

type fakeRequest struct {
	query   map[string]string
	cookies map[string]string
	current string
	remote  string
}

func (r *fakeRequest) Query(name string) string  { return r.query[name] }
func (r *fakeRequest) Cookie(name string) string { return r.cookies[name] }
func (r *fakeRequest) CurrentURL() string        { return r.current }
func (r *fakeRequest) RemoteAddr() string        { return r.remote }

func newRequest() *fakeRequest {
	return &fakeRequest{
		query:   map[string]string{},
		cookies: map[string]string{},
		current: "https://app.example/callback",
		remote:  "203.0.113.7:51234",
	}
}

func tokenWithType(t *testing.T, tokenType string) *token.AccessToken {
	t.Helper()
	md := map[string]any{"access_token": "tok"}
	if tokenType != "" {
		md["token_type"] = tokenType
	}
	tok, err := token.FromMetadata(md)
	require.NoError(t, err)
	return tok
}

var errExchange = errors.New("exchange failed")
