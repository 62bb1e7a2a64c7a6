package oauth2_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-flipoll-sdk/api"
	"github.com/jrsteele09/go-flipoll-sdk/oauth2"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	active *token.AccessToken
	body   string
	status int
	calls  []api.Call
}

func (f *fakeCaller) AppID() string                   { return "app-1" }
func (f *fakeCaller) AppSecret() string               { return "secret-1" }
func (f *fakeCaller) AccessToken() *token.AccessToken { return f.active }

func (f *fakeCaller) API(_ context.Context, call api.Call) (*api.Response, error) {
	f.calls = append(f.calls, call)
	status := f.status
	if status == 0 {
		status = 200
	}
	return api.Classify(&api.RawResponse{StatusCode: status, Body: []byte(f.body)})
}

func newClient(caller *fakeCaller) *oauth2.Client {
	return oauth2.New(caller, oauth2.WithLogger(zerolog.Nop()))
}

func TestAppAccessToken(t *testing.T) {
	caller := &fakeCaller{body: `{"results":{"access_token":"app-token","token_type":"app","app_id":1,"expires_in":3600}}`}
	tok, err := newClient(caller).AppAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "app-token", tok.String())
	require.False(t, tok.HasMetadata())

	require.Len(t, caller.calls, 1)
	call := caller.calls[0]
	require.Equal(t, oauth2.TokenEndpoint, call.Endpoint)
	require.Equal(t, api.MethodPost, call.Method)
	require.Equal(t, api.Params{
		"client_id":     "app-1",
		"client_secret": "secret-1",
		"grant_type":    "client_credentials",
	}, call.Params)
}

func TestUserAccessToken(t *testing.T) {
	t.Run("exchanges the code", func(t *testing.T) {
		caller := &fakeCaller{body: `{"results":{"access_token":"user-token"}}`}
		tok, err := newClient(caller).UserAccessToken(context.Background(), "the-code", "https://app.example/cb")
		require.NoError(t, err)
		require.Equal(t, "user-token", tok.String())

		params := caller.calls[0].Params
		require.Equal(t, "authorization_code", params["grant_type"])
		require.Equal(t, "the-code", params["code"])
		require.Equal(t, "https://app.example/cb", params["redirect_uri"])
	})

	t.Run("requires code and redirect uri", func(t *testing.T) {
		caller := &fakeCaller{}
		_, err := newClient(caller).UserAccessToken(context.Background(), "", "https://app.example/cb")
		require.ErrorIs(t, err, sdkerrors.ErrInvalidArgument)

		_, err = newClient(caller).UserAccessToken(context.Background(), "code", "")
		require.ErrorIs(t, err, sdkerrors.ErrInvalidRedirectURI)
		require.Empty(t, caller.calls)
	})
}

type currentURL string

func (u currentURL) Query(string) string  { return "" }
func (u currentURL) Cookie(string) string { return "" }
func (u currentURL) CurrentURL() string   { return string(u) }
func (u currentURL) RemoteAddr() string   { return "" }

func TestUserAccessToken_DefaultsToCurrentURL(t *testing.T) {
	caller := &fakeCaller{body: `{"results":{"access_token":"user-token"}}`}
	client := oauth2.New(caller, oauth2.WithLogger(zerolog.Nop()), oauth2.WithRequest(currentURL("https://app.example/current")))

	_, err := client.UserAccessToken(context.Background(), "the-code", "")
	require.NoError(t, err)
	require.Equal(t, "https://app.example/current", caller.calls[0].Params["redirect_uri"])

	_, err = client.UserAccessToken(context.Background(), "the-code", "https://app.example/explicit")
	require.NoError(t, err)
	require.Equal(t, "https://app.example/explicit", caller.calls[1].Params["redirect_uri"])
}

func TestExchangeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no results", `{}`},
		{"no access token", `{"results":{"token_type":"app"}}`},
		{"empty access token", `{"results":{"access_token":""}}`},
		{"access token not a string", `{"results":{"access_token":42}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(&fakeCaller{body: tt.body})

			_, err := client.AppAccessToken(context.Background())
			require.ErrorIs(t, err, sdkerrors.ErrTokenExchangeFailed)

			_, err = client.UserAccessToken(context.Background(), "c", "https://app.example/")
			require.ErrorIs(t, err, sdkerrors.ErrTokenExchangeFailed)

			_, err = client.AccessTokenMetadata(context.Background(), "tok")
			require.ErrorIs(t, err, sdkerrors.ErrTokenExchangeFailed)
		})
	}

	t.Run("provider rejection passes through", func(t *testing.T) {
		_, err := newClient(&fakeCaller{status: 401}).AppAccessToken(context.Background())
		require.ErrorIs(t, err, sdkerrors.ErrAuthentication)
	})
}

func TestAccessTokenMetadata(t *testing.T) {
	body := `{"results":{"access_token":"inspected","token_type":"user","user_id":"u-1","app_id":"app-1"}}`

	t.Run("string token", func(t *testing.T) {
		caller := &fakeCaller{body: body}
		tok, err := newClient(caller).AccessTokenMetadata(context.Background(), "inspected")
		require.NoError(t, err)
		require.True(t, tok.HasMetadata())
		require.Equal(t, "user", tok.TokenType())
		require.Equal(t, "u-1", tok.UserID())

		call := caller.calls[0]
		require.Equal(t, api.MethodGet, call.Method)
		require.Equal(t, api.Params{"input_token": "inspected"}, call.Params)
	})

	t.Run("access token instance", func(t *testing.T) {
		caller := &fakeCaller{body: body}
		in, err := token.New("given")
		require.NoError(t, err)
		_, err = newClient(caller).AccessTokenMetadata(context.Background(), in)
		require.NoError(t, err)
		require.Equal(t, "given", caller.calls[0].Params["input_token"])
	})

	t.Run("falls back to active token", func(t *testing.T) {
		active, err := token.New("active")
		require.NoError(t, err)
		caller := &fakeCaller{body: body, active: active}
		_, err = newClient(caller).AccessTokenMetadata(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, "active", caller.calls[0].Params["input_token"])
	})

	t.Run("missing token", func(t *testing.T) {
		caller := &fakeCaller{body: body}
		_, err := newClient(caller).AccessTokenMetadata(context.Background(), nil)
		require.ErrorIs(t, err, sdkerrors.ErrMissingToken)
		require.Empty(t, caller.calls)
	})

	t.Run("unsupported type", func(t *testing.T) {
		caller := &fakeCaller{body: body}
		_, err := newClient(caller).AccessTokenMetadata(context.Background(), 42)
		require.ErrorIs(t, err, sdkerrors.ErrInvalidArgument)
		require.Empty(t, caller.calls)
	})
}
