package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-flipoll-sdk/api"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/stretchr/testify/require"
)

func TestClassify_AuthenticationError(t *testing.T) {
	t.Run("401 without body", func(t *testing.T) {
		_, err := api.Classify(&api.RawResponse{StatusCode: 401})
		require.ErrorIs(t, err, sdkerrors.ErrAuthentication)

		var authErr *sdkerrors.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, 401, authErr.StatusCode)
		require.Equal(t, "Invalid OAuth 2.0 request.", authErr.Message)
		require.True(t, sdkerrors.RequiresReauthentication(err))
	})

	t.Run("oauth error in status line", func(t *testing.T) {
		_, err := api.Classify(&api.RawResponse{
			StatusCode: 400,
			StatusLine: `HTTP/1.1 400 {"Error":"The authorization code has expired."}`,
		})
		var authErr *sdkerrors.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, 400, authErr.StatusCode)
		require.Equal(t, "The authorization code has expired.", authErr.Message)
	})

	t.Run("malformed fragment falls back to default message", func(t *testing.T) {
		_, err := api.Classify(&api.RawResponse{StatusCode: 400, StatusLine: "HTTP/1.1 400 {not json}"})
		var authErr *sdkerrors.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, sdkerrors.DefaultAuthenticationMessage, authErr.Message)
	})

	t.Run("non 200 wins over an error body", func(t *testing.T) {
		_, err := api.Classify(&api.RawResponse{
			StatusCode: 500,
			Body:       []byte(`{"error":{"message":"bad","code":5}}`),
		})
		require.ErrorIs(t, err, sdkerrors.ErrAuthentication)
		require.NotErrorIs(t, err, sdkerrors.ErrAPI)
	})
}

func TestClassify_APIError(t *testing.T) {
	_, err := api.Classify(&api.RawResponse{
		StatusCode: 200,
		Body:       []byte(`{"error":{"message":"bad","code":5}}`),
	})
	require.ErrorIs(t, err, sdkerrors.ErrAPI)

	var apiErr *sdkerrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "bad", apiErr.Message)
	require.Equal(t, 5, apiErr.Code)
	require.False(t, sdkerrors.IsTransient(err))
}

func TestClassify_Success(t *testing.T) {
	t.Run("results present", func(t *testing.T) {
		resp, err := api.Classify(&api.RawResponse{
			StatusCode: 200,
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       []byte(`{"results":{"ok":true}}`),
		})
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":true}`, string(resp.Results))
		require.Equal(t, map[string]any{"ok": true}, resp.ResultsMap())
		require.True(t, resp.Get("ok").Bool())
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var out struct {
			OK bool `json:"ok"`
		}
		require.NoError(t, resp.DecodeResults(&out))
		require.True(t, out.OK)
	})

	t.Run("results absent", func(t *testing.T) {
		resp, err := api.Classify(&api.RawResponse{StatusCode: 200, Body: []byte(`{"other":1}`)})
		require.NoError(t, err)
		require.Nil(t, resp.Results)
		require.Nil(t, resp.ResultsMap())
		require.ErrorIs(t, resp.DecodeResults(&struct{}{}), sdkerrors.ErrInvalidArgument)
	})

	t.Run("array results", func(t *testing.T) {
		resp, err := api.Classify(&api.RawResponse{StatusCode: 200, Body: []byte(`{"results":[1,2]}`)})
		require.NoError(t, err)
		require.JSONEq(t, `[1,2]`, string(resp.Results))
		require.Nil(t, resp.ResultsMap())
	})
}

func TestClassify_RawHeaderBlock(t *testing.T) {
	raw := "HTTP/1.1 301 Moved Permanently\r\nLocation: https://flipoll.com/api/v2.1/me\r\n\r\n" +
		"HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nX-Request-Id: abc\r\n"

	t.Run("last block gives status and headers", func(t *testing.T) {
		resp, err := api.Classify(&api.RawResponse{RawHeader: raw, Body: []byte(`{"results":1}`)})
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		require.Equal(t, "abc", resp.Header.Get("X-Request-Id"))
		require.Empty(t, resp.Header.Get("Location"))
		require.Equal(t, "1", string(resp.Results))
	})

	t.Run("given status code is kept", func(t *testing.T) {
		_, err := api.Classify(&api.RawResponse{StatusCode: 403, RawHeader: raw})
		var authErr *sdkerrors.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, 403, authErr.StatusCode)
	})

	t.Run("oauth error from last block", func(t *testing.T) {
		block := "HTTP/1.1 302 Found\n\nHTTP/1.1 401 {\"Error\":\"Invalid client.\"}\nContent-Length: 0\n"
		_, err := api.Classify(&api.RawResponse{RawHeader: block})
		var authErr *sdkerrors.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, 401, authErr.StatusCode)
		require.Equal(t, "Invalid client.", authErr.Message)
	})
}

func TestClassify_Nil(t *testing.T) {
	_, err := api.Classify(nil)
	require.ErrorIs(t, err, sdkerrors.ErrTransport)
}
