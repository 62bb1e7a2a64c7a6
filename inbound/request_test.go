package inbound_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/stretchr/testify/require"
)

func TestFromHTTP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://app.example.com/callback?code=abc&state=xyz", nil)
	r.AddCookie(&http.Cookie{Name: "fplsr_1", Value: "signed"})
	r.RemoteAddr = "10.0.0.1:5555"

	in := inbound.FromHTTP(r)
	require.Equal(t, "abc", in.Query("code"))
	require.Equal(t, "xyz", in.Query("state"))
	require.Equal(t, "", in.Query("token"))
	require.Equal(t, "signed", in.Cookie("fplsr_1"))
	require.Equal(t, "", in.Cookie("missing"))
	require.Equal(t, "http://app.example.com/callback", in.CurrentURL())
	require.Equal(t, "10.0.0.1:5555", in.RemoteAddr())
}

func TestCurrentURL_Scheme(t *testing.T) {
	t.Run("tls", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "https://secure.example.com/a/b?x=1", nil)
		r.TLS = &tls.ConnectionState{}
		require.Equal(t, "https://secure.example.com/a/b", inbound.FromHTTP(r).CurrentURL())
	})

	t.Run("forwarded proto", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "http://proxy.example.com/cb", nil)
		r.Header.Set("X-Forwarded-Proto", "https")
		require.Equal(t, "https://proxy.example.com/cb", inbound.FromHTTP(r).CurrentURL())
	})

	t.Run("unknown forwarded proto is ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "http://app.example/cb", nil)
		r.Header.Set("X-Forwarded-Proto", "javascript")
		require.Equal(t, "http://app.example/cb", inbound.FromHTTP(r).CurrentURL())
		require.Equal(t, "http", inbound.Scheme(r))
	})

	t.Run("forwarded proto is case insensitive", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "http://app.example/cb", nil)
		r.Header.Set("X-Forwarded-Proto", "HTTPS")
		require.Equal(t, "https", inbound.Scheme(r))
	})
}
