package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-flipoll-sdk/internal/config"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("FLIPOLL_APP_ID", "123")
	t.Setenv("FLIPOLL_APP_SECRET", "secret")
}

func TestParse_Defaults(t *testing.T) {
	setCredentials(t)

	cfg, err := config.Parse()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "fliPoll Login Demo", cfg.GetAppName())
	require.Equal(t, "./data/sessions.db", cfg.GetSessionDB())
	require.Equal(t, "http://localhost:8080", cfg.GetBaseURL())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "123", cfg.GetAppID())
	require.Equal(t, "secret", cfg.GetAppSecret())
	require.Equal(t, "v2.1", cfg.GetAPIVersion())
	require.Empty(t, cfg.GetScopes())
	require.Empty(t, cfg.GetAPIBaseURL())
	require.Empty(t, cfg.GetIntentURL())
	require.Equal(t, 30*time.Minute, cfg.GetMaxSessionAge())
	require.False(t, cfg.GetSecureCookies())
}

func TestParse_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("PORT", ":9000")
	t.Setenv("BASE_URL", "https://demo.example/")
	t.Setenv("FLIPOLL_SCOPES", "polls,votes")
	t.Setenv("FLIPOLL_API_VERSION", "v1.0")
	t.Setenv("SESSION_MAX_AGE", "1h")
	t.Setenv("SECURE_COOKIES", "true")

	cfg, err := config.Parse()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.GetPort())
	require.Equal(t, "https://demo.example", cfg.GetBaseURL())
	require.Equal(t, []string{"polls", "votes"}, cfg.GetScopes())
	require.Equal(t, "v1.0", cfg.GetAPIVersion())
	require.Equal(t, time.Hour, cfg.GetMaxSessionAge())
	require.True(t, cfg.GetSecureCookies())
}

func TestParse_RequiresCredentials(t *testing.T) {
	t.Run("app id", func(t *testing.T) {
		t.Setenv("FLIPOLL_APP_ID", "")
		t.Setenv("FLIPOLL_APP_SECRET", "secret")
		_, err := config.Parse()
		require.ErrorIs(t, err, sdkerrors.ErrConfig)
	})

	t.Run("app secret", func(t *testing.T) {
		t.Setenv("FLIPOLL_APP_ID", "123")
		t.Setenv("FLIPOLL_APP_SECRET", "")
		_, err := config.Parse()
		require.ErrorIs(t, err, sdkerrors.ErrConfig)
	})

	t.Run("bad duration", func(t *testing.T) {
		setCredentials(t)
		t.Setenv("SESSION_MAX_AGE", "soon")
		_, err := config.Parse()
		require.Error(t, err)
	})
}
