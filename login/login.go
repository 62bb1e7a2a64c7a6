// Package login implements the two ways a fliPoll user logs in to an app: the
// OAuth redirect flow and the embedded flow, where the fliPoll JavaScript SDK
// leaves a signed request in a cookie.
package login

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
)

const (
	DefaultIntentURL = "https://flipoll.com/intent"

	// SignedRequestCookiePrefix is followed by the app id in the embedded
	// login cookie name.
	SignedRequestCookiePrefix = "fplsr_"
)

// Query parameters the provider sends back to the redirect URI.
const (
	QueryToken = "token"
	QueryCode  = "code"
	QueryState = "state"
)

// App is the configured fliPoll app the handlers log in to.
type App interface {
	AppID() string
	AppSecret() string
	AccessToken() *token.AccessToken
}

// Exchanger turns an authorization code into a user access token.
type Exchanger interface {
	UserAccessToken(ctx context.Context, code, redirectURI string) (*token.AccessToken, error)
}

// SignedRequestCookie is the name of the embedded login cookie for appID.
func SignedRequestCookie(appID string) string {
	return SignedRequestCookiePrefix + appID
}

func validateRedirectURI(op, redirectURI string) error {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Wrapf(sdkerrors.ErrInvalidRedirectURI, "[%s] %q is not an absolute url", op, redirectURI)
	}
	return nil
}
