package oauth2

import (
	"encoding/json"
	"strings"

	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/pkg/errors"
)

// ExchangeResult is the results member of a token endpoint response.
// It is consumed immediately to build an access token and never stored.
type ExchangeResult struct {
	// AccessToken is the bare token string. Required.
	AccessToken string `json:"access_token"`

	// TokenType is "user" or "app" when the endpoint reports it.
	TokenType string `json:"token_type,omitempty"`

	// AppID is the app the token was issued to. fliPoll sends it as a number
	// or a string depending on the API version.
	AppID json.RawMessage `json:"app_id,omitempty"`

	// ExpiresIn is the remaining lifetime in seconds.
	ExpiresIn int64 `json:"expires_in,omitempty"`
}

func (r ExchangeResult) validate(op string) error {
	if strings.TrimSpace(r.AccessToken) == "" {
		return errors.Wrapf(sdkerrors.ErrTokenExchangeFailed, "[%s] response has no access_token", op)
	}
	return nil
}
