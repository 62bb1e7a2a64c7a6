// Package sdkerrors holds the error taxonomy shared by every package of the SDK.
// Callers match kinds with errors.Is and extract provider details with errors.As.
package sdkerrors

import (
	"errors"
	"fmt"
)

// Configuration and argument errors
var (
	ErrConfig           = errors.New("invalid sdk configuration")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidCallShape = errors.New("invalid api call shape")
)

// Token errors
var (
	ErrInvalidTokenFormat   = errors.New("invalid access token format")
	ErrUnknownAccessor      = errors.New("unknown access token accessor")
	ErrTokenExchangeFailed  = errors.New("access token exchange failed")
	ErrMissingToken         = errors.New("no access token was found")
	ErrNoActiveToken        = errors.New("no access token is available to logout")
	ErrUnsupportedTokenType = errors.New("only user access tokens can be used to logout")
)

// Signed request errors
var (
	ErrInvalidMetadata      = errors.New("invalid metadata")
	ErrInvalidSignedRequest = errors.New("invalid signed request")
)

// Login flow errors
var (
	ErrInvalidRedirectURI = errors.New("a valid redirect uri must be supplied")
	ErrStateMismatch      = errors.New("the login source could not be validated")
	ErrNoOAuthData        = errors.New("no oauth data was found")
	ErrNoEmbeddedLogin    = errors.New("no embedded login detected")
	ErrAppMismatch        = errors.New("the signed request app id does not match the configured app id")
)

// Remote errors. The typed errors below match these with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrAPI            = errors.New("api error")
	ErrTransport      = errors.New("transport failure")
)

// DefaultAuthenticationMessage is used when the provider gave no OAuth error text.
const DefaultAuthenticationMessage = "Invalid OAuth 2.0 request."

// AuthenticationError is returned for any non-200 HTTP status from the API.
// The user normally has to re-authenticate.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error (%d): %s", e.StatusCode, e.Message)
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// APIError is returned when the API answered 200 with an error object.
// The request itself needs fixing.
type APIError struct {
	Message string
	Code    int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// TransportError wraps network and timeout failures. These are transient;
// the SDK never retries them itself.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsTransient reports whether err is a network level failure worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransport)
}

// RequiresReauthentication reports whether the user must log in again.
func RequiresReauthentication(err error) bool {
	return errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrStateMismatch) ||
		errors.Is(err, ErrNoOAuthData)
}
