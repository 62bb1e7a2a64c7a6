// Package sessions holds the server side session storage the login flows use
// to carry the CSRF state token from the login redirect to its callback.
package sessions

import "errors"

// Keys written by the SDK. Values are namespaced so they can share a session
// with the integrating application's own data.
const (
	KeyPrefix = "flipoll_"
	StateKey  = KeyPrefix + "state"
	TokenKey  = KeyPrefix + "access_token"
)

var ErrEmptyKey = errors.New("session key cannot be empty")

// Store is scoped to one logical user session.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
