package token

import (
	"maps"
	"strings"
	"time"

	"github.com/jrsteele09/go-flipoll-sdk/internal/utils"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Metadata keys returned by the fliPoll token endpoints.
const (
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldAppID       = "app_id"
	FieldUserID      = "user_id"
	FieldScopes      = "scopes"
	FieldExpiresIn   = "expires_in"
	FieldExpiresAt   = "expires_at"
)

// Token types carried in the token_type metadata field.
const (
	TypeUser = "user"
	TypeApp  = "app"
)

// Metadata is the descriptive data bundled with an access token.
type Metadata map[string]any

// AccessToken is an immutable fliPoll access token. It is either a bare token
// string or a token with metadata; String always yields the bare token.
type AccessToken struct {
	value    string
	metadata Metadata
}

// New wraps a bare token string.
func New(value string) (*AccessToken, error) {
	if strings.TrimSpace(value) == "" {
		return nil, errors.Wrap(sdkerrors.ErrInvalidTokenFormat, "[token.New] empty access token")
	}
	return &AccessToken{value: value}, nil
}

// FromMetadata builds the metadata variant. The map must carry a non-empty
// string access_token and is copied so later changes by the caller are not seen.
func FromMetadata(metadata map[string]any) (*AccessToken, error) {
	raw, ok := metadata[FieldAccessToken]
	if !ok {
		return nil, errors.Wrap(sdkerrors.ErrInvalidTokenFormat, "[token.FromMetadata] missing access_token")
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, errors.Wrap(sdkerrors.ErrInvalidTokenFormat, "[token.FromMetadata] access_token must be a non-empty string")
	}
	return &AccessToken{value: value, metadata: maps.Clone(Metadata(metadata))}, nil
}

// Parse accepts any of the shapes a caller may hold a token in.
func Parse(v any) (*AccessToken, error) {
	switch t := v.(type) {
	case *AccessToken:
		if t == nil {
			return nil, errors.Wrap(sdkerrors.ErrInvalidTokenFormat, "[token.Parse] nil access token")
		}
		return t, nil
	case AccessToken:
		if t.value == "" {
			return nil, errors.Wrap(sdkerrors.ErrInvalidTokenFormat, "[token.Parse] zero access token")
		}
		return &t, nil
	case string:
		return New(t)
	case Metadata:
		return FromMetadata(t)
	case map[string]any:
		return FromMetadata(t)
	default:
		return nil, errors.Wrapf(sdkerrors.ErrInvalidTokenFormat, "[token.Parse] unsupported access token type %T", v)
	}
}

// String returns the bare token value.
func (t *AccessToken) String() string {
	return t.value
}

// HasMetadata reports whether the token was built from a metadata bundle.
func (t *AccessToken) HasMetadata() bool {
	return t.metadata != nil
}

// Metadata returns a copy of the token metadata, or nil for a bare token.
func (t *AccessToken) Metadata() Metadata {
	return maps.Clone(t.metadata)
}

// Get looks up a metadata field by its key. Unset fields and bare tokens
// report false.
func (t *AccessToken) Get(field string) (any, bool) {
	if t.metadata == nil {
		return nil, false
	}
	v, ok := t.metadata[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Lookup resolves an accessor style name such as "GetTokenType" to the
// token_type field. Names that are not accessors are a programming error.
func (t *AccessToken) Lookup(accessor string) (any, bool, error) {
	field, err := FieldName(accessor)
	if err != nil {
		return nil, false, err
	}
	v, ok := t.Get(field)
	return v, ok, nil
}

// FieldName maps an accessor name to its snake_case metadata key.
func FieldName(accessor string) (string, error) {
	if len(accessor) <= 3 || !strings.EqualFold(accessor[:3], "get") {
		return "", errors.Wrapf(sdkerrors.ErrUnknownAccessor, "[token.FieldName] %q", accessor)
	}
	return utils.SnakeCase(accessor[3:]), nil
}

func (t *AccessToken) stringField(field string) string {
	v, ok := t.Get(field)
	if !ok {
		return ""
	}
	return utils.ToString(v)
}

// TokenType is "user" or "app" when the metadata says so, else empty.
func (t *AccessToken) TokenType() string { return t.stringField(FieldTokenType) }

func (t *AccessToken) AppID() string { return t.stringField(FieldAppID) }

func (t *AccessToken) UserID() string { return t.stringField(FieldUserID) }

// Scopes accepts either a JSON array or a comma separated string.
func (t *AccessToken) Scopes() []string {
	v, ok := t.Get(FieldScopes)
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case []any:
		return utils.ToStringSlice(s)
	case []string:
		return append([]string(nil), s...)
	case string:
		if s == "" {
			return nil
		}
		return strings.Split(s, ",")
	}
	return nil
}

// ExpiresIn returns the lifetime the token endpoint reported.
func (t *AccessToken) ExpiresIn() (time.Duration, bool) {
	v, ok := t.Get(FieldExpiresIn)
	if !ok {
		return 0, false
	}
	seconds, ok := number(v)
	if !ok {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// Expiry returns the absolute expiry time when the metadata carries one.
func (t *AccessToken) Expiry() (time.Time, bool) {
	v, ok := t.Get(FieldExpiresAt)
	if !ok {
		return time.Time{}, false
	}
	unix, ok := number(v)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

// OAuth2Token converts the token for use with golang.org/x/oauth2 clients.
func (t *AccessToken) OAuth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken: t.value,
		TokenType:   "Bearer",
	}
	if expiry, ok := t.Expiry(); ok {
		tok.Expiry = expiry
	}
	return tok
}

func number(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
