package signedrequest

import (
	"maps"

	"github.com/jrsteele09/go-flipoll-sdk/internal/utils"
)

// Metadata keys found in embedded login payloads.
const (
	FieldAppID       = "app_id"
	FieldUserID      = "user_id"
	FieldCode        = "code"
	FieldAccessToken = "access_token"
	FieldIssuedAt    = "issued_at"
)

// SignedRequest is a verified signed request. It cannot be changed after Parse.
type SignedRequest struct {
	raw      string
	metadata map[string]any
}

// Parse verifies raw with the codec and keeps the decoded metadata.
func (c *Codec) Parse(raw string) (*SignedRequest, error) {
	metadata, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &SignedRequest{raw: raw, metadata: metadata}, nil
}

// String returns the signed request exactly as received.
func (s *SignedRequest) String() string {
	return s.raw
}

// Metadata returns a copy of the decoded payload.
func (s *SignedRequest) Metadata() map[string]any {
	return maps.Clone(s.metadata)
}

// Get returns a payload field; unset fields report false.
func (s *SignedRequest) Get(field string) (any, bool) {
	v, ok := s.metadata[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (s *SignedRequest) stringField(field string) string {
	v, ok := s.Get(field)
	if !ok {
		return ""
	}
	return utils.ToString(v)
}

func (s *SignedRequest) AppID() string { return s.stringField(FieldAppID) }

func (s *SignedRequest) UserID() string { return s.stringField(FieldUserID) }

// Code is the OAuth authorization code, when the payload carries one.
func (s *SignedRequest) Code() string { return s.stringField(FieldCode) }

// AccessToken is the bare access token, when the payload carries one.
func (s *SignedRequest) AccessToken() string { return s.stringField(FieldAccessToken) }
