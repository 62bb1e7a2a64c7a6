// Package signedrequest encodes and verifies the HMAC protected payloads that
// the fliPoll JavaScript SDK drops into the browser for embedded logins.
//
// A signed request is SIGNATURE|PAYLOAD where PAYLOAD is the base64url JSON
// metadata and SIGNATURE is the base64url HMAC-SHA256 of the encoded PAYLOAD
// keyed with the app secret.
package signedrequest

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/pkg/errors"
)

const separator = "|"

// encoding is strict so that changed padding bits in the signature segment
// cannot decode to the same bytes.
var encoding = base64.RawURLEncoding.Strict()

// Codec signs and verifies signed requests for one app secret.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewCodec returns a codec keyed with the app secret.
func NewCodec(appSecret string) (*Codec, error) {
	if appSecret == "" {
		return nil, errors.Wrap(sdkerrors.ErrConfig, "[signedrequest.NewCodec] app secret is required")
	}
	return &Codec{
		secret: []byte(appSecret),
		method: jwt.SigningMethodHS256,
	}, nil
}

// Encode serialises metadata into a signed request string.
func (c *Codec) Encode(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "", errors.Wrap(sdkerrors.ErrInvalidMetadata, "[Encode] metadata is empty")
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return "", errors.Wrapf(sdkerrors.ErrInvalidMetadata, "[Encode] %v", err)
	}
	encodedPayload := encoding.EncodeToString(payload)

	signature, err := c.method.Sign(encodedPayload, c.secret)
	if err != nil || len(signature) == 0 {
		return "", errors.Wrapf(sdkerrors.ErrInvalidMetadata, "[Encode] signing failed: %v", err)
	}
	return encoding.EncodeToString(signature) + separator + encodedPayload, nil
}

// Decode verifies the signature of raw and returns its metadata.
func (c *Codec) Decode(raw string) (map[string]any, error) {
	parts := strings.Split(raw, separator)
	if len(parts) != 2 {
		return nil, errors.Wrap(sdkerrors.ErrInvalidSignedRequest, "[Decode] expected two segments")
	}
	encodedSignature, encodedPayload := parts[0], parts[1]

	signature, err := decodeSegment(encodedSignature)
	if err != nil || len(signature) == 0 {
		return nil, errors.Wrap(sdkerrors.ErrInvalidSignedRequest, "[Decode] malformed signature")
	}

	// The HMAC covers the payload segment exactly as received.
	if err := c.method.Verify(encodedPayload, signature, c.secret); err != nil {
		return nil, errors.Wrap(sdkerrors.ErrInvalidSignedRequest, "[Decode] signature mismatch")
	}

	payload, err := decodeSegment(encodedPayload)
	if err != nil {
		return nil, errors.Wrap(sdkerrors.ErrInvalidSignedRequest, "[Decode] malformed payload")
	}
	var metadata map[string]any
	if err := json.Unmarshal(payload, &metadata); err != nil || len(metadata) == 0 {
		return nil, errors.Wrap(sdkerrors.ErrInvalidSignedRequest, "[Decode] payload is not a json object")
	}
	return metadata, nil
}

// decodeSegment accepts segments with or without trailing padding.
func decodeSegment(segment string) ([]byte, error) {
	return encoding.DecodeString(strings.TrimRight(segment, "="))
}
