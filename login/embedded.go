package login

import (
	"context"

	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/signedrequest"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
)

// EmbeddedHandler reads the signed request cookie set by the fliPoll
// JavaScript SDK.
type EmbeddedHandler struct {
	app       App
	exchanger Exchanger
	req       inbound.Request
}

func NewEmbeddedHandler(app App, exchanger Exchanger, req inbound.Request) *EmbeddedHandler {
	return &EmbeddedHandler{app: app, exchanger: exchanger, req: req}
}

// AccessToken verifies the cookie and returns its token. A code in the payload
// is exchanged with the current request URL as redirect URI; a token in the
// payload is returned with the whole payload as metadata.
func (h *EmbeddedHandler) AccessToken(ctx context.Context) (*token.AccessToken, error) {
	raw := h.req.Cookie(SignedRequestCookie(h.app.AppID()))
	if raw == "" {
		return nil, errors.Wrap(sdkerrors.ErrNoEmbeddedLogin, "[EmbeddedHandler.AccessToken]")
	}

	codec, err := signedrequest.NewCodec(h.app.AppSecret())
	if err != nil {
		return nil, err
	}
	signed, err := codec.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "[EmbeddedHandler.AccessToken]")
	}
	if signed.AppID() != h.app.AppID() {
		return nil, errors.Wrapf(sdkerrors.ErrAppMismatch, "[EmbeddedHandler.AccessToken] got app %q", signed.AppID())
	}

	if code := signed.Code(); code != "" {
		tok, err := h.exchanger.UserAccessToken(ctx, code, h.req.CurrentURL())
		if err != nil {
			return nil, errors.Wrap(err, "[EmbeddedHandler.AccessToken]")
		}
		return tok, nil
	}
	if signed.AccessToken() == "" {
		return nil, errors.Wrap(sdkerrors.ErrNoOAuthData, "[EmbeddedHandler.AccessToken] signed request has no code or token")
	}
	tok, err := token.FromMetadata(signed.Metadata())
	if err != nil {
		return nil, errors.Wrapf(sdkerrors.ErrNoOAuthData, "[EmbeddedHandler.AccessToken] %v", err)
	}
	return tok, nil
}
