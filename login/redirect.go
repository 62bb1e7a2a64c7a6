package login

import (
	"context"
	"crypto/subtle"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/sessions"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// RedirectHandler drives the OAuth redirect login. LoginURL stores a state
// token in the session; AccessToken consumes it on the callback request.
type RedirectHandler struct {
	app       App
	exchanger Exchanger
	req       inbound.Request
	store     sessions.Store
	intentURL string
	now       func() time.Time
	logger    zerolog.Logger
}

type RedirectOption func(*RedirectHandler)

// WithIntentURL points the handler at a different fliPoll intent host.
func WithIntentURL(intentURL string) RedirectOption {
	return func(h *RedirectHandler) {
		h.intentURL = strings.TrimRight(intentURL, "/")
	}
}

func WithNowFunc(now func() time.Time) RedirectOption {
	return func(h *RedirectHandler) {
		h.now = now
	}
}

func WithLogger(logger zerolog.Logger) RedirectOption {
	return func(h *RedirectHandler) {
		h.logger = logger
	}
}

func NewRedirectHandler(app App, exchanger Exchanger, req inbound.Request, store sessions.Store, opts ...RedirectOption) *RedirectHandler {
	h := &RedirectHandler{
		app:       app,
		exchanger: exchanger,
		req:       req,
		store:     store,
		intentURL: DefaultIntentURL,
		now:       time.Now,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LoginURL returns the provider URL to send the user to. Scopes are joined
// with commas. Each call replaces the state held in the session.
func (h *RedirectHandler) LoginURL(redirectURI string, scope []string) (string, error) {
	if err := validateRedirectURI("LoginURL", redirectURI); err != nil {
		return "", err
	}

	state, err := newState(h.req.RemoteAddr(), h.now())
	if err != nil {
		return "", errors.Wrap(err, "[LoginURL] failed to create state")
	}
	if err := h.store.Set(sessions.StateKey, state); err != nil {
		return "", errors.Wrap(err, "[LoginURL] failed to store state")
	}
	h.logger.Debug().Str("app_id", h.app.AppID()).Msg("fliPoll login state created")

	var opts []oauth2.AuthCodeOption
	if len(scope) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam("scope", strings.Join(scope, ",")))
	}
	return h.oauthConfig(redirectURI).AuthCodeURL(state, opts...), nil
}

// AccessToken completes the login on the callback request. redirectURI
// defaults to the current request URL. The stored state is single use.
func (h *RedirectHandler) AccessToken(ctx context.Context, redirectURI string) (*token.AccessToken, error) {
	bare := h.req.Query(QueryToken)
	code := h.req.Query(QueryCode)
	if bare == "" && code == "" {
		return nil, errors.Wrap(sdkerrors.ErrNoOAuthData, "[RedirectHandler.AccessToken] no token or code in request")
	}

	if err := h.checkState(); err != nil {
		return nil, err
	}

	var (
		tok *token.AccessToken
		err error
	)
	if bare != "" {
		tok, err = token.New(bare)
	} else {
		if redirectURI == "" {
			redirectURI = h.req.CurrentURL()
		}
		tok, err = h.exchanger.UserAccessToken(ctx, code, redirectURI)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RedirectHandler.AccessToken]")
	}

	if err := h.store.Delete(sessions.StateKey); err != nil {
		return nil, errors.Wrap(err, "[RedirectHandler.AccessToken] failed to delete state")
	}
	h.logger.Debug().Str("app_id", h.app.AppID()).Msg("fliPoll login state consumed")
	return tok, nil
}

func (h *RedirectHandler) checkState() error {
	queryState := h.req.Query(QueryState)
	sessionState, ok, err := h.store.Get(sessions.StateKey)
	if err != nil {
		return errors.Wrap(err, "[RedirectHandler.AccessToken] failed to read state")
	}
	if !ok || queryState == "" || sessionState == "" ||
		subtle.ConstantTimeCompare([]byte(queryState), []byte(sessionState)) != 1 {
		return errors.Wrap(sdkerrors.ErrStateMismatch, "[RedirectHandler.AccessToken]")
	}
	return nil
}

// LogoutURL returns the provider URL that logs the active user out and then
// returns to redirectURI. Only user tokens can log out.
func (h *RedirectHandler) LogoutURL(redirectURI string) (string, error) {
	tok := h.app.AccessToken()
	if tok == nil {
		return "", errors.Wrap(sdkerrors.ErrNoActiveToken, "[LogoutURL]")
	}
	if tokenType := tok.TokenType(); tokenType != "" && tokenType != token.TypeUser {
		return "", errors.Wrapf(sdkerrors.ErrUnsupportedTokenType, "[LogoutURL] token type %q", tokenType)
	}
	if err := validateRedirectURI("LogoutURL", redirectURI); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client_id", h.app.AppID())
	q.Set("redirect_uri", redirectURI)
	return h.intentURL + "/logout?" + q.Encode(), nil
}

func (h *RedirectHandler) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    h.app.AppID(),
		RedirectURL: redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL: h.intentURL + "/oauth",
		},
	}
}
