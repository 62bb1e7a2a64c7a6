package server

import (
	"encoding/json"
	"net/http"

	flipoll "github.com/jrsteele09/go-flipoll-sdk"
	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/jrsteele09/go-flipoll-sdk/sdkerrors"
	"github.com/jrsteele09/go-flipoll-sdk/sessions"
	"github.com/jrsteele09/go-flipoll-sdk/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// StatusResponse is the body of the index route.
type StatusResponse struct {
	LoggedIn  bool     `json:"logged_in"`
	TokenType string   `json:"token_type,omitempty"`
	AppID     string   `json:"app_id,omitempty"`
	UserID    string   `json:"user_id,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	LoginURL  string   `json:"login_url,omitempty"`
	LogoutURL string   `json:"logout_url,omitempty"`
}

func (s *Server) callbackURL() string {
	return s.config.GetBaseURL() + RouteCallback
}

// IndexHandler reports whether the session is logged in, introspecting the
// stored token when it is.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, store := s.session(w, r)
		client, ok := s.sessionClient(w, store)
		if !ok {
			return
		}
		if client.AccessToken() == nil {
			writeJSON(w, http.StatusOK, StatusResponse{LoginURL: RouteLogin})
			return
		}

		tok, err := client.OAuth2().AccessTokenMetadata(r.Context(), nil)
		if err != nil {
			if sdkerrors.RequiresReauthentication(err) {
				if delErr := store.Delete(sessions.TokenKey); delErr != nil {
					log.Err(delErr).Msg("Index: failed to drop rejected token")
				}
			}
			writeSDKError(w, "Index", err)
			return
		}
		writeJSON(w, http.StatusOK, statusFromToken(tok))
	}
}

func statusFromToken(tok *token.AccessToken) StatusResponse {
	return StatusResponse{
		LoggedIn:  true,
		TokenType: tok.TokenType(),
		AppID:     tok.AppID(),
		UserID:    tok.UserID(),
		Scopes:    tok.Scopes(),
		LogoutURL: RouteLogout,
	}
}

// LoginHandler starts the redirect flow.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, store := s.session(w, r)
		client, err := s.newClient()
		if err != nil {
			writeSDKError(w, "Login", err)
			return
		}

		loginURL, err := client.RedirectLoginHandler(inbound.FromHTTP(r), store).LoginURL(s.callbackURL(), s.config.GetScopes())
		if err != nil {
			writeSDKError(w, "Login", err)
			return
		}
		http.Redirect(w, r, loginURL, http.StatusFound)
	}
}

// CallbackHandler completes the redirect flow.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, store := s.session(w, r)
		client, err := s.newClient()
		if err != nil {
			writeSDKError(w, "Callback", err)
			return
		}

		tok, err := client.RedirectLoginHandler(inbound.FromHTTP(r), store).AccessToken(r.Context(), s.callbackURL())
		if err != nil {
			writeSDKError(w, "Callback", err)
			return
		}
		s.completeLogin(w, r, store, tok)
	}
}

// EmbeddedHandler logs in from the signed request cookie left by the fliPoll
// JavaScript SDK.
func (s *Server) EmbeddedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, store := s.session(w, r)
		client, err := s.newClient()
		if err != nil {
			writeSDKError(w, "Embedded", err)
			return
		}

		tok, err := client.EmbeddedLoginHandler(inbound.FromHTTP(r)).AccessToken(r.Context())
		if err != nil {
			writeSDKError(w, "Embedded", err)
			return
		}
		s.completeLogin(w, r, store, tok)
	}
}

func (s *Server) completeLogin(w http.ResponseWriter, r *http.Request, store sessions.Store, tok *token.AccessToken) {
	if err := store.Set(sessions.TokenKey, tok.String()); err != nil {
		log.Err(err).Msg("Login: failed to store access token")
		writeJSONError(w, "server_error", "failed to store session", http.StatusInternalServerError)
		return
	}
	redirectSuccess(w, r, RouteIndex)
}

// LogoutHandler ends the local session and sends the user to the fliPoll
// logout page, which returns them to the index.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, store := s.session(w, r)
		client, ok := s.sessionClient(w, store)
		if !ok {
			return
		}
		if client.AccessToken() == nil {
			redirectSuccess(w, r, RouteIndex)
			return
		}

		logoutURL, err := client.RedirectLoginHandler(inbound.FromHTTP(r), store).LogoutURL(s.config.GetBaseURL() + RouteIndex)
		if err != nil {
			writeSDKError(w, "Logout", err)
			return
		}

		if err := s.sessions.DeleteSession(sessionID); err != nil {
			log.Err(err).Msg("Logout: failed to delete session")
		}
		s.ClearSessionCookie(w, r)
		http.Redirect(w, r, logoutURL, http.StatusFound)
	}
}

// sessionClient returns a client carrying the session's token, if any.
func (s *Server) sessionClient(w http.ResponseWriter, store sessions.Store) (*flipoll.Client, bool) {
	client, err := s.newClient()
	if err != nil {
		writeSDKError(w, "Session", err)
		return nil, false
	}
	raw, ok, err := store.Get(sessions.TokenKey)
	if err != nil {
		log.Err(err).Msg("Session: failed to read access token")
		writeJSONError(w, "server_error", "failed to read session", http.StatusInternalServerError)
		return nil, false
	}
	if ok {
		if err := client.SetAccessToken(raw); err != nil {
			log.Err(err).Msg("Session: stored access token is invalid")
		}
	}
	return client, true
}

// writeSDKError maps SDK error kinds onto HTTP responses.
func writeSDKError(w http.ResponseWriter, op string, err error) {
	status, code := http.StatusInternalServerError, "server_error"
	switch {
	case errors.Is(err, sdkerrors.ErrStateMismatch),
		errors.Is(err, sdkerrors.ErrNoOAuthData),
		errors.Is(err, sdkerrors.ErrNoEmbeddedLogin),
		errors.Is(err, sdkerrors.ErrInvalidSignedRequest),
		errors.Is(err, sdkerrors.ErrAppMismatch),
		errors.Is(err, sdkerrors.ErrInvalidRedirectURI),
		errors.Is(err, sdkerrors.ErrUnsupportedTokenType):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, sdkerrors.ErrAuthentication):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, sdkerrors.ErrTransport),
		errors.Is(err, sdkerrors.ErrAPI),
		errors.Is(err, sdkerrors.ErrTokenExchangeFailed):
		status, code = http.StatusBadGateway, "upstream_error"
	}
	log.Err(err).Str("op", op).Int("status", status).Msg("fliPoll request failed")
	writeJSONError(w, code, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes an OAuth2 style error response
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
