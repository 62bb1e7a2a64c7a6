package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-flipoll-sdk/inbound"
	"github.com/jrsteele09/go-flipoll-sdk/sessions"
)

// sessionCookieName is the cookie holding the demo session id
const sessionCookieName = "flipoll_session"

// session returns the caller's session, starting a new one when the request
// carries no valid session cookie.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, sessions.Store) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value, s.sessions.Session(c.Value)
		}
	}
	sessionID := uuid.NewString()
	s.SetSessionCookie(w, r, sessionID, int(s.config.GetMaxSessionAge().Seconds()))
	return sessionID, s.sessions.Session(sessionID)
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, maxAge int) {
	isSecure := s.config.GetSecureCookies() || inbound.Scheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.SetSessionCookie(w, r, "", -1)
}

func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
