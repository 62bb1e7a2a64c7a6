// Package server is a small web app that logs users in to a fliPoll app with
// the SDK, using either the redirect flow or the embedded cookie flow.
package server

import (
	"fmt"
	"net/http"
	"strings"

	flipoll "github.com/jrsteele09/go-flipoll-sdk"
	"github.com/jrsteele09/go-flipoll-sdk/api"
	"github.com/jrsteele09/go-flipoll-sdk/internal/config"
	"github.com/jrsteele09/go-flipoll-sdk/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SessionStore hands out per-session stores keyed by the session cookie.
type SessionStore interface {
	Session(sessionID string) sessions.Store
	DeleteSession(sessionID string) error
}

type Server struct {
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	sessions  SessionStore
	transport api.Transport
}

type Option func(*Server)

// WithTransport shares one fliPoll transport across requests.
func WithTransport(transport api.Transport) Option {
	return func(s *Server) {
		s.transport = transport
	}
}

func New(cfg config.Config, sessionStore SessionStore, opts ...Option) (*Server, error) {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: sessionStore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transport == nil {
		s.transport = api.NewHTTPTransport()
	}

	// Fail at startup rather than on the first request.
	if _, err := s.newClient(); err != nil {
		return nil, errors.Wrap(err, "[Server New] invalid fliPoll configuration")
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// newClient builds a fliPoll client for one request. The active token of a
// client belongs to a single user so clients are never shared.
func (s *Server) newClient() (*flipoll.Client, error) {
	opts := []flipoll.Option{flipoll.WithTransport(s.transport)}
	if baseURL := s.config.GetAPIBaseURL(); baseURL != "" {
		opts = append(opts, flipoll.WithBaseURL(baseURL))
	}
	if intentURL := s.config.GetIntentURL(); intentURL != "" {
		opts = append(opts, flipoll.WithIntentURL(intentURL))
	}
	return flipoll.New(flipoll.Config{
		AppID:      s.config.GetAppID(),
		AppSecret:  s.config.GetAppSecret(),
		APIVersion: s.config.GetAPIVersion(),
	}, opts...)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
