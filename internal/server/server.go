package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mpetters/messagely/internal/auth"
	"github.com/mpetters/messagely/internal/config"
	"github.com/mpetters/messagely/internal/http/handlers"
	"github.com/mpetters/messagely/internal/middleware"
	"github.com/mpetters/messagely/internal/service"
	"github.com/mpetters/messagely/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, services, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log *zap.SugaredLogger) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	users := service.NewUsers(store, cfg.BcryptCost)
	messages := service.NewMessages(store)

	r := NewRouter(cfg, tokens, users, messages, log)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewRouter builds the chi router with the public and token-guarded route
// groups. Exposed separately so tests can drive the full stack in-process.
func NewRouter(cfg config.Config, tokens *auth.TokenManager, users *service.Users, messages *service.Messages, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(users, tokens, log).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(tokens, log))
		handlers.NewUsersHandler(users, log).Register(r)
		handlers.NewMessagesHandler(messages, log).Register(r)
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
