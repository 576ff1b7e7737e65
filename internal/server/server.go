package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/config"
	"github.com/mindcare/mindcare-be/internal/http/handlers"
	"github.com/mindcare/mindcare-be/internal/middleware"
	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Options carries the collaborators New needs beyond configuration.
type Options struct {
	Store  storage.Store
	Log    *slog.Logger
	Clock  auth.Clock
	Hasher *auth.PasswordHasher
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, opts Options) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(opts.Log.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler with the full middleware chain.
func NewHandler(cfg config.Config, opts Options) http.Handler {
	hasher := opts.Hasher
	if hasher == nil {
		hasher = auth.NewPasswordHasher(cfg.BcryptCost)
	}
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	}, opts.Clock)
	cookie := auth.NewSessionCookie(cfg.CookieSecure, tokens.TTL())
	guard := middleware.NewGuard(tokens, cookie, opts.Log)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), opts.Store).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handlers.NewAuthHandler(opts.Store, hasher, tokens, cookie, opts.Log).Register(mux)
	handlers.NewUserHandler(opts.Store, cookie, opts.Log).Register(mux, guard)
	handlers.NewJournalHandler(opts.Store, opts.Log).Register(mux, guard)
	handlers.NewResourceHandler(opts.Store, models.MentalResource, "mentalResources", opts.Log).Register(mux, guard)
	handlers.NewResourceHandler(opts.Store, models.SupportResource, "support", opts.Log).Register(mux, guard)
	handlers.NewMentalCheckHandler(opts.Store, opts.Log).Register(mux, guard)

	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(opts.Log, handler)
	handler = middleware.Recovery(opts.Log, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)
	return handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
