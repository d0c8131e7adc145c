// Package httpapi exposes the translator over HTTP
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/router"
)

// Translator runs a translation request
type Translator interface {
	Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResponse, error)
}

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	translator Translator
	router     *router.Router
	log        zerolog.Logger
	origins    []string
}

// Option configures a Server
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins, default is any origin
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// New creates a Server; r answers the languages endpoint
func New(t Translator, r *router.Router, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		translator: t,
		router:     r,
		log:        log,
		origins:    []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the chi mux with middleware and endpoints
func (s *Server) Routes() http.Handler {
	m := chi.NewRouter()

	m.Use(chimw.RealIP)
	m.Use(s.requestID)
	m.Use(s.accessLog)
	m.Use(chimw.Recoverer)
	m.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	m.Get("/health", s.handleHealth)
	m.Route("/v1", func(r chi.Router) {
		r.Post("/translate", s.handleTranslate)
		r.Get("/languages", s.handleLanguages)
	})

	return m
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
