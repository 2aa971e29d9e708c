package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hamba/avro/v2"
	"github.com/urfave/negroni"

	"avro-mapper/internal/converter"
	"avro-mapper/internal/logging"
)

const (
	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 1 << 20
	// DefaultShutdownTimeout bounds the graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Server serves conversions for one input schema and one Converter.
type Server struct {
	conv        *converter.Converter
	input       avro.Schema
	logger      logging.Logger
	metrics     *metrics
	router      *mux.Router
	maxBody     int64
	stopTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithShutdownTimeout bounds the graceful shutdown in ListenAndServe.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// New returns a server converting records of inputSchema with conv.
func New(conv *converter.Converter, inputSchema avro.Schema, opts ...Option) (*Server, error) {
	if conv == nil {
		return nil, errors.New("converter is nil")
	}

	if inputSchema == nil {
		return nil, errors.New("input schema is nil")
	}

	s := &Server{
		conv:        conv,
		input:       inputSchema,
		logger:      logging.NopLogger{},
		metrics:     newMetrics(),
		router:      mux.NewRouter(),
		maxBody:     DefaultMaxBodyBytes,
		stopTimeout: DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/v1/convert", s.handleConvert()).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/convert/existing", s.handleConvertExisting()).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/required", s.handleRequired()).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth()).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)
}

// Handler returns the routed handler wrapped in the request ID and logging
// middleware.
func (s *Server) Handler() http.Handler {
	n := negroni.New()
	n.UseFunc(requestID)
	n.UseFunc(s.logRequest)
	n.UseHandler(s.router)

	return n
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.stopTimeout)
	defer cancel()

	s.logger.Info("shutting down", "addr", addr)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
