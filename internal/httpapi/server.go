// Package httpapi exposes the similarity and dedup operations over a
// small JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/config"
	"github.com/scribe-intel/scribe/internal/dedup"
	"github.com/scribe-intel/scribe/internal/similarity"
	"github.com/scribe-intel/scribe/internal/store"
)

// Options tunes server timeouts and the listen address.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the detection API. The store is optional and only
// backs the health endpoint.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	detector *similarity.Detector
	pass     *dedup.Pass
	logger   zerolog.Logger
	opts     Options
}

func NewServer(cfg *config.Config, st *store.Store, logger zerolog.Logger, opts Options) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	detector, err := similarity.NewDetector(similarity.Config{
		SimhashThreshold: cfg.SimhashThreshold,
		TFIDFThreshold:   cfg.TFIDFThreshold,
		TitleWeight:      cfg.TitleWeight,
	})
	if err != nil {
		return nil, fmt.Errorf("build detector: %w", err)
	}

	pass, err := dedup.New(detector, dedup.Config{
		Threshold: cfg.DedupThreshold,
		Window:    cfg.DedupWindow,
		BodyLimit: cfg.ComparisonLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build dedup pass: %w", err)
	}

	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		addr = cfg.ServeAddr
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	opts.Addr = addr

	return &Server{
		cfg:      cfg,
		store:    st,
		detector: detector,
		pass:     pass,
		logger:   logger,
		opts:     opts,
	}, nil
}

// Start serves until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/similarity", s.handleSimilarity)
	api.POST("/dedup", s.handleDedup)

	httpServer := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", s.opts.Addr).Msg("scribe api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("scribe api server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if text, ok := httpErr.Message.(string); ok && strings.TrimSpace(text) != "" {
			message = text
		}
	}

	var writeErr error
	if status >= http.StatusInternalServerError {
		writeErr = internalError(c, message)
	} else {
		writeErr = fail(c, status, message, nil)
	}
	if writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("write error response failed")
	}
}
