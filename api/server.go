// SPDX-License-Identifier: MIT

// Package api serves the current analytics result over HTTP with echo.
//
//	GET    /health            liveness
//	GET    /v1/analytics      current entry, 404 when empty
//	POST   /v1/analytics      compute from a JSON topology document and install
//	DELETE /v1/analytics      clear
//	GET    /v1/parameters     parameters used by the next computation
//	PUT    /v1/parameters     replace them
//	GET    /metrics           Prometheus exposition, when a recorder is set
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/katalvlaran/meshlytics/analytics"
	"github.com/katalvlaran/meshlytics/metrics"
	"github.com/katalvlaran/meshlytics/topology"
)

// DefaultBodyLimit caps POST bodies.
const DefaultBodyLimit = "4M"

const shutdownTimeout = 10 * time.Second

// Options configures New.
type Options struct {
	// Recorder enables GET /metrics when non-nil.
	Recorder *metrics.Recorder
	// Spectrum is used for posted documents without eigenvalues.
	Spectrum topology.SpectrumOptions
	Logger   *slog.Logger
	// BodyLimit in echo notation, e.g. "4M".
	BodyLimit string
}

// Server wires handlers onto an echo instance.
type Server struct {
	svc      *analytics.Service
	spectrum topology.SpectrumOptions
	logger   *slog.Logger
	e        *echo.Echo
}

// New builds the echo instance and registers every route.
func New(svc *analytics.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = DefaultBodyLimit
	}
	if opts.Spectrum.MaxIterations == 0 && opts.Spectrum.Tolerance == 0 {
		opts.Spectrum = topology.DefaultSpectrumOptions()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	e.Use(requestLogger(opts.Logger))

	s := &Server{svc: svc, spectrum: opts.Spectrum, logger: opts.Logger, e: e}
	s.registerRoutes(opts.Recorder)

	return s
}

func (s *Server) registerRoutes(rec *metrics.Recorder) {
	s.e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	v1 := s.e.Group("/v1")
	v1.GET("/analytics", s.getAnalytics)
	v1.POST("/analytics", s.postAnalytics)
	v1.DELETE("/analytics", s.deleteAnalytics)
	v1.GET("/parameters", s.getParameters)
	v1.PUT("/parameters", s.putParameters)

	if rec != nil {
		s.e.GET("/metrics", echo.WrapHandler(rec.Handler()))
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.e }

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api: listening", "addr", addr)
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("api: shutdown failed", "err", err)
		return err
	}
	s.logger.Info("api: stopped")

	return nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("api: request", append(attrs, "err", v.Error)...)
				return nil
			}
			logger.Debug("api: request", attrs...)
			return nil
		},
	})
}
