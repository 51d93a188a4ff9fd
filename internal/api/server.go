// Package api exposes aggregation over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelbrown/roundup/internal/catalog"
	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/logging"
)

// Aggregator runs a single aggregation.
type Aggregator interface {
	Aggregate(ctx context.Context, req feeds.Request) (*feeds.Result, error)
}

// Options configures request defaults.
type Options struct {
	DefaultCategory string
	DefaultLimit    int
}

// Server is the HTTP front end.
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// NewServer wires routes and middleware.
func NewServer(agg Aggregator, cat *catalog.Catalog, opts Options) *Server {
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = "tech"
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(RequestLogger())

	h := &Handler{agg: agg, catalog: cat, opts: opts}

	e.GET("/api/feeds", h.Feeds)
	e.GET("/api/categories", h.Categories)
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{echo: e, handler: h}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	logging.Info("HTTP server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
