package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"energydash/internal/energy/dataset"
)

// Loader returns the Dataset cached for a URL, fetching it on first use.
type Loader interface {
	Load(ctx context.Context, url string) (*dataset.Dataset, error)
}

// Options configures a Server.
type Options struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Gatherer     prometheus.Gatherer // nil means prometheus.DefaultGatherer
}

// Server exposes the dataset options and views as JSON over fasthttp.
type Server struct {
	loader Loader
	url    string
	logger *zap.Logger
	opts   Options
	router *router.Router
}

func New(loader Loader, url string, opts Options, logger *zap.Logger) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		loader: loader,
		url:    url,
		logger: logger,
		opts:   opts,
		router: router.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.SaveMatchedRoutePath = true

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})
	r.GET("/metrics", metricsHandler(s.opts.Gatherer))

	r.GET("/v1/options", s.handleOptions)
	r.GET("/v1/views/{kind}", s.handleView)
}

// Handler returns the router wrapped with the request logger.
func (s *Server) Handler() fasthttp.RequestHandler {
	return RequestLogger(s.logger, s.router.Handler)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &fasthttp.Server{
		Name:         "energydash",
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("energydash listening", zap.String("addr", s.opts.ListenAddr))
		errCh <- srv.ListenAndServe(s.opts.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		if err := srv.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
