package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/transport"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":8080"
)

// Server wraps an http.Server with the service's ambient endpoints.
type Server struct {
	name    string
	options Options
	server  *http.Server
}

// Options toggles the ambient endpoints.
type Options struct {
	Metrics MetricsOption
	Health  HealthOption
}

// MetricsOption configures the Prometheus endpoint.
type MetricsOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// HealthOption configures the health endpoint.
type HealthOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

type Option func(*Server)

// WithName sets the server name used in logs.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithMetricsOptions enables the Prometheus endpoint.
func WithMetricsOptions(metrics MetricsOption) Option {
	return func(s *Server) {
		if metrics.Path == "" {
			metrics.Path = "/metrics"
		}
		s.options.Metrics = metrics
	}
}

// WithHealthOptions enables the health endpoint.
func WithHealthOptions(health HealthOption) Option {
	return func(s *Server) {
		if health.Path == "" {
			health.Path = "/health"
		}
		s.options.Health = health
	}
}

// NewServer creates an HTTP server around the given handler.
func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	additionalHandlers(s)

	return s
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	if s.name == "" {
		s.name = defaultName
	}

	if ok := transport.ValidateAddress(s.server.Addr); !ok {
		log.Warn().Msgf("invalid address %s, using default address: %s", s.server.Addr, defaultAddr)
		s.server.Addr = defaultAddr
	}
	log.Info().Msgf("%s server listening on %s", s.name, s.server.Addr)

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func additionalHandlers(s *Server) {
	r, ok := s.server.Handler.(*gin.Engine)
	if !ok {
		return
	}

	if s.options.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.GET(s.options.Metrics.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})))
	}

	if s.options.Health.Enabled {
		r.GET(s.options.Health.Path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}
