// Package web serves the single-page interface and a small JSON API over
// an analyze.Analyzer. The upstream key stays on the server; the page
// only ever talks to this process.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/theme"
)

// Server defaults.
const (
	DefaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	maxBodySize            = "1M"
	rateLimitExpiry        = 3 * time.Minute
)

//go:embed templates/*.html
var templateFS embed.FS

// Server hosts the page and the API.
type Server struct {
	analyzer        analyze.Analyzer
	skin            theme.Name
	addr            string
	logger          *log.Logger
	listener        net.Listener
	shutdownTimeout time.Duration
	rateLimit       rate.Limit
	rateBurst       int

	metrics *metrics
	echo    *echo.Echo
}

// Option configures a Server.
type Option func(*Server)

// WithTheme sets the default skin. Requests may override it with ?theme=.
func WithTheme(n theme.Name) Option {
	return func(s *Server) {
		s.skin = n.OrDefault()
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener serves on an existing listener instead of binding addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) {
		s.listener = ln
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithRateLimit throttles the two POST routes per client IP to perSecond
// requests with the given burst. Zero or negative perSecond disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.rateLimit = 0
			return
		}
		s.rateLimit = rate.Limit(perSecond)
		s.rateBurst = max(burst, 1)
	}
}

// New creates a Server. Templates are parsed here so a broken build fails
// before the port is bound.
func New(a analyze.Analyzer, opts ...Option) (*Server, error) {
	if a == nil {
		return nil, errors.New("web: analyzer is required")
	}
	s := &Server{
		analyzer:        a,
		skin:            theme.Default,
		addr:            DefaultAddr,
		logger:          log.New(io.Discard),
		shutdownTimeout: defaultShutdownTimeout,
		metrics:         newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &pageRenderer{tmpl: tmpl}
	e.Listener = s.listener

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(s.requestLogger())

	var post []echo.MiddlewareFunc
	if s.rateLimit > 0 {
		post = append(post, s.rateLimiter())
	}

	e.GET("/", s.handlePage)
	e.POST("/", s.handleForm, post...)
	e.POST("/api/analyze", s.handleAnalyze, post...)
	e.GET("/healthz", handleHealth)
	e.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	s.echo = e
	return s, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.listenAddr(), "theme", s.skin, "provider", s.analyzer.Name())
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := s.echo.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) listenAddr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// requestLogger logs one line per request through the charmbracelet logger.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			kv := []any{"method", v.Method, "path", v.URIPath, "status", v.Status, "latency", v.Latency, "id", v.RequestID}
			if v.Error != nil {
				s.logger.Error("request", append(kv, "err", v.Error)...)
				return nil
			}
			s.logger.Info("request", kv...)
			return nil
		},
	})
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      s.rateLimit,
			Burst:     s.rateBurst,
			ExpiresIn: rateLimitExpiry,
		}),
		DenyHandler: denyRateLimited,
	})
}

// pageRenderer adapts html/template to echo.Renderer.
type pageRenderer struct {
	tmpl *template.Template
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
