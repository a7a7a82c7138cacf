// Package server exposes the palette pipeline over HTTP: a single upload
// page plus a small JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/analyzer"
	"github.com/jmylchreest/swatch/internal/colour"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes caps the size of an uploaded request body.
	DefaultMaxUploadBytes int64 = 32 << 20

	// DefaultColours is the colour count used when a request omits it.
	DefaultColours = 8

	// MinColours and MaxColours bound the colour count a client may ask for.
	MinColours = 2
	MaxColours = 40

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// UploadTypes are the image formats accepted from uploads.
var UploadTypes = []string{"jpg", "png"}

//go:embed templates/index.html
var templatesFS embed.FS

// Theme sets the colours of the upload page.
type Theme struct {
	Accent string
	Card   string
}

// Config holds the HTTP server settings.
type Config struct {
	Addr           string
	MaxUploadBytes int64

	DefaultColours int
	MinColours     int
	MaxColours     int

	Theme Theme
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           DefaultAddr,
		MaxUploadBytes: DefaultMaxUploadBytes,
		DefaultColours: DefaultColours,
		MinColours:     MinColours,
		MaxColours:     MaxColours,
		Theme: Theme{
			Accent: "#4f46e5",
			Card:   "#ffffff",
		},
	}
}

// Validate checks the server configuration.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: listen address cannot be empty", colour.ErrInvalidParameter)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max upload bytes must be positive, got %d", colour.ErrInvalidParameter, c.MaxUploadBytes)
	}
	if c.MinColours < 1 || c.MinColours > c.MaxColours {
		return fmt.Errorf("%w: colour range [%d,%d] is invalid", colour.ErrInvalidParameter, c.MinColours, c.MaxColours)
	}
	if c.DefaultColours < c.MinColours || c.DefaultColours > c.MaxColours {
		return fmt.Errorf("%w: default colours %d outside [%d,%d]",
			colour.ErrInvalidParameter, c.DefaultColours, c.MinColours, c.MaxColours)
	}
	for name, hex := range map[string]string{"accent": c.Theme.Accent, "card": c.Theme.Card} {
		if _, err := colour.ParseHex(hex); err != nil {
			return fmt.Errorf("theme %s: %w", name, err)
		}
	}
	return nil
}

// Server serves the upload page and the JSON API.
type Server struct {
	cfg      Config
	analyzer *analyzer.Analyzer
	logger   hclog.Logger
	engine   *gin.Engine
}

// New builds a Server and registers its routes. A nil logger discards output.
func New(cfg Config, a *analyzer.Analyzer, logger hclog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	if a == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	page, err := template.New("index.html").Funcs(template.FuncMap{
		"title": colour.DisplayName,
		"upper": colour.DisplayHex,
		"pct":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		analyzer: a,
		logger:   logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), logRequests(logger))
	engine.SetHTMLTemplate(page)

	engine.GET("/", s.index)
	engine.POST("/", s.analyze)
	engine.GET("/healthz", s.healthz)

	api := engine.Group("/api")
	{
		api.POST("/palette", s.palette)
		api.POST("/pixel", s.pixel)
		api.POST("/chart.png", s.chart)
		api.GET("/names", s.names)
	}

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", displayAddr(s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
