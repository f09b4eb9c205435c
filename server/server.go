package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"lang_portal/generator"
	"lang_portal/portal"
)

//go:embed web/templates/*.html web/static/*
var embeddedWeb embed.FS

// Generator produces vocabulary for a category.
type Generator interface {
	Generate(ctx context.Context, category string) (generator.Result, error)
}

// Options configures a Server.
type Options struct {
	HistorySize int
	Logger      zerolog.Logger
}

type Server struct {
	gen    Generator
	portal *portal.Portal
	store  *generationStore
	logger zerolog.Logger
	echo   *echo.Echo
}

func New(gen Generator, p *portal.Portal, opts Options) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}
	if p == nil {
		return nil, errors.New("portal required")
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(embeddedWeb, "web/static")
	if err != nil {
		return nil, err
	}

	s := &Server{
		gen:    gen,
		portal: p,
		store:  newStore(opts.HistorySize),
		logger: opts.Logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(s.logger))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error().Err(err).Str("request_id", requestID(c)).Bytes("stack", stack).Msg("panic recovered")
			return err
		},
	}))

	e.GET("/healthz", s.handleHealthz)
	e.StaticFS("/static", static)

	api := e.Group("/api")
	api.POST("/generate-vocabulary", s.handleGenerate)
	api.GET("/generations/:id", s.handleGetGeneration)
	api.GET("/generations/:id/vocabulary.json", s.handleDownload)

	e.GET("/vocabulary", s.handleVocabularyPage)
	e.POST("/vocabulary", s.handleVocabularySubmit)

	e.GET("/", s.handleIndex)
	e.GET("/:page", s.handlePage)
	e.GET("/:page/:id", s.handleDetailPage)
	e.RouteNotFound("/*", s.handleNotFound)

	s.echo = e
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("starting server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// renderer implements echo.Renderer with one template set per page so each
// can define its own "content" block inside the shared layout.
type renderer struct {
	sets map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("layout.html").ParseFS(embeddedWeb, "web/templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &renderer{sets: make(map[string]*template.Template)}
	for _, name := range []string{"page.html", "vocabulary.html"} {
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(embeddedWeb, "web/templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.sets[name] = set
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	set, ok := r.sets[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return set.ExecuteTemplate(w, "layout.html", data)
}
