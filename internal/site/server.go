package site

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-internsite/internal/config"
	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/render/template"
	"github.com/goliatone/go-internsite/pkg/render/template/pongo"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

//go:embed templates static
var assets embed.FS

// Server serves the marketing pages, the stepped application flows and the
// form JSON API.
type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	content  *Content
	themes   theme.ThemeSelector
	theme    *theme.RendererConfig
	renderer template.TemplateRenderer
	sessions *SessionStore
	limiter  Limiter
	gateway  stepform.Gateway
	factory  ControllerFactory
	mounts   []func(chi.Router)
	router   *chi.Mux
}

// Option customises a Server.
type Option func(*Server)

// WithLogger routes request and form logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGateway sets the gateway used by the default controller factory.
func WithGateway(gw stepform.Gateway) Option {
	return func(s *Server) {
		s.gateway = gw
	}
}

// WithControllerFactory replaces the default controller factory.
func WithControllerFactory(factory ControllerFactory) Option {
	return func(s *Server) {
		s.factory = factory
	}
}

// WithLimiter swaps the rate limiter applied to submit actions.
func WithLimiter(l Limiter) Option {
	return func(s *Server) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithContent replaces the embedded content catalog.
func WithContent(c *Content) Option {
	return func(s *Server) {
		if c != nil {
			s.content = c
		}
	}
}

// WithThemes sets the selector used to resolve the configured theme.
func WithThemes(selector theme.ThemeSelector) Option {
	return func(s *Server) {
		if selector != nil {
			s.themes = selector
		}
	}
}

// WithSessions replaces the session store built from the configuration.
func WithSessions(store *SessionStore) Option {
	return func(s *Server) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithMount registers extra routes on the root router, for example the
// intake endpoint.
func WithMount(fn func(chi.Router)) Option {
	return func(s *Server) {
		if fn != nil {
			s.mounts = append(s.mounts, fn)
		}
	}
}

// NewServer assembles the site. Either a gateway or a controller factory is
// required.
func NewServer(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.factory == nil {
		if s.gateway == nil {
			return nil, stepform.ErrNoGateway
		}
		s.factory = s.defaultFactory
	}
	if s.content == nil {
		c, err := DefaultContent()
		if err != nil {
			return nil, err
		}
		s.content = c
	}
	if s.themes == nil {
		t, err := DefaultThemes()
		if err != nil {
			return nil, err
		}
		s.themes = t
	}
	sel, err := s.themes.Select(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	s.theme = RendererConfig(sel)
	views, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, err
	}
	engine, err := pongo.New(views,
		pongo.WithFilters(templateFilters()),
		pongo.WithGlobals(s.globals()),
	)
	if err != nil {
		return nil, fmt.Errorf("site: templates: %w", err)
	}
	s.renderer = engine
	if s.limiter == nil {
		s.limiter = NewMemoryLimiter()
	}
	if s.sessions == nil {
		s.sessions = NewSessionStore(cfg.Session.CookieName, cfg.Session.IdleTimeout, cfg.Session.CookieSecure, s.logger)
	}
	s.setupRouter()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Sessions exposes the visitor session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// RunJanitor sweeps idle sessions, and memory limiter buckets when one is in
// use, until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	var extra []interface{ Sweep() int }
	if sw, ok := s.limiter.(interface{ Sweep() int }); ok {
		extra = append(extra, sw)
	}
	s.sessions.Janitor(ctx, interval, extra...)
}

func (s *Server) defaultFactory(variant application.Variant) (*stepform.Controller, error) {
	return stepform.NewController(variant, s.gateway,
		stepform.WithLogger(s.logger.With("variant", string(variant))),
		stepform.WithSubmitTimeout(s.cfg.Form.SubmitTimeout),
		stepform.WithFormatChecks(s.cfg.Form.FormatChecks),
	)
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	r.NotFound(s.handleNotFound)
	r.Get("/healthz", s.handleHealth)

	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	submitLimit := RateLimit(s.limiter, s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleHome)
		r.Get("/services", s.handleServices)
		r.Get("/about", s.handleAbout)
		r.Get("/contact", s.handleContact)
		r.With(submitLimit).Post("/contact", s.handleContactSubmit)

		r.Get("/apply", s.handleApplySelect)
		r.Get("/apply/{variant}", s.handleApplyForm)
		r.Post("/apply/{variant}", s.handleApplyAction)

		r.Route("/api/v1/forms/{variant}", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.cfg.Server.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders:   []string{"X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Get("/", s.handleAPIState)
			r.Patch("/", s.handleAPIPatch)
			r.With(submitLimit).Post("/submit", s.handleAPISubmit)
			r.Post("/{action}", s.handleAPIAction)
		})
	})

	for _, mount := range s.mounts {
		mount(r)
	}

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

type contextKey string

const sessionContextKey contextKey = "site_session"

func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Resolve(w, r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess)))
	})
}

// SessionFromContext returns the visitor session attached by the router.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey).(*Session)
	return sess
}

func (s *Server) form(r *http.Request, variant application.Variant) (*stepform.Controller, error) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		return nil, fmt.Errorf("site: no session on request")
	}
	return sess.Form(variant, s.factory)
}
