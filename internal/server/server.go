// Package server is the demo HTTP front end: it renders the example form,
// validates submissions and reports errors inline and in the summary.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-govuk-forms/internal/fixtures"
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	"github.com/goliatone/go-govuk-forms/pkg/renderers/govuk"
	paramsrenderer "github.com/goliatone/go-govuk-forms/pkg/renderers/params"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// DefaultTitle heads the example page.
const DefaultTitle = "GOV.UK form widgets"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger, slog.Default otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records into m instead of a private registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithFormFactory replaces the example form.
func WithFormFactory(factory func() *forms.Form) Option {
	return func(s *Server) {
		if factory != nil {
			s.newForm = factory
		}
	}
}

// WithThemes enables theme selection through Config.Theme.
func WithThemes(selector theme.ThemeSelector) Option {
	return func(s *Server) {
		s.themes = selector
	}
}

// Server serves one form at "/".
type Server struct {
	cfg       Config
	logger    *slog.Logger
	metrics   *Metrics
	newForm   func() *forms.Form
	themes    theme.ThemeSelector
	html      *govuk.Renderer
	renderers *render.Registry
	mux       *http.ServeMux
}

// New wires the renderers and routes.
func New(cfg Config, options ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg.normalize(),
		logger:  slog.Default(),
		newForm: fixtures.ExampleForm,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	reg := widgets.NewRegistry()
	htmlOpts := []govuk.Option{
		govuk.WithWidgets(reg),
		govuk.WithLogger(s.logger),
		govuk.WithMarkdownHints(s.cfg.MarkdownHints),
	}
	if s.cfg.TemplatesDir != "" {
		htmlOpts = append(htmlOpts, govuk.WithTemplatesDir(s.cfg.TemplatesDir))
	}
	if s.themes != nil {
		htmlOpts = append(htmlOpts, govuk.WithTheme(s.themes, s.cfg.Theme, s.cfg.ThemeVariant))
	}
	html, err := govuk.New(htmlOpts...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.html = html

	s.renderers = render.NewRegistry()
	if err := s.renderers.Register(html); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	for _, format := range []paramsrenderer.Format{paramsrenderer.FormatJSON, paramsrenderer.FormatYAML} {
		renderer, err := paramsrenderer.New(format, reg)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		if err := s.renderers.Register(renderer); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /{$}", s.handleShow)
	s.mux.HandleFunc("POST /{$}", s.handleSubmit)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	return s, nil
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ReloadTemplates drops cached templates.
func (s *Server) ReloadTemplates() {
	s.html.Reset()
	s.metrics.incReload()
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
// The templates directory, when set, is watched for the lifetime of the call.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.TemplatesDir != "" {
		watcher, err := NewTemplateWatcher(s.cfg.TemplatesDir, s.cfg.ReloadDebounce, s.ReloadTemplates, s.logger)
		if err != nil {
			return err
		}
		watcher.Start(ctx)
		defer func() {
			if err := watcher.Stop(); err != nil {
				s.logger.Warn("stop template watcher", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	renderer, err := s.renderers.Negotiate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}

	form := s.newForm()
	form.SetHidden(forms.CSRFToken(csrfField, s.ensureCSRF(w, r)))

	opts := s.renderOptions(r)
	if r.URL.Query().Get("submitted") != "" {
		opts.Title = "Form submitted"
	}
	s.write(w, r, renderer, form, opts, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	renderer, err := s.renderers.Negotiate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}

	sub, err := forms.FromRequest(r, s.cfg.MaxMemory)
	if err != nil {
		s.metrics.incSubmission("malformed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.verifyCSRF(r, sub) {
		s.metrics.incSubmission("csrf")
		s.logger.Warn("rejected submission", "reason", "csrf token mismatch", "remote", r.RemoteAddr)
		http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
		return
	}

	form := s.newForm()
	form.SetHidden(forms.CSRFToken(csrfField, s.ensureCSRF(w, r)))
	form.Process(sub)

	if !form.Validate() {
		s.metrics.incSubmission("invalid")
		s.write(w, r, renderer, form, s.renderOptions(r), http.StatusUnprocessableEntity)
		return
	}

	s.metrics.incSubmission("valid")
	s.logger.Info("accepted submission", "fields", len(form.Fields()))
	if renderer.Name() == govuk.Name {
		http.Redirect(w, r, "/?submitted=1", http.StatusSeeOther)
		return
	}

	body, err := paramsrenderer.Encode(form.Data(), paramsrenderer.Format(renderer.Name()))
	if err != nil {
		s.logger.Error("encode submission", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	_, _ = w.Write(body)
}

func (s *Server) renderOptions(r *http.Request) render.RenderOptions {
	return render.RenderOptions{
		Action:       "/",
		Method:       http.MethodPost,
		Title:        DefaultTitle,
		Only:         render.ParseOnly(r.URL.Query().Get("only")),
		Theme:        s.cfg.Theme,
		ThemeVariant: s.cfg.ThemeVariant,
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, renderer render.Renderer, form *forms.Form, opts render.RenderOptions, status int) {
	start := time.Now()
	body, err := renderer.Render(r.Context(), form, opts)
	s.metrics.observeRender(renderer.Name(), time.Since(start), err)
	if err != nil {
		s.logger.Error("render form", "renderer", renderer.Name(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
