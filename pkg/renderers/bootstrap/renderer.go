package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formsession/pkg/render"
	rendertemplate "github.com/goliatone/go-formsession/pkg/render/template"
	"github.com/goliatone/go-formsession/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formsession/pkg/session"
)

const (
	formTemplate  = "templates/form.tmpl"
	fieldTemplate = "templates/field.tmpl"
	pageTemplate  = "templates/page.tmpl"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	templatesDir string
	stylesheets  []string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir overlays templates from a directory on disk. The directory
// mirrors the bundle layout (templates/field.tmpl, ...); files it lacks fall
// back to the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithStylesheets sets the stylesheet links emitted by RenderPage.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		cfg.stylesheets = append([]string{}, hrefs...)
	}
}

// Renderer produces Bootstrap-styled form markup for a session.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		stylesheets: []string{BootstrapCDN},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	engineOptions := []gotemplate.Option{
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithExtension(".tmpl"),
	}
	if cfg.templatesDir != "" {
		engineOptions = append(engineOptions, gotemplate.WithBaseDir(cfg.templatesDir))
	}
	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap renderer: configure template renderer: %w", err)
	}
	if err := engine.GlobalContext(map[string]any{"stylesheets": cfg.stylesheets}); err != nil {
		return nil, fmt.Errorf("bootstrap renderer: set globals: %w", err)
	}

	return &Renderer{templates: engine}, nil
}

func (r *Renderer) Name() string {
	return "bootstrap"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render returns the form fragment for the session's current state.
func (r *Renderer) Render(_ context.Context, s *session.Session, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("bootstrap renderer: template renderer is nil")
	}

	view := render.BuildFormView(s, options)
	fields := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		markup, err := r.renderField(field)
		if err != nil {
			return nil, err
		}
		fields = append(fields, markup)
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form":   view,
		"fields": fields,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap renderer: render form: %w", err)
	}
	return []byte(result), nil
}

// RenderPage wraps the form fragment in a standalone HTML document.
func (r *Renderer) RenderPage(ctx context.Context, s *session.Session, options render.RenderOptions) ([]byte, error) {
	content, err := r.Render(ctx, s, options)
	if err != nil {
		return nil, err
	}
	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"title":   s.Form().Title,
		"content": string(content),
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap renderer: render page: %w", err)
	}
	return []byte(result), nil
}

// RenderField returns the markup of a single field, used to swap one control
// after a blur round trip.
func (r *Renderer) RenderField(_ context.Context, s *session.Session, name string) ([]byte, error) {
	field, ok := s.Form().Field(name)
	if !ok {
		return nil, fmt.Errorf("bootstrap renderer: %w: %q", session.ErrUnknownField, name)
	}
	markup, err := r.renderField(render.BuildFieldView(s, field))
	if err != nil {
		return nil, err
	}
	return []byte(markup), nil
}

func (r *Renderer) renderField(view render.FieldView) (string, error) {
	markup, err := r.templates.RenderTemplate(fieldTemplate, map[string]any{"field": view})
	if err != nil {
		return "", fmt.Errorf("bootstrap renderer: render field %q: %w", view.Name, err)
	}
	return markup, nil
}
