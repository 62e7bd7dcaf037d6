// Package server exposes the sign-up form over HTTP. Every request builds its
// own session from the posted payload, so the handler holds no per-user state.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsession/internal/logging"
	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/openapi"
	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/validation"
)

// SubmittedNotice is the banner shown after a valid submit.
const SubmittedNotice = "Form submitted"

const maxBodyBytes = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and submission logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSink overrides the submission sink. The default logs each submission.
func WithSink(sink session.Sink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(renderer *bootstrap.Renderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithMetrics mounts the Prometheus handler at path.
func WithMetrics(metrics *Metrics, path string) Option {
	return func(s *Server) {
		s.metrics = metrics
		s.metricsPath = path
	}
}

// WithVersion sets the version reported by the OpenAPI document.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Server serves the form page, submissions, field fragments and the payload
// description.
type Server struct {
	form        model.FormModel
	schema      validation.Schema
	renderer    *bootstrap.Renderer
	sink        session.Sink
	logger      zerolog.Logger
	metrics     *Metrics
	metricsPath string
	version     string
}

// New builds a server for form. The validation schema is derived from the
// form model.
func New(form model.FormModel, opts ...Option) (*Server, error) {
	schema, err := validation.FromForm(form)
	if err != nil {
		return nil, fmt.Errorf("server: build schema: %w", err)
	}

	s := &Server{
		form:   form,
		schema: schema,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.renderer == nil {
		renderer, err := bootstrap.New(bootstrap.WithStylesheets(
			bootstrap.BootstrapCDN,
			path.Join("/assets", bootstrap.StylesheetName),
		))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}
	if s.sink == nil {
		s.sink = logging.SubmissionSink(s.logger, form)
	}
	return s, nil
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handlePage)
	r.Post("/", s.handleSubmit)
	r.Post("/fields/{name}/validate", s.handleValidateField)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(bootstrap.AssetsFS()))))

	if s.metrics != nil && s.metricsPath != "" {
		r.Handle(s.metricsPath, s.metrics.Handler())
	}
	return r
}

func (s *Server) newSession() *session.Session {
	return session.New(s.form, s.schema, session.WithSink(s.sink))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, s.newSession(), "")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r = adoptPostedRequestID(w, r, payload)

	sess := s.newSession()
	for _, field := range s.form.Fields {
		if err := sess.Change(field.Name, payload.value(field)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := sess.Blur(field.Name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	err = sess.Submit(r.Context(), nil)
	var invalid *session.ValidationError
	switch {
	case errors.As(err, &invalid):
		s.metrics.observeRejected(invalid.Errors)
		s.logger.Debug().
			Str("request_id", logging.RequestID(r.Context())).
			Strs("fields", invalid.Errors.Fields()).
			Msg("submission rejected")
		s.writePage(w, r, http.StatusUnprocessableEntity, sess, "")
	case err != nil:
		s.logger.Error().Err(err).Msg("submit failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	default:
		s.metrics.observeAccepted()
		s.writePage(w, r, http.StatusOK, sess, SubmittedNotice)
	}
}

func (s *Server) handleValidateField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.form.Field(name); !ok {
		http.NotFound(w, r)
		return
	}

	payload, err := decodePayload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := s.newSession()
	for _, field := range s.form.Fields {
		if !payload.has(field.Name) && field.Name != name {
			continue
		}
		if err := sess.Change(field.Name, payload.value(field)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := sess.Blur(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := s.renderer.RenderField(r.Context(), sess, name)
	if err != nil {
		s.logger.Error().Err(err).Str("field", name).Msg("render field failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc := openapi.Describe(s.form, openapi.Info{Version: s.version})
	out, err := openapi.MarshalJSON(r.Context(), doc)
	if err != nil {
		s.logger.Error().Err(err).Msg("openapi document failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, sess *session.Session, notice string) {
	out, err := s.renderer.RenderPage(r.Context(), sess, render.RenderOptions{
		Hidden: render.HiddenMap(render.RequestID(logging.RequestID(r.Context()))),
		Notice: notice,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("render page failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// adoptPostedRequestID correlates a submit with the render that produced the
// form: without an explicit X-Request-ID header, a valid posted request_id
// replaces the minted one.
func adoptPostedRequestID(w http.ResponseWriter, r *http.Request, p payload) *http.Request {
	if validRequestID(r.Header.Get(RequestIDHeader)) {
		return r
	}
	posted := p[render.RequestIDField]
	if len(posted) == 0 || !validRequestID(posted[0]) {
		return r
	}
	w.Header().Set(RequestIDHeader, posted[0])
	return r.WithContext(logging.WithRequestID(r.Context(), posted[0]))
}

// payload is the decoded request body keyed by field name.
type payload map[string][]string

func (p payload) has(name string) bool {
	_, ok := p[name]
	return ok
}

// value converts posted strings into the shape Session.Change expects for the
// field. An absent checkbox means unchecked and an absent group means empty.
func (p payload) value(field model.Field) any {
	raw := p[field.Name]
	switch {
	case field.Multiple():
		return append([]string{}, raw...)
	case field.Boolean():
		if len(raw) == 0 {
			return false
		}
		return raw[len(raw)-1]
	default:
		if len(raw) == 0 {
			return ""
		}
		return raw[0]
	}
}

func decodePayload(w http.ResponseWriter, r *http.Request) (payload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	switch mediaType {
	case openapi.MediaTypeJSON:
		return decodeJSON(r.Body)
	case openapi.MediaTypeMultipart:
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		return payload(r.MultipartForm.Value), nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		return payload(r.PostForm), nil
	}
}

func decodeJSON(body io.Reader) (payload, error) {
	var raw map[string]any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	out := make(payload, len(raw))
	for name, value := range raw {
		switch typed := value.(type) {
		case nil:
		case string:
			out[name] = []string{typed}
		case bool:
			out[name] = []string{fmt.Sprint(typed)}
		case []any:
			items := make([]string, 0, len(typed))
			for _, item := range typed {
				str, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("decode json: %q must contain strings", name)
				}
				items = append(items, str)
			}
			out[name] = items
		default:
			return nil, fmt.Errorf("decode json: unsupported value for %q", name)
		}
	}
	return out, nil
}
