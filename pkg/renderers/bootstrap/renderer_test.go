package bootstrap_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/validation"
)

func newSession(t *testing.T, catalog model.Catalog) *session.Session {
	t.Helper()
	form := model.SignupForm(catalog)
	return session.New(form, validation.MustFromForm(form))
}

func newRenderer(t *testing.T) *bootstrap.Renderer {
	t.Helper()
	r, err := bootstrap.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRender_FreshSessionHasAllControlsAndNoErrors(t *testing.T) {
	r := newRenderer(t)
	s := newSession(t, model.DefaultCatalog())

	out, err := r.Render(context.Background(), s, render.RenderOptions{
		Hidden: render.HiddenMap(render.RequestID("abc")),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`type="text" id="field-name" name="name"`,
		`type="email" id="field-email" name="email"`,
		`type="password" id="field-password" name="password"`,
		`type="checkbox" id="field-subscribe" name="subscribe"`,
		`type="radio" name="gender" value="male"`,
		`type="radio" name="gender" value="female"`,
		`<select id="field-country" name="country"`,
		`<option value="Select a country">Select a country</option>`,
		`type="checkbox" name="hobbies" value="Cooking"`,
		`<textarea id="field-comments" name="comments"`,
		`<input type="hidden" name="request_id" value="abc">`,
		`<button type="submit" class="btn btn-primary">Submit</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "invalid-feedback") {
		t.Fatalf("untouched session must not render errors\n%s", html)
	}
}

func TestRender_SubmittedInvalidSessionShowsInlineErrors(t *testing.T) {
	r := newRenderer(t)
	s := newSession(t, model.DefaultCatalog())
	_ = s.Change("name", "Ada")
	_ = s.Change("email", "not-an-email")
	_ = s.Submit(context.Background(), nil)

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"Invalid email format",
		"Password is required",
		"Gender is required",
		"Country is required",
		"Select at least one hobby",
		`class="form-control is-valid"`,
		`class="form-control is-invalid"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "Name is required") {
		t.Fatalf("filled name must not report an error")
	}
}

func TestRender_EscapesValuesAndOmitsPassword(t *testing.T) {
	r := newRenderer(t)
	s := newSession(t, model.DefaultCatalog())
	_ = s.Change("comments", `<script>alert("x")</script>`)
	_ = s.Change("password", "hunter2hunter2")

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "<script>") {
		t.Fatalf("comment was not escaped\n%s", html)
	}
	if strings.Contains(html, "hunter2hunter2") {
		t.Fatalf("password value must not be echoed\n%s", html)
	}
}

func TestRender_SanitizedDescription(t *testing.T) {
	r := newRenderer(t)
	s := newSession(t, model.Catalog{
		Descriptions: map[string]string{"email": `We <em>never</em> share it<script>x()</script>`},
	})

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "We <em>never</em> share it") {
		t.Fatalf("expected sanitized description\n%s", html)
	}
	if strings.Contains(html, "x()") {
		t.Fatalf("script content leaked\n%s", html)
	}
}

func TestRenderPage_WrapsDocument(t *testing.T) {
	r, err := bootstrap.New(bootstrap.WithStylesheets("/assets/formsession.css"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	s := newSession(t, model.DefaultCatalog())

	out, err := r.RenderPage(context.Background(), s, render.RenderOptions{Notice: "Form submitted"})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		"<!doctype html>",
		`<link rel="stylesheet" href="/assets/formsession.css">`,
		`<div class="alert alert-success" role="status">Form submitted</div>`,
		"<title>Form with Formik and Bootstrap</title>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q\n%s", want, html)
		}
	}
}

func TestRenderField(t *testing.T) {
	r := newRenderer(t)
	s := newSession(t, model.DefaultCatalog())
	_ = s.Blur("country")

	out, err := r.RenderField(context.Background(), s, "country")
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if !strings.Contains(string(out), "Country is required") {
		t.Fatalf("expected country error in fragment\n%s", out)
	}

	if _, err := r.RenderField(context.Background(), s, "age"); !errors.Is(err, session.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestAssetsFS(t *testing.T) {
	data, err := fs.ReadFile(bootstrap.AssetsFS(), bootstrap.StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".invalid-feedback") {
		t.Fatalf("unexpected stylesheet contents")
	}
}

func TestWithTemplatesDir_OverlaysBundle(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := `<main data-sheets="{% for href in stylesheets %}{{ href }}{% endfor %}">{{ content|safe }}</main>`
	if err := os.WriteFile(filepath.Join(dir, "templates", "page.tmpl"), []byte(page), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	r, err := bootstrap.New(
		bootstrap.WithTemplatesDir(dir),
		bootstrap.WithStylesheets("/custom.css"),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.RenderPage(context.Background(), newSession(t, model.DefaultCatalog()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := string(out)
	if !strings.HasPrefix(html, `<main data-sheets="/custom.css">`) {
		t.Fatalf("expected overlaid page template\n%s", html)
	}
	if !strings.Contains(html, `name="email"`) {
		t.Fatalf("form and field templates should fall back to the bundle\n%s", html)
	}
}

func TestWithTemplatesFS_ReplacesBundle(t *testing.T) {
	files := fstest.MapFS{
		"templates/field.tmpl": {Data: []byte(`[{{ field.name }}]`)},
		"templates/form.tmpl":  {Data: []byte(`{% for markup in fields %}{{ markup|safe }}{% endfor %}`)},
		"templates/page.tmpl":  {Data: []byte(`{{ content|safe }}`)},
	}
	r, err := bootstrap.New(bootstrap.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), newSession(t, model.DefaultCatalog()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "[name][email][password][subscribe][gender][country][hobbies][comments]"
	if string(out) != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}

func TestRender_TrimsDescriptions(t *testing.T) {
	catalog := model.DefaultCatalog()
	catalog.Descriptions = map[string]string{"email": "   We never share it.  "}
	s := newSession(t, catalog)

	out, err := newRenderer(t).RenderField(context.Background(), s, "email")
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if !strings.Contains(string(out), `<small class="form-text text-muted">We never share it.</small>`) {
		t.Fatalf("expected trimmed description\n%s", out)
	}
}
