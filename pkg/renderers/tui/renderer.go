package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/session"
)

const maskedSecret = "********"

// Renderer drives a session from the terminal: each field is prompted, fed to
// the session as a change followed by a blur, and re-prompted while the
// session reports an error for it. Once every field is valid the session is
// submitted and the snapshot is serialized as the render output.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	maxAttempts  int
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "✗ "},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts every field of the session and submits it. The returned
// bytes are the submitted snapshot with secrets masked.
func (r *Renderer) Render(ctx context.Context, s *session.Session, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	form := s.Form()
	for _, field := range form.Fields {
		if err := r.promptUntilValid(ctx, s, field); err != nil {
			return nil, err
		}
	}

	if err := s.Submit(ctx, nil); err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			for _, name := range verr.Errors.Fields() {
				_ = r.driver.Info(ctx, r.theme.ErrorPrefix+verr.Errors[name])
			}
		}
		return nil, err
	}

	return r.serialize(form, s.Snapshot())
}

func (r *Renderer) promptUntilValid(ctx context.Context, s *session.Session, field model.Field) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.promptField(ctx, s, field); err != nil {
			return err
		}
		if err := s.Blur(field.Name); err != nil {
			return err
		}

		message := s.Error(field.Name)
		if message == "" {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s: %s", ErrTooManyAttempts, field.Name, message)
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, s *session.Session, field model.Field) error {
	label := displayLabel(field)
	help := render.SanitizeDescription(field.Description)

	switch field.Type {
	case model.FieldTypeCheckbox:
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: s.Values.Bool(field.Name),
			Help:    help,
		})
		if err != nil {
			return err
		}
		return s.Change(field.Name, answer)

	case model.FieldTypeRadio, model.FieldTypeSelect:
		labels, values := optionLists(field)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      labels,
			DefaultIndex: indexOf(values, s.Values.String(field.Name)),
			Help:         help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			return s.Change(field.Name, "")
		}
		return s.Change(field.Name, values[idx])

	case model.FieldTypeCheckboxGroup:
		labels, values := optionLists(field)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  labels,
			Defaults: indicesOf(values, s.Values.Strings(field.Name)),
			Help:     help,
		})
		if err != nil {
			return err
		}
		return s.Change(field.Name, defaultsFromIndices(values, indices))

	case model.FieldTypeTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: s.Values.String(field.Name),
			Help:    help,
		})
		if err != nil {
			return err
		}
		return s.Change(field.Name, answer)

	case model.FieldTypePassword:
		answer, err := r.driver.Password(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return err
		}
		return s.Change(field.Name, answer)

	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: s.Values.String(field.Name),
			Help:    help,
		})
		if err != nil {
			return err
		}
		return s.Change(field.Name, answer)
	}
}

func (r *Renderer) serialize(form model.FormModel, values model.Values) ([]byte, error) {
	for _, field := range form.Fields {
		if field.Type == model.FieldTypePassword {
			values[field.Name] = maskedSecret
		}
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(form, values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func optionLists(field model.Field) (labels, values []string) {
	for _, opt := range field.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		labels = append(labels, label)
		values = append(values, opt.Value)
	}
	return labels, values
}

func encodeForm(form model.FormModel, values model.Values) string {
	out := url.Values{}
	for _, field := range form.Fields {
		switch {
		case field.Multiple():
			for _, item := range values.Strings(field.Name) {
				out.Add(field.Name, item)
			}
		case field.Boolean():
			if values.Bool(field.Name) {
				out.Set(field.Name, "on")
			}
		default:
			out.Set(field.Name, values.String(field.Name))
		}
	}
	return out.Encode()
}

func prettyPrint(form model.FormModel, values model.Values) string {
	var b strings.Builder
	for _, field := range form.Fields {
		value := values.String(field.Name)
		if field.Multiple() {
			value = strings.Join(values.Strings(field.Name), ", ")
		}
		fmt.Fprintf(&b, "%s=%s\n", field.Name, value)
	}
	return b.String()
}
