package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/validation"
)

var (
	// ErrUnknownField is returned when a mutator names a field the form does
	// not declare.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrInvalidValue is returned when a value does not fit the field kind.
	ErrInvalidValue = errors.New("session: invalid value")
	// ErrInvalid signals a submit aborted by validation errors.
	ErrInvalid = errors.New("session: form has validation errors")
)

// ValidationError carries the field errors that aborted a submit. It matches
// ErrInvalid with errors.Is.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid.Error(), strings.Join(e.Errors.Fields(), ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Sink receives the value snapshot of a successful submit.
type Sink func(ctx context.Context, values model.Values)

// Option configures a Session.
type Option func(*Session)

// WithInitialValues seeds values on top of the empty defaults. Unknown names
// are ignored.
func WithInitialValues(values model.Values) Option {
	return func(s *Session) {
		for name, value := range values {
			if _, ok := s.fields[name]; ok {
				s.initial[name] = value
			}
		}
	}
}

// WithSink installs the default sink used when Submit is called with nil.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// Session is the explicit record of one form interaction: current values,
// visited fields, derived errors and the submitting flag. A Session is owned
// by a single caller and is not safe for concurrent use.
type Session struct {
	Values     model.Values
	Touched    map[string]bool
	Errors     validation.Errors
	Submitting bool
	Submitted  bool

	form    model.FormModel
	fields  map[string]model.Field
	schema  validation.Schema
	initial model.Values
	sink    Sink
}

// New initializes a session with every field set to its empty default.
func New(form model.FormModel, schema validation.Schema, opts ...Option) *Session {
	s := &Session{
		form:    form,
		fields:  make(map[string]model.Field, len(form.Fields)),
		schema:  schema,
		initial: model.DefaultValues(form),
	}
	for _, field := range form.Fields {
		s.fields[field.Name] = field
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.Reset()
	return s
}

// Form returns the form model the session was built from.
func (s *Session) Form() model.FormModel {
	return s.form
}

// Reset returns the session to its initial state.
func (s *Session) Reset() {
	s.Values = s.initial.Clone()
	s.Touched = make(map[string]bool, len(s.fields))
	s.Errors = make(validation.Errors)
	s.Submitting = false
	s.Submitted = false
	s.revalidate()
}

// Change updates the named field. Multi-select fields toggle membership when
// given a single string and replace the whole set when given a []string.
// Checkbox fields accept a bool or a form-style string ("on", "true").
func (s *Session) Change(name string, value any) error {
	field, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	switch {
	case field.Multiple():
		switch typed := value.(type) {
		case string:
			return s.Toggle(name, typed)
		case []string:
			s.Values[name] = compactOptions(typed)
		case nil:
			s.Values[name] = []string{}
		default:
			return fmt.Errorf("%w: %q expects a string or []string, got %T", ErrInvalidValue, name, value)
		}
	case field.Boolean():
		flag, err := toBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidValue, name, err)
		}
		s.Values[name] = flag
	default:
		switch typed := value.(type) {
		case string:
			s.Values[name] = typed
		case nil:
			s.Values[name] = ""
		default:
			return fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, name, value)
		}
	}

	s.revalidate()
	return nil
}

// Toggle adds option to a multi-select field, or removes it when already
// present. Toggling twice restores the previous set. A blank option is a
// no-op.
func (s *Session) Toggle(name, option string) error {
	field, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if !field.Multiple() {
		return fmt.Errorf("%w: %q is not a multi-select field", ErrInvalidValue, name)
	}
	if strings.TrimSpace(option) == "" {
		return nil
	}

	current := s.Values.Strings(name)
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, item := range current {
		if item == option {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		next = append(next, option)
	}
	s.Values[name] = next

	s.revalidate()
	return nil
}

// Blur marks the named field visited.
func (s *Session) Blur(name string) error {
	if _, ok := s.fields[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.Touched[name] = true
	s.revalidate()
	return nil
}

// TouchAll marks every field visited.
func (s *Session) TouchAll() {
	for name := range s.fields {
		s.Touched[name] = true
	}
}

// Validate evaluates every field's rules and returns the current error map.
// The session's Errors field is updated to the same result.
func (s *Session) Validate() validation.Errors {
	s.revalidate()
	out := make(validation.Errors, len(s.Errors))
	for name, message := range s.Errors {
		out[name] = message
	}
	return out
}

// Submit runs full validation with every field marked visited. When errors
// exist the submit is aborted and a *ValidationError is returned. Otherwise the
// sink (or the session default when sink is nil) receives one snapshot.
func (s *Session) Submit(ctx context.Context, sink Sink) error {
	s.Submitting = true
	defer func() { s.Submitting = false }()

	s.TouchAll()
	if errs := s.Validate(); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	if sink == nil {
		sink = s.sink
	}
	if sink != nil {
		sink(ctx, s.Snapshot())
	}
	s.Submitted = true
	return nil
}

// Snapshot returns a deep copy of the current values.
func (s *Session) Snapshot() model.Values {
	return s.Values.Clone()
}

// IsTouched reports whether the field has been visited.
func (s *Session) IsTouched(name string) bool {
	return s.Touched[name]
}

// Error returns the current error message for the field, or "".
func (s *Session) Error(name string) string {
	return s.Errors[name]
}

// Valid reports whether the session currently has no errors.
func (s *Session) Valid() bool {
	return len(s.Errors) == 0
}

func (s *Session) revalidate() {
	if s.schema == nil {
		s.Errors = make(validation.Errors)
		return
	}
	s.Errors = s.schema.Validate(s.Values)
}

// compactOptions copies items without blank members.
func compactOptions(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func toBool(value any) (bool, error) {
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case nil:
		return false, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "", "0", "false", "off", "no":
			return false, nil
		case "1", "true", "on", "yes":
			return true, nil
		}
		return false, fmt.Errorf("cannot interpret %q as a flag", typed)
	default:
		return false, fmt.Errorf("unsupported type %T", value)
	}
}
