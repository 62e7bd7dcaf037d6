package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	multiIdx     [][]int
	textAreas    []string
	infoMessages []string
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
	multiPos     int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newSignupSession(sink session.Sink) *session.Session {
	form := model.SignupForm(model.DefaultCatalog())
	return session.New(form, validation.MustFromForm(form), session.WithSink(sink))
}

func TestRender_CollectsAndSubmits(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com"},
		passwords: []string{"analytical"},
		confirm:   []bool{true},
		selectIdx: []int{1, 2},
		multiIdx:  [][]int{{0, 3}},
		textAreas: []string{"hi"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var sunk []model.Values
	s := newSignupSession(func(_ context.Context, values model.Values) {
		sunk = append(sunk, values)
	})

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(sunk) != 1 {
		t.Fatalf("expected one sink call, got %d", len(sunk))
	}
	if got := sunk[0].String("password"); got != "analytical" {
		t.Fatalf("sink should receive the real password, got %q", got)
	}

	var payload map[string]any
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"name":      "Ada",
		"email":     "ada@example.com",
		"password":  maskedSecret,
		"subscribe": true,
		"gender":    "female",
		"country":   "Canada",
		"hobbies":   []any{"Reading", "Music"},
		"comments":  "hi",
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 0 {
		t.Fatalf("expected no validation messages, got %v", driver.infoMessages)
	}
}

func TestRender_RepromptsInvalidFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Ada", "ada", "ada@example.com"},
		passwords: []string{"short", "long enough"},
		confirm:   []bool{false},
		selectIdx: []int{0, 0, 1},
		multiIdx:  [][]int{{}, {2}},
		textAreas: []string{""},
	}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	s := newSignupSession(nil)
	if _, err := r.Render(context.Background(), s, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{
		"! Name is required",
		"! Invalid email format",
		"! Password must be at least 8 characters",
		"! Country is required",
		"! Select at least one hobby",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("validation messages mismatch (-want +got):\n%s", diff)
	}
	if got := s.Values.String("country"); got != "USA" {
		t.Fatalf("expected USA after re-prompt, got %q", got)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = r.Render(context.Background(), newSignupSession(nil), render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRender_PrettyOutput(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "ada@example.com"},
		passwords: []string{"analytical"},
		confirm:   []bool{false},
		selectIdx: []int{0, 1},
		multiIdx:  [][]int{{1}},
		textAreas: []string{""},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), newSignupSession(nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	for _, want := range []string{"gender=male\n", "country=USA\n", "hobbies=Traveling\n", "password=********\n", "subscribe=false\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRender_DriverAbortPropagates(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), newSignupSession(nil), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to propagate")
	}
}
