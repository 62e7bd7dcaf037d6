package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/validation"
)

func signupSchema(t *testing.T) validation.Schema {
	t.Helper()
	schema, err := validation.FromForm(model.SignupForm(model.DefaultCatalog()))
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return schema
}

func TestSchema_EmptyFormReportsRequiredMessages(t *testing.T) {
	form := model.SignupForm(model.DefaultCatalog())
	schema := signupSchema(t)

	got := schema.Validate(model.DefaultValues(form))
	want := validation.Errors{
		"name":     "Name is required",
		"email":    "Email is required",
		"password": "Password is required",
		"gender":   "Gender is required",
		"country":  "Country is required",
		"hobbies":  "Select at least one hobby",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Email(t *testing.T) {
	schema := signupSchema(t)

	cases := []struct {
		value string
		want  string
	}{
		{value: "ada", want: "Invalid email format"},
		{value: "ada@", want: "Invalid email format"},
		{value: "@example.com", want: "Invalid email format"},
		{value: "ada example.com", want: "Invalid email format"},
		{value: "ada@localhost", want: "Invalid email format"},
		{value: "ada@example.com", want: ""},
		{value: "first.last+tag@mail.example.org", want: ""},
		{value: "", want: "Email is required"},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			if got := schema.ValidateField("email", tc.value); got != tc.want {
				t.Fatalf("ValidateField(email, %q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestSchema_PasswordLength(t *testing.T) {
	schema := signupSchema(t)

	for n := 1; n <= 10; n++ {
		value := strings.Repeat("x", n)
		got := schema.ValidateField("password", value)
		if n < 8 && got != "Password must be at least 8 characters" {
			t.Fatalf("length %d: expected min length error, got %q", n, got)
		}
		if n >= 8 && got != "" {
			t.Fatalf("length %d: expected no error, got %q", n, got)
		}
	}
}

func TestSchema_CountryPlaceholder(t *testing.T) {
	schema := signupSchema(t)

	if got := schema.ValidateField("country", model.CountryPlaceholder); got != "Country is required" {
		t.Fatalf("placeholder should fail, got %q", got)
	}
	for _, country := range model.DefaultCatalog().Countries {
		if got := schema.ValidateField("country", country); got != "" {
			t.Fatalf("country %q should pass, got %q", country, got)
		}
	}
	if got := schema.ValidateField("country", "Atlantis"); got != "Country is required" {
		t.Fatalf("unknown country should fail, got %q", got)
	}
}

func TestSchema_Hobbies(t *testing.T) {
	schema := signupSchema(t)

	if got := schema.ValidateField("hobbies", []string{}); got != "Select at least one hobby" {
		t.Fatalf("empty hobbies should fail, got %q", got)
	}
	if got := schema.ValidateField("hobbies", []string{"Music"}); got != "" {
		t.Fatalf("one hobby should pass, got %q", got)
	}
	if got := schema.ValidateField("hobbies", []string{"Music", "Knitting"}); got != "Select hobbies from the list" {
		t.Fatalf("unknown hobby should fail, got %q", got)
	}
}

func TestSchema_UnvalidatedFieldsAlwaysPass(t *testing.T) {
	schema := signupSchema(t)

	for _, name := range []string{"subscribe", "comments"} {
		if _, ok := schema[name]; ok {
			t.Fatalf("field %q should not carry rules", name)
		}
	}
}

func TestFromForm_RejectsUnknownRule(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "age", Validations: []model.ValidationRule{{Kind: "between"}}},
		},
	}

	_, err := validation.FromForm(form)
	if !errors.Is(err, validation.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestFromForm_RejectsBadThreshold(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{
				Name: "nick",
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "many"}},
				},
			},
		},
	}

	_, err := validation.FromForm(form)
	if !errors.Is(err, validation.ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
}
