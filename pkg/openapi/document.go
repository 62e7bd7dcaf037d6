package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formsession/pkg/model"
)

// Media types accepted by the submit endpoint.
const (
	MediaTypeFormURLEncoded = "application/x-www-form-urlencoded"
	MediaTypeMultipart      = "multipart/form-data"
	MediaTypeJSON           = "application/json"
)

// PayloadMediaTypes lists every request body encoding the document advertises.
var PayloadMediaTypes = []string{MediaTypeFormURLEncoded, MediaTypeMultipart, MediaTypeJSON}

// Info carries the document level metadata.
type Info struct {
	Title   string
	Version string
}

// Describe builds an OpenAPI 3 document with one operation: submitting the
// form payload to the form's endpoint.
func Describe(form model.FormModel, info Info) *openapi3.T {
	if info.Title == "" {
		info.Title = form.Title
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}

	schema := PayloadSchema(form)

	content := make(openapi3.Content, len(PayloadMediaTypes))
	for _, mediaType := range PayloadMediaTypes {
		content[mediaType] = openapi3.NewMediaType().WithSchema(schema)
	}
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithDescription("Form submission").
		WithContent(content)

	op := openapi3.NewOperation()
	op.OperationID = "submit" + exportName(form.ID)
	op.Summary = "Submit the " + form.ID + " form"
	op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission accepted"),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Validation failed; the form is re-rendered with inline errors"),
		}),
	)

	method := strings.ToUpper(form.Method)
	if method == "" {
		method = http.MethodPost
	}
	item := &openapi3.PathItem{}
	item.SetOperation(method, op)

	endpoint := form.Endpoint
	if endpoint == "" {
		endpoint = "/"
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   info.Title,
			Version: info.Version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(endpoint, item)),
	}
}

// PayloadSchema translates the form fields into an object schema.
func PayloadSchema(form model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	var required []string
	for _, field := range form.Fields {
		schema.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			required = append(required, field.Name)
		}
	}
	schema.Required = required
	return schema
}

// MarshalJSON renders the document after validating it.
func MarshalJSON(ctx context.Context, doc *openapi3.T) ([]byte, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch {
	case field.Boolean():
		schema = openapi3.NewBoolSchema()
	case field.Multiple():
		items := openapi3.NewStringSchema()
		if enum := allowedValues(field); len(enum) > 0 {
			items.WithEnum(enum...)
		}
		schema = openapi3.NewArraySchema().WithItems(items)
	default:
		schema = openapi3.NewStringSchema()
		if field.Required {
			schema.WithMinLength(1)
		}
		if enum := allowedValues(field); len(enum) > 0 {
			schema.WithEnum(enum...)
		}
	}

	schema.Title = field.Label
	schema.Description = strings.TrimSpace(field.Description)

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleEmail:
			schema.WithFormat("email")
		case model.ValidationRuleMinLength:
			if n, err := strconv.ParseUint(rule.Params["value"], 10, 64); err == nil {
				schema.WithMinLength(int64(n))
			}
		case model.ValidationRuleMinItems:
			if n, err := strconv.ParseUint(rule.Params["value"], 10, 64); err == nil {
				schema.WithMinItems(int64(n))
			}
		}
	}
	if field.Type == model.FieldTypePassword {
		schema.WithFormat("password")
	}
	return schema
}

// allowedValues lists option values minus any value a notEqual rule forbids,
// so select placeholders are not advertised as valid.
func allowedValues(field model.Field) []any {
	if len(field.Options) == 0 {
		return nil
	}
	forbidden := make(map[string]struct{})
	for _, rule := range field.Validations {
		if rule.Kind == model.ValidationRuleNotEqual {
			forbidden[rule.Params["value"]] = struct{}{}
		}
	}
	out := make([]any, 0, len(field.Options))
	for _, value := range field.OptionValues() {
		if _, skip := forbidden[value]; skip {
			continue
		}
		out = append(out, value)
	}
	return out
}

func exportName(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
