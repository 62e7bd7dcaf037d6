package validation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formsession/pkg/model"
)

var (
	// ErrUnknownRule is returned when a form declares a rule kind the schema
	// builder does not understand.
	ErrUnknownRule = errors.New("validation: unknown rule kind")
	// ErrInvalidParam is returned when a rule threshold cannot be parsed.
	ErrInvalidParam = errors.New("validation: invalid rule parameter")
)

// Schema maps a field name to the ordered rules evaluated for it. Fields
// without an entry always validate.
type Schema map[string][]Rule

// Errors maps field name to the message of its first failing rule. A missing
// key means the field is currently valid.
type Errors map[string]string

// Fields returns the failing field names sorted.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for field := range e {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// ValidateField evaluates the rules of one field in order and returns the
// first failing message, or "" when every rule passes.
func (s Schema) ValidateField(name string, value any) string {
	for _, rule := range s[name] {
		if rule.Check == nil {
			continue
		}
		if !rule.Check(value) {
			return rule.Message
		}
	}
	return ""
}

// Validate evaluates every field independently against values.
func (s Schema) Validate(values model.Values) Errors {
	errs := make(Errors)
	for name := range s {
		if message := s.ValidateField(name, values[name]); message != "" {
			errs[name] = message
		}
	}
	return errs
}

// FromForm derives a schema from the form's Required flags and declared
// ValidationRules. Required always runs first so blank fields report the
// required message rather than a format message.
func FromForm(form model.FormModel) (Schema, error) {
	schema := make(Schema, len(form.Fields))
	for _, field := range form.Fields {
		var rules []Rule
		if field.Required {
			message := field.RequiredMessage
			if message == "" {
				message = defaultRequiredMessage(field)
			}
			rules = append(rules, Required(message))
		}
		for _, declared := range field.Validations {
			rule, err := buildRule(field, declared)
			if err != nil {
				return nil, fmt.Errorf("validation: field %q: %w", field.Name, err)
			}
			rules = append(rules, rule)
		}
		if len(rules) > 0 {
			schema[field.Name] = rules
		}
	}
	return schema, nil
}

// MustFromForm is like FromForm but panics on error. Intended for forms built
// in code.
func MustFromForm(form model.FormModel) Schema {
	schema, err := FromForm(form)
	if err != nil {
		panic(err)
	}
	return schema
}

func buildRule(field model.Field, declared model.ValidationRule) (Rule, error) {
	message := strings.TrimSpace(declared.Message)
	if message == "" {
		message = field.Label + " is invalid"
	}

	switch declared.Kind {
	case model.ValidationRuleEmail:
		return Email(message), nil
	case model.ValidationRuleMinLength:
		n, err := intParam(declared)
		if err != nil {
			return Rule{}, err
		}
		return MinLength(n, message), nil
	case model.ValidationRuleMinItems:
		n, err := intParam(declared)
		if err != nil {
			return Rule{}, err
		}
		return MinItems(n, message), nil
	case model.ValidationRuleNotEqual:
		return NotEqual(declared.Params["value"], message), nil
	case model.ValidationRuleOneOf:
		allowed := field.OptionValues()
		if raw := strings.TrimSpace(declared.Params["values"]); raw != "" {
			allowed = strings.Split(raw, ",")
		}
		return OneOf(allowed, message), nil
	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRule, declared.Kind)
	}
}

func intParam(rule model.ValidationRule) (int, error) {
	raw := strings.TrimSpace(rule.Params["value"])
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, rule.Kind, raw)
	}
	return n, nil
}

func defaultRequiredMessage(field model.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}
	return label + " is required"
}
