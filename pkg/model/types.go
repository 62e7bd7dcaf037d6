package model

// FieldType enumerates the input kinds a form session understands. Each kind
// maps onto one HTML control and one empty default value.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeEmail         FieldType = "email"
	FieldTypePassword      FieldType = "password"
	FieldTypeCheckbox      FieldType = "checkbox"
	FieldTypeRadio         FieldType = "radio"
	FieldTypeSelect        FieldType = "select"
	FieldTypeCheckboxGroup FieldType = "checkbox-group"
	FieldTypeTextArea      FieldType = "textarea"
)

const (
	ValidationRuleEmail     = "email"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMinItems  = "minItems"
	ValidationRuleNotEqual  = "notEqual"
	ValidationRuleOneOf     = "oneOf"
)

// ValidationRule represents a single constraint applied to a field. Thresholds
// are encoded in Params["value"]; the human readable failure text lives in
// Message so schemas can be rebuilt from configuration without code changes.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Option is one selectable choice of a radio, select or checkbox group.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field models one named, independently validated input.
type Field struct {
	Name            string           `json:"name"`
	Type            FieldType        `json:"type"`
	Label           string           `json:"label,omitempty"`
	Placeholder     string           `json:"placeholder,omitempty"`
	Description     string           `json:"description,omitempty"`
	Required        bool             `json:"required"`
	RequiredMessage string           `json:"requiredMessage,omitempty"`
	Options         []Option         `json:"options,omitempty"`
	Validations     []ValidationRule `json:"validations,omitempty"`
}

// Multiple reports whether the field holds a set of values rather than a
// single scalar.
func (f Field) Multiple() bool {
	return f.Type == FieldTypeCheckboxGroup
}

// Boolean reports whether the field holds a single on/off flag.
func (f Field) Boolean() bool {
	return f.Type == FieldTypeCheckbox
}

// OptionValues returns the raw option values in declaration order.
func (f Field) OptionValues() []string {
	if len(f.Options) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		out = append(out, opt.Value)
	}
	return out
}

// Zero returns the empty default for the field kind.
func (f Field) Zero() any {
	switch {
	case f.Multiple():
		return []string{}
	case f.Boolean():
		return false
	default:
		return ""
	}
}

// FormModel is the top-level description renderers and sessions consume.
type FormModel struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Endpoint    string  `json:"endpoint"`
	Method      string  `json:"method"`
	SubmitLabel string  `json:"submitLabel,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field looks up a field definition by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in declaration order.
func (m FormModel) FieldNames() []string {
	out := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		out = append(out, field.Name)
	}
	return out
}
