package render

import (
	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/session"
)

// OptionView is one rendered choice of a radio, select or checkbox group.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// FieldView is the flattened, template-friendly projection of one field.
type FieldView struct {
	Name        string       `json:"name"`
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Value       string       `json:"value"`
	Checked     bool         `json:"checked"`
	Options     []OptionView `json:"options,omitempty"`
	State       VisualState  `json:"state"`
	Class       string       `json:"class"`
	Error       string       `json:"error,omitempty"`
	ShowError   bool         `json:"showError"`
}

// FormView is the projection of a whole session handed to templates.
type FormView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Action      string        `json:"action"`
	Method      string        `json:"method"`
	SubmitLabel string        `json:"submitLabel"`
	Fields      []FieldView   `json:"fields"`
	Hidden      []HiddenField `json:"hidden,omitempty"`
	Notice      string        `json:"notice,omitempty"`
	Submitted   bool          `json:"submitted"`
	Submitting  bool          `json:"submitting"`
}

// BuildFieldView projects one field of the session.
func BuildFieldView(s *session.Session, field model.Field) FieldView {
	value := s.Values[field.Name]
	errMessage := s.Error(field.Name)
	touched := s.IsTouched(field.Name)
	state := StateFor(touched, errMessage, value)

	view := FieldView{
		Name:        field.Name,
		ID:          "field-" + field.Name,
		Type:        string(field.Type),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Description: SanitizeDescription(field.Description),
		Required:    field.Required,
		State:       state,
		Class:       ClassFor(state),
		Error:       errMessage,
		ShowError:   touched && errMessage != "",
	}

	if field.Boolean() {
		view.Checked = s.Values.Bool(field.Name)
	} else {
		view.Value = s.Values.String(field.Name)
	}

	for _, opt := range field.Options {
		var selected bool
		if field.Multiple() {
			selected = s.Values.Has(field.Name, opt.Value)
		} else {
			selected = s.Values.String(field.Name) == opt.Value
		}
		view.Options = append(view.Options, OptionView{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: selected,
		})
	}

	return view
}

// BuildFormView projects every field of the session in declaration order.
func BuildFormView(s *session.Session, opts RenderOptions) FormView {
	form := s.Form()
	view := FormView{
		ID:          form.ID,
		Title:       form.Title,
		Action:      form.Endpoint,
		Method:      form.Method,
		SubmitLabel: form.SubmitLabel,
		Hidden:      SortedHiddenFields(opts.Hidden),
		Notice:      opts.Notice,
		Submitted:   s.Submitted,
		Submitting:  s.Submitting,
	}
	if opts.Action != "" {
		view.Action = opts.Action
	}
	if view.Method == "" {
		view.Method = "POST"
	}
	if view.SubmitLabel == "" {
		view.SubmitLabel = "Submit"
	}
	for _, field := range form.Fields {
		view.Fields = append(view.Fields, BuildFieldView(s, field))
	}
	return view
}
