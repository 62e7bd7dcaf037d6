package render

import "github.com/goliatone/go-formsession/pkg/model"

// VisualState is the presentation state shared by every field.
type VisualState string

const (
	StateNeutral VisualState = "neutral"
	StateValid   VisualState = "valid"
	StateInvalid VisualState = "invalid"
)

// StateFor derives the visual state of a field. A visited field with an error
// is invalid; a filled-in field without an error is valid; everything else is
// neutral.
func StateFor(touched bool, errMessage string, value any) VisualState {
	switch {
	case touched && errMessage != "":
		return StateInvalid
	case errMessage == "" && !model.IsEmpty(value):
		return StateValid
	default:
		return StateNeutral
	}
}

// ClassFor maps a visual state onto the Bootstrap validation class.
func ClassFor(state VisualState) string {
	switch state {
	case StateInvalid:
		return "is-invalid"
	case StateValid:
		return "is-valid"
	default:
		return ""
	}
}
