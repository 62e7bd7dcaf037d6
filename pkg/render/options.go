package render

// RenderOptions describe per-request data renderers use without mutating the
// session.
type RenderOptions struct {
	// Action overrides the form endpoint declared by the model.
	Action string
	// Hidden fields are emitted alongside the visible inputs, sorted by name.
	Hidden map[string]string
	// Notice is shown above the form, typically after a successful submit.
	Notice string
}
