// Package template defines the template engine seam HTML renderers depend on.
// The gotemplate sub-package provides the pongo2-backed implementation.
package template
