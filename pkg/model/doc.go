// Package model defines the typed form description shared by sessions,
// validators and renderers. A FormModel lists Fields in render order; each
// Field carries its input kind, options and declarative ValidationRules whose
// thresholds are encoded as string parameters so schemas survive YAML and JSON
// round trips. Values is the plain record a session mutates and hands to its
// sink on submit.
package model
