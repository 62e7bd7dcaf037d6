// Package openapi describes a form's submission payload as an OpenAPI 3
// document so API clients can post to the same endpoint the HTML form uses.
// Field kinds, required flags and declared validation rules are translated
// into kin-openapi schemas.
package openapi
