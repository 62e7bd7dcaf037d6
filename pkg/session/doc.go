// Package session holds the state of a single form interaction. A Session owns
// the value record, the set of visited fields, the derived error map and the
// submitting flag, and exposes one mutator per user event: Change, Toggle,
// Blur and Submit. Validation is synchronous and pure; the only failure a
// submit can report is a ValidationError.
package session
