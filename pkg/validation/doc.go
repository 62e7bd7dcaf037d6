// Package validation implements the declarative field schema: every field name
// maps to an ordered list of pure predicate and message pairs. Fields are
// evaluated independently and each reports the message of its first failing
// rule.
package validation
