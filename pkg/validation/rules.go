package validation

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formsession/pkg/model"
)

// Predicate reports whether a value satisfies a rule. Predicates must be pure.
type Predicate func(value any) bool

// Rule pairs a predicate with the message surfaced when it fails.
type Rule struct {
	Kind    string
	Message string
	Check   Predicate
}

var (
	varValidator     *validator.Validate
	varValidatorOnce sync.Once
)

func tags() *validator.Validate {
	varValidatorOnce.Do(func() {
		varValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return varValidator
}

// Required fails on empty or whitespace-only strings and on empty sets. A
// boolean flag is never considered missing.
func Required(message string) Rule {
	return Rule{
		Kind:    "required",
		Message: message,
		Check: func(value any) bool {
			switch typed := value.(type) {
			case string:
				return tags().Var(strings.TrimSpace(typed), "required") == nil
			case []string:
				return len(typed) > 0
			case bool:
				return true
			default:
				return value != nil
			}
		},
	}
}

// Email fails on strings that are not a syntactically valid address. Empty
// strings pass so Required decides whether the field may be blank.
func Email(message string) Rule {
	return Rule{
		Kind:    model.ValidationRuleEmail,
		Message: message,
		Check: func(value any) bool {
			text, _ := value.(string)
			text = strings.TrimSpace(text)
			if text == "" {
				return true
			}
			return tags().Var(text, "email") == nil
		},
	}
}

// MinLength fails on non-empty strings shorter than n characters.
func MinLength(n int, message string) Rule {
	return Rule{
		Kind:    model.ValidationRuleMinLength,
		Message: message,
		Check: func(value any) bool {
			text, _ := value.(string)
			if text == "" {
				return true
			}
			return utf8.RuneCountInString(text) >= n
		},
	}
}

// NotEqual fails when the value equals the forbidden sentinel, typically a
// select placeholder.
func NotEqual(forbidden, message string) Rule {
	return Rule{
		Kind:    model.ValidationRuleNotEqual,
		Message: message,
		Check: func(value any) bool {
			text, _ := value.(string)
			return text != forbidden
		},
	}
}

// OneOf fails when a scalar value (or any member of a set) is not listed in
// allowed. Empty values pass.
func OneOf(allowed []string, message string) Rule {
	index := make(map[string]struct{}, len(allowed))
	for _, option := range allowed {
		index[option] = struct{}{}
	}
	contains := func(candidate string) bool {
		_, ok := index[candidate]
		return ok
	}

	return Rule{
		Kind:    model.ValidationRuleOneOf,
		Message: message,
		Check: func(value any) bool {
			switch typed := value.(type) {
			case string:
				return typed == "" || contains(typed)
			case []string:
				for _, item := range typed {
					if !contains(item) {
						return false
					}
				}
				return true
			default:
				return true
			}
		},
	}
}

// MinItems fails when a set holds fewer than n members.
func MinItems(n int, message string) Rule {
	return Rule{
		Kind:    model.ValidationRuleMinItems,
		Message: message,
		Check: func(value any) bool {
			set, _ := value.([]string)
			return len(set) >= n
		},
	}
}
