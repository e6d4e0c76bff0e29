// Package validator collects field-level validation errors.
package validator

import "regexp"

// DigitsRX matches strings made only of ASCII digits, e.g. a bare ISBN.
var DigitsRX = regexp.MustCompile(`^\d+$`)

// Validator holds a map of validation errors keyed by field name.
type Validator struct {
	Errors map[string]string
}

// New returns a Validator with an empty errors map.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the errors map doesn't contain any entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message for key unless one is already present.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message for key only if ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Between reports whether n lies in the closed range [min, max].
func Between(n, min, max int) bool {
	return n >= min && n <= max
}

// Matches returns true if value matches rx.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
