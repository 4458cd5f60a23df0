package analysis

import "errors"

// ErrMissingParameter is returned when keyword or market is absent
var ErrMissingParameter = errors.New("Keyword and market are required.")

// Validator validates analysis requests
type Validator struct{}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that both keyword and market are present. market is only
// checked for presence.
func (v *Validator) Validate(keyword, market string) error {
	if keyword == "" || market == "" {
		return ErrMissingParameter
	}
	return nil
}
