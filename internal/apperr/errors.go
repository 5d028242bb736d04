package apperr

// ValidationError reports input that can never succeed as given: a malformed
// case file, an unknown metric, a vector/id count mismatch. Callers detect it
// with errors.As and treat it as a usage error rather than a cluster failure.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation returns a ValidationError with no underlying cause.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationWrap returns a ValidationError that prefixes and wraps err,
// e.g. a metric parse failure under the name of the offending case.
func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}
