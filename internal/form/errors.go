package form

import (
	"errors"
	"strings"
)

type Code string

const (
	CodeMissingTitle         Code = "MissingTitle"
	CodeNoFields             Code = "NoFields"
	CodeMissingLabel         Code = "MissingLabel"
	CodeDuplicateLabel       Code = "DuplicateLabel"
	CodeUnknownType          Code = "UnknownType"
	CodeMissingOptions       Code = "MissingOptions"
	CodeInvalidScaleRange    Code = "InvalidScaleRange"
	CodeRequiredFieldMissing Code = "RequiredFieldMissing"
	CodeInvalidAnswer        Code = "InvalidAnswer"
)

// ValidationError is a field-level problem shown to the person editing or
// filling in a form. Field is the field position, -1 for form-level problems.
type ValidationError struct {
	Code    Code   `json:"code"`
	Field   int    `json:"field"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Label != "" {
		return e.Label + ": " + e.Message
	}
	return e.Message
}

// Is matches on Code so errors.Is(err, form.ErrNoFields) works on collected errors.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

var (
	ErrMissingTitle         = &ValidationError{Code: CodeMissingTitle, Field: -1}
	ErrNoFields             = &ValidationError{Code: CodeNoFields, Field: -1}
	ErrMissingOptions       = &ValidationError{Code: CodeMissingOptions, Field: -1}
	ErrInvalidScaleRange    = &ValidationError{Code: CodeInvalidScaleRange, Field: -1}
	ErrDuplicateLabel       = &ValidationError{Code: CodeDuplicateLabel, Field: -1}
	ErrRequiredFieldMissing = &ValidationError{Code: CodeRequiredFieldMissing, Field: -1}
	ErrInvalidAnswer        = &ValidationError{Code: CodeInvalidAnswer, Field: -1}
)

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (es ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}
	return out
}

// AsValidationErrors flattens err into its field-level problems.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var es ValidationErrors
	if errors.As(err, &es) {
		return es, true
	}
	var e *ValidationError
	if errors.As(err, &e) {
		return ValidationErrors{e}, true
	}
	return nil, false
}

// HasCode reports whether err carries a problem with the given code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &ValidationError{Code: code})
}
