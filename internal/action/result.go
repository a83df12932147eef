package action

// Kind classifies a completed invocation.
type Kind string

const (
	KindSuccess     Kind = "success"
	KindFieldErrors Kind = "field_errors"
	KindError       Kind = "error"
)

// Result is the outcome of one action invocation. Exactly one of
// FieldErrors, Error and Data is populated.
type Result[T any] struct {
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Error       string              `json:"error,omitempty"`
	Data        *T                  `json:"data,omitempty"`
}

// Outcome is implemented by every Result and lets non-generic code
// inspect an invocation without knowing its output type.
type Outcome interface {
	Kind() Kind
}

// Kind reports which member of the result is populated.
func (r Result[T]) Kind() Kind {
	switch {
	case len(r.FieldErrors) > 0:
		return KindFieldErrors
	case r.Error != "":
		return KindError
	default:
		return KindSuccess
	}
}

// Success wraps data in a Result.
func Success[T any](data T) Result[T] {
	return Result[T]{Data: &data}
}

// Failure builds an error Result.
func Failure[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// Invalid builds a field-errors Result.
func Invalid[T any](fieldErrors map[string][]string) Result[T] {
	return Result[T]{FieldErrors: fieldErrors}
}
