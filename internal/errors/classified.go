package errors

import (
	stderrors "errors"
	"maps"
)

// ClassifiedError is an error with a category and optional structured fields.
type ClassifiedError struct {
	category ErrorCategory
	message  string
	cause    error
	fields   map[string]any
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Message() string { return e.message }

// Fields returns a copy of the structured fields attached to the error.
func (e *ClassifiedError) Fields() map[string]any {
	return maps.Clone(e.fields)
}

// With returns a copy of e with key set to value.
func (e *ClassifiedError) With(key string, value any) *ClassifiedError {
	out := *e
	out.fields = maps.Clone(e.fields)
	if out.fields == nil {
		out.fields = make(map[string]any, 1)
	}
	out.fields[key] = value
	return &out
}

// AsClassified finds the outermost ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsClassified reports whether err's chain contains a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the outermost classified error in err's chain
// belongs to category.
func HasCategory(err error, category ErrorCategory) bool {
	c, ok := AsClassified(err)
	return ok && c.category == category
}

// GetCategory returns the category of err, or CategoryInternal when err is
// not classified.
func GetCategory(err error) ErrorCategory {
	if c, ok := AsClassified(err); ok {
		return c.category
	}
	return CategoryInternal
}
