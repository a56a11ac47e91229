package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a ClassifiedError in category.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{category: category, message: message}}
}

// WrapError starts a ClassifiedError in category with err as its cause.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = err
	return b
}

// WithContext attaches a structured field.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	if b.err.fields == nil {
		b.err.fields = make(map[string]any)
	}
	b.err.fields[key] = value
	return b
}

// Build returns the error. The builder must not be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	return &out
}

func ConfigError(message string) *ErrorBuilder { return NewError(CategoryConfig, message) }

func ValidationError(message string) *ErrorBuilder { return NewError(CategoryValidation, message) }

func NotFoundError(message string) *ErrorBuilder { return NewError(CategoryNotFound, message) }

func GitError(message string) *ErrorBuilder { return NewError(CategoryGit, message) }

func BuildError(message string) *ErrorBuilder { return NewError(CategoryBuild, message) }

func RuntimeError(message string) *ErrorBuilder { return NewError(CategoryRuntime, message) }

func InternalError(message string) *ErrorBuilder { return NewError(CategoryInternal, message) }
