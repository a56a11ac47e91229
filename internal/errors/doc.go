// Package errors provides the classified error type used across docket.
//
// A ClassifiedError wraps a cause with a category and structured fields. The
// category decides the exit status of the docket binary and the status code
// of preview server responses.
//
//	err := errors.WrapError(ioErr, errors.CategoryFileSystem, "write page").
//		WithContext("path", out).
//		Build()
package errors
