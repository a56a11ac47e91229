package errors

import "net/http"

// ErrorCategory groups errors by what the user has to do about them.
type ErrorCategory string

const (
	// Bad input: flags, docket.yaml, or a source path that does not exist.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Remote sources.
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"

	// Rendering the tree.
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryContent    ErrorCategory = "content"

	// Preview server and bugs.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps a category to the process exit status of the docket binary.
// Unknown categories exit with 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryConfig:     7,
	CategoryNetwork:    8,
	CategoryGit:        8,
	CategoryInternal:   10,
	CategoryBuild:      11,
	CategoryFileSystem: 11,
	CategoryContent:    11,
	CategoryRuntime:    12,
}

var httpStatuses = map[ErrorCategory]int{
	CategoryValidation: http.StatusBadRequest,
	CategoryConfig:     http.StatusBadRequest,
	CategoryNotFound:   http.StatusNotFound,
	CategoryNetwork:    http.StatusBadGateway,
	CategoryGit:        http.StatusBadGateway,
	CategoryBuild:      http.StatusUnprocessableEntity,
	CategoryContent:    http.StatusUnprocessableEntity,
	CategoryRuntime:    http.StatusServiceUnavailable,
}

// ExitCode is the exit status for an error of this category.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// HTTPStatus is the response status for an error of this category.
func (c ErrorCategory) HTTPStatus() int {
	if status, ok := httpStatuses[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
