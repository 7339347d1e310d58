package errors

import (
	"fmt"
)

// Code classifies pipeline failures.
type Code string

const (
	// Initialization errors
	CodeModelLoad    Code = "MODEL_LOAD"
	CodeMissingAsset Code = "MISSING_ASSET"

	// Per-call errors
	CodeInvalidRegion Code = "INVALID_REGION"
	CodeInference     Code = "INFERENCE"
)

// Error is the structured error returned by every pipeline stage.
type Error struct {
	Code    Code
	Message string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == "" && t.Path == "" && t.Cause == nil
}

// Sentinels for errors.Is comparisons.
var (
	ModelLoad     = &Error{Code: CodeModelLoad}
	MissingAsset  = &Error{Code: CodeMissingAsset}
	InvalidRegion = &Error{Code: CodeInvalidRegion}
	Inference     = &Error{Code: CodeInference}
)

// Factory functions

func NewModelLoadError(path string, cause error) *Error {
	return &Error{
		Code:    CodeModelLoad,
		Message: "failed to load model",
		Path:    path,
		Cause:   cause,
	}
}

func NewMissingAssetError(path string, cause error) *Error {
	return &Error{
		Code:    CodeMissingAsset,
		Message: "character set file not found",
		Path:    path,
		Cause:   cause,
	}
}

func NewInvalidRegionError(format string, args ...interface{}) *Error {
	return &Error{
		Code:    CodeInvalidRegion,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewInferenceError(stage string, cause error) *Error {
	return &Error{
		Code:    CodeInference,
		Message: fmt.Sprintf("%s inference failed", stage),
		Cause:   cause,
	}
}
