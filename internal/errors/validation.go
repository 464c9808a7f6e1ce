package errors

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration value that failed validation
type ValidationError struct {
	*BaseError
	Field    string // field that failed validation
	Expected string // what was expected
	Actual   string // what was provided
}

// NewValidationError creates a new validation error
func NewValidationError(field, expected, actual string) *ValidationError {
	message := fmt.Sprintf("invalid value for '%s': expected %s, got %s", field, expected, actual)

	return &ValidationError{
		BaseError: New(ValidationErrorCode, message).
			WithContext("field", field).
			WithContext("expected", expected).
			WithContext("actual", actual),
		Field:    field,
		Expected: expected,
		Actual:   actual,
	}
}

// WithSuggestion adds a helpful suggestion
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestions(suggestion)
	return e
}

// ResolutionError reports that no target name could be found in any
// ancestor CMakeLists.txt
type ResolutionError struct {
	*BaseError
	StartDir   string   // directory the search started from
	TargetKind string   // declaration kind that was searched for
	Searched   []string // CMakeLists.txt files that were inspected
}

// NewResolutionError creates a resolution error for the given search
func NewResolutionError(startDir, targetKind string, searched []string) *ResolutionError {
	message := fmt.Sprintf("no %s target found in any CMakeLists.txt above '%s'", targetKind, startDir)

	base := New(ResolutionErrorCode, message).
		WithContext("start_dir", startDir).
		WithContext("target_kind", targetKind).
		WithSuggestions(
			"Pass the target name explicitly with --target",
			"Check --targettype matches the declaration in the parent CMakeLists.txt",
		)
	if len(searched) > 0 {
		base.WithContext("searched_files", strings.Join(searched, ", "))
	}

	return &ResolutionError{
		BaseError:  base,
		StartDir:   startDir,
		TargetKind: targetKind,
		Searched:   searched,
	}
}

// GenerationError represents an error while rendering a listing
type GenerationError struct {
	*BaseError
	TargetFile string // output file being generated
	Stage      string // stage of generation where error occurred
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

// WithTargetFile sets the target file
func (e *GenerationError) WithTargetFile(targetFile string) *GenerationError {
	e.TargetFile = targetFile
	return e
}

// WithStage sets the generation stage
func (e *GenerationError) WithStage(stage string) *GenerationError {
	e.Stage = stage
	return e
}
