package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "ResolutionError", ResolutionErrorCode.String())
	assert.Equal(t, "FileSystemError", FileSystemErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestBaseError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := WrapFileSystemError("write", "/work/CMakeLists.txt", cause).
		WithLocation(SourceLocation{File: "/work/CMakeLists.txt", Line: 3}).
		WithSuggestions("Check permissions")

	assert.Equal(t, "/work/CMakeLists.txt:3: failed to write '/work/CMakeLists.txt': permission denied", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "write", err.Context()["operation"])
	assert.Equal(t, []string{"Check permissions"}, err.Suggestions())
	assert.True(t, stderrors.Is(err, cause))
}

func TestSourceLocation(t *testing.T) {
	assert.True(t, SourceLocation{}.IsEmpty())
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.yaml", SourceLocation{File: "a.yaml"}.String())
	assert.Equal(t, "a.yaml:7", SourceLocation{File: "a.yaml", Line: 7}.String())
}

func TestResolutionError(t *testing.T) {
	err := NewResolutionError("/work/src", "executable", []string{"/work/CMakeLists.txt", "/CMakeLists.txt"})

	assert.Equal(t, ResolutionErrorCode, err.ErrorCode())
	assert.Contains(t, err.Error(), "no executable target found")
	assert.Equal(t, "/work/CMakeLists.txt, /CMakeLists.txt", err.Context()["searched_files"])
	assert.Len(t, err.Suggestions(), 2)

	var wrapped error = fmt.Errorf("run: %w", err)
	var target *ResolutionError
	require.True(t, stderrors.As(wrapped, &target))
	assert.Equal(t, "/work/src", target.StartDir)
}

func TestMultipleErrors(t *testing.T) {
	var errs *MultipleErrors
	assert.Nil(t, errs)

	AddValidationError(&errs, "length", "a positive number", "0")
	require.NotNil(t, errs)
	assert.Equal(t, "invalid value for 'length': expected a positive number, got 0", errs.Error())

	AddToMultiple(&errs, ConfigurationError("mode", "unknown mode").WithSuggestions("Use flat"))

	require.Len(t, errs.Errors, 2)
	assert.Equal(t, ValidationErrorCode, errs.ErrorCode())
	assert.Contains(t, errs.Error(), "multiple errors (2 total)")
	assert.Equal(t, []string{"Use flat"}, errs.Suggestions())

	var validationErr *ValidationError
	require.True(t, stderrors.As(errs, &validationErr))
	assert.Equal(t, "length", validationErr.Field)

	var wrapped error = fmt.Errorf("load: %w", errs)
	var coded *BaseError
	require.True(t, stderrors.As(wrapped, &coded))
	assert.Equal(t, ConfigurationErrorCode, coded.ErrorCode())

	empty := NewMultipleErrors()
	assert.Equal(t, "no errors", empty.Error())
	assert.Equal(t, UnknownErrorCode, empty.ErrorCode())
	assert.Empty(t, empty.Unwrap())
}

func TestGenerationError(t *testing.T) {
	err := WrapTemplateError("target-sources", "execute", fmt.Errorf("bad field"))

	assert.Equal(t, TemplateErrorCode, err.ErrorCode())
	assert.Equal(t, "target-sources", err.TargetFile)
	assert.Equal(t, "execute", err.Stage)

	gen := NewGenerationError("line length must be positive").WithTargetFile("CMakeLists.txt").WithStage("wrap")
	assert.Equal(t, GenerationErrorCode, gen.ErrorCode())
	assert.Equal(t, "CMakeLists.txt", gen.TargetFile)
}
