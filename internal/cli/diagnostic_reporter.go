package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// WithOutput redirects the reporter's output
func (r *DiagnosticReporter) WithOutput(out io.Writer) *DiagnosticReporter {
	r.out = out
	return r
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints err with its type, context and suggestions when it
// carries them
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Generation Failed\n")
	fmt.Fprintf(r.out, "========================\n\n")

	var multi *errors.MultipleErrors
	var coded errors.CmakesrcError
	switch {
	case stderrors.As(err, &multi):
		r.reportMultipleErrors(multi)
	case stderrors.As(err, &coded):
		r.reportCodedError(coded)
	default:
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
	}
}

func (r *DiagnosticReporter) reportMultipleErrors(multi *errors.MultipleErrors) {
	fmt.Fprintf(r.out, "Type: %s\n", r.errorTypeName(multi.ErrorCode()))
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(r.errorTypeName(multi.ErrorCode()))+6))

	for i, err := range multi.Errors {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, err.Error())
	}
	fmt.Fprintln(r.out)

	if suggestions := multi.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
}

func (r *DiagnosticReporter) reportCodedError(err errors.CmakesrcError) {
	typeName := r.errorTypeName(err.ErrorCode())
	fmt.Fprintf(r.out, "Type: %s\n", typeName)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(typeName)+6))

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if r.verbose && err.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", err.Unwrap().Error())
	}

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc.String())
	}

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	r.printAdditionalHelp(err.ErrorCode())
}

// errorTypeName returns a readable name for an error code
func (r *DiagnosticReporter) errorTypeName(code errors.ErrorCode) string {
	switch code {
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	case errors.ValidationErrorCode:
		return "Validation Error"
	case errors.ResolutionErrorCode:
		return "Target Resolution Error"
	case errors.GenerationErrorCode, errors.TemplateErrorCode:
		return "Generation Error"
	case errors.FileSystemErrorCode:
		return "File System Error"
	default:
		return "Unknown Error"
	}
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "start_dir":
		return "Start Directory"
	case "searched_files":
		return "Searched"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

// printAdditionalHelp prints additional help based on error type
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.ResolutionErrorCode:
		fmt.Fprintf(r.out, "Target Resolution:\n")
		fmt.Fprintf(r.out, "  - The search starts in the parent of --path and stops at the filesystem root\n")
		fmt.Fprintf(r.out, "  - Only the first %s(...) or %s(...) call of each file is considered\n",
			models.TargetKindExecutable.Declaration(), models.TargetKindLibrary.Declaration())
		fmt.Fprintf(r.out, "  - Run with --verbose to list the files that were inspected\n\n")

	case errors.FileSystemErrorCode:
		fmt.Fprintf(r.out, "File System:\n")
		fmt.Fprintf(r.out, "  - Check that --path exists and is readable\n")
		fmt.Fprintf(r.out, "  - Check write permissions for %s in the processed directories\n\n", models.CMakeListsFile)
	}
}
