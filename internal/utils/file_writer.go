package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
)

// DefaultFilePerm is the permission used for newly created files
const DefaultFilePerm os.FileMode = 0644

// WriteOptions controls how FileWriter treats existing files
type WriteOptions struct {
	Force  bool // overwrite an existing file when its content differs
	DryRun bool // report the intended write without touching disk
	Diff   bool // in dry-run, show a diff against the existing file
}

// FileWriter writes generated content to disk following the
// dry-run/force/unchanged rules
type FileWriter struct {
	reader      *FileReader
	diagnostics *DiagnosticSystem
	perm        os.FileMode
}

// NewFileWriter creates a writer that reads existing files through reader
func NewFileWriter(reader *FileReader, diagnostics *DiagnosticSystem) *FileWriter {
	if reader == nil {
		reader = NewFileReader()
	}
	if diagnostics == nil {
		diagnostics = NewDiagnosticSystem(DiagnosticSilent)
	}
	return &FileWriter{
		reader:      reader,
		diagnostics: diagnostics,
		perm:        DefaultFilePerm,
	}
}

// Write writes content to path unless one of the skip rules applies
func (w *FileWriter) Write(path, content string, opts WriteOptions) (models.WriteResult, error) {
	result := models.WriteResult{Path: path}

	exists, err := w.reader.Exists(path)
	if err != nil {
		return result, errors.WrapFileSystemError("stat", path, err)
	}

	if opts.DryRun {
		w.diagnostics.Preview(path, content)
		if opts.Diff && exists {
			current, err := w.reader.ReadFile(path)
			if err != nil {
				return result, errors.WrapFileSystemError("read", path, err)
			}
			w.diagnostics.Diff(path, current, content)
		}
		result.Outcome = models.OutcomeSkippedDryRun
		return result, nil
	}

	if exists {
		if !opts.Force {
			w.diagnostics.Info("File %s already exists", path)
			result.Outcome = models.OutcomeSkippedExists
			return result, nil
		}

		current, err := w.reader.ReadFile(path)
		if err != nil {
			return result, errors.WrapFileSystemError("read", path, err)
		}
		if strings.TrimSpace(current) == strings.TrimSpace(content) {
			w.diagnostics.Info("File %s was not changed, skipping", path)
			result.Outcome = models.OutcomeSkippedUnchanged
			return result, nil
		}

		result.Overwritten = true
		result.Inserted, result.Deleted = CountLineChanges(current, content)
	}

	if err := os.WriteFile(path, []byte(content), w.perm); err != nil {
		return result, errors.WrapFileSystemError("write", path, err)
	}
	w.reader.InvalidateFile(path)

	if result.Overwritten {
		w.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s (overwritten, %s added, %s removed)",
			path, Plural(result.Inserted, "line"), Plural(result.Deleted, "line")))
	} else {
		w.diagnostics.PhaseProgress(fmt.Sprintf("Writing %s", path))
	}

	result.Outcome = models.OutcomeWritten
	return result, nil
}
