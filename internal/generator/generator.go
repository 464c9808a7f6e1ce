package generator

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
	"github.com/toyz/cmakesrc/internal/templates"
)

// pathSpaceBase shifts whitespace inside a path into the supplementary
// private use area while wrapping. go-wordwrap treats the shifted runes as
// part of a word, so a quoted path is never split across lines.
const pathSpaceBase = 0xF0000

// Generator implements the ListingGenerator interface
type Generator struct {
	templates *templates.TemplateRegistry
}

// NewGenerator creates a new listing generator
func NewGenerator() *Generator {
	return &Generator{
		templates: templates.NewTemplateRegistry(),
	}
}

// GenerateListing renders files as a target_sources block for target,
// wrapped to maxLineLength columns. The block is written to
// dir/CMakeLists.txt.
func (g *Generator) GenerateListing(dir string, files models.FileList, target string, maxLineLength int) (*models.GeneratedBlock, bool, error) {
	if len(files) == 0 {
		return nil, false, nil
	}

	outputPath := filepath.Join(dir, models.CMakeListsFile)
	if maxLineLength <= 0 {
		return nil, false, errors.NewGenerationError("line length must be positive").
			WithTargetFile(outputPath).
			WithStage("wrap")
	}

	content, err := g.templates.Execute(templates.TargetSourcesTemplateName, templates.TargetSourcesData{
		Target: target,
		Lines:  WrapFiles(files, maxLineLength),
	})
	if err != nil {
		return nil, false, errors.WrapTemplateError(templates.TargetSourcesTemplateName, "execute", err)
	}

	return &models.GeneratedBlock{
		Directory: dir,
		FilePath:  outputPath,
		Target:    target,
		Files:     files,
		Content:   content,
	}, true, nil
}

// WrapFiles quotes each path, joins them with single spaces and wraps the
// result at space boundaries to at most maxLineLength columns. A single
// path longer than the limit occupies a line of its own.
func WrapFiles(files models.FileList, maxLineLength int) []string {
	quoted := make([]string, len(files))
	for i, file := range files {
		quoted[i] = `"` + strings.Map(protectSpace, file) + `"`
	}

	wrapped := wordwrap.WrapString(strings.Join(quoted, " "), uint(maxLineLength))

	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Map(restoreSpace, line)
	}
	return lines
}

func protectSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return pathSpaceBase + r
	}
	return r
}

func restoreSpace(r rune) rune {
	if r >= pathSpaceBase && unicode.IsSpace(r-pathSpaceBase) {
		return r - pathSpaceBase
	}
	return r
}
