package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
	"github.com/toyz/cmakesrc/internal/utils"
)

// declarationPatterns capture the first argument of a target declaration.
// CMake command names are case-insensitive.
var declarationPatterns = map[models.TargetKind]*regexp.Regexp{
	models.TargetKindExecutable: regexp.MustCompile(`\b(?i:add_executable)\s*\(\s*([^\s()"#]+)`),
	models.TargetKindLibrary:    regexp.MustCompile(`\b(?i:add_library)\s*\(\s*([^\s()"#]+)`),
}

// ResolvedTarget is the target name together with where it came from
type ResolvedTarget struct {
	Name string

	// Source is the CMakeLists.txt the name was extracted from; empty when
	// the name was given explicitly
	Source string
}

// TargetResolver finds the target name for a directory by searching the
// CMakeLists.txt files of its ancestors
type TargetResolver struct {
	fileReader  *utils.FileReader
	diagnostics *utils.DiagnosticSystem
}

// NewTargetResolver creates a new target resolver
func NewTargetResolver(fileReader *utils.FileReader, diagnostics *utils.DiagnosticSystem) *TargetResolver {
	if fileReader == nil {
		fileReader = utils.NewFileReader()
	}
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &TargetResolver{
		fileReader:  fileReader,
		diagnostics: diagnostics,
	}
}

// ResolveTarget returns explicitTarget when set. Otherwise it walks up from
// the parent of startDir to the nearest CMakeLists.txt and extracts a target
// of the given kind. If that file declares none, the search continues above
// it until the filesystem root is reached.
func (r *TargetResolver) ResolveTarget(startDir, explicitTarget string, kind models.TargetKind) (ResolvedTarget, error) {
	if explicitTarget != "" {
		return ResolvedTarget{Name: explicitTarget}, nil
	}

	start, err := canonicalDir(startDir)
	if err != nil {
		return ResolvedTarget{}, errors.WrapFileSystemError("resolve", startDir, err)
	}

	var searched []string
	current := start
	for {
		cmakelists, found, err := r.FindParentCMakeLists(current)
		if err != nil {
			return ResolvedTarget{}, err
		}
		if !found {
			return ResolvedTarget{}, errors.NewResolutionError(start, kind.String(), searched)
		}
		searched = append(searched, cmakelists)

		content, err := r.fileReader.ReadFile(cmakelists)
		if err != nil {
			return ResolvedTarget{}, errors.WrapFileSystemError("read", cmakelists, err)
		}

		if name, ok := ExtractTarget(content, kind); ok {
			r.diagnostics.Info("Found target %q in %q", name, cmakelists)
			return ResolvedTarget{Name: name, Source: cmakelists}, nil
		}

		r.diagnostics.Verbose("No %s(...) declaration in %s", kind.Declaration(), cmakelists)
		current = filepath.Dir(cmakelists)
	}
}

// FindParentCMakeLists returns the CMakeLists.txt nearest to dir, starting
// with dir's parent. The filesystem root itself is never examined.
func (r *TargetResolver) FindParentCMakeLists(dir string) (string, bool, error) {
	parent := filepath.Dir(filepath.Clean(dir))

	for filepath.Dir(parent) != parent {
		candidate := filepath.Join(parent, models.CMakeListsFile)
		r.diagnostics.Debug("Looking for %s", candidate)

		exists, err := r.fileReader.Exists(candidate)
		if err != nil {
			return "", false, errors.WrapFileSystemError("stat", candidate, err)
		}
		if exists {
			return candidate, true, nil
		}

		parent = filepath.Dir(parent)
	}

	return "", false, nil
}

// ExtractTarget returns the first target of the given kind declared in content
func ExtractTarget(content string, kind models.TargetKind) (string, bool) {
	pattern, ok := declarationPatterns[kind]
	if !ok {
		return "", false
	}

	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// canonicalDir returns the absolute, symlink-free form of dir
func canonicalDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	return real, nil
}
