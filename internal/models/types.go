package models

import "fmt"

// TargetKind represents the kind of CMake target sources are attached to
type TargetKind int

const (
	TargetKindExecutable TargetKind = iota
	TargetKindLibrary
)

// String returns the flag spelling of the target kind
func (k TargetKind) String() string {
	switch k {
	case TargetKindLibrary:
		return "library"
	default:
		return "executable"
	}
}

// Declaration returns the CMake command that declares a target of this kind
func (k TargetKind) Declaration() string {
	switch k {
	case TargetKindLibrary:
		return "add_library"
	default:
		return "add_executable"
	}
}

// ParseTargetKind converts a flag value into a TargetKind
func ParseTargetKind(s string) (TargetKind, error) {
	switch s {
	case "executable":
		return TargetKindExecutable, nil
	case "library":
		return TargetKindLibrary, nil
	default:
		return TargetKindExecutable, fmt.Errorf("unknown target type %q (want executable or library)", s)
	}
}

// RecursionMode controls how subdirectories are handled
type RecursionMode int

const (
	// RecursionNone lists only the root directory
	RecursionNone RecursionMode = iota
	// RecursionCombined lists the whole subtree in one block at the root
	RecursionCombined
	// RecursionEach writes one block per directory in the subtree
	RecursionEach
)

// String returns a readable name for the recursion mode
func (m RecursionMode) String() string {
	switch m {
	case RecursionCombined:
		return "recursive"
	case RecursionEach:
		return "recursive-each"
	default:
		return "flat"
	}
}

// DefaultExtensions are the source and header extensions collected when none are configured
var DefaultExtensions = []string{".h", ".hpp", ".hxx", ".c", ".cpp", ".cxx"}

const (
	// CMakeListsFile is the build-configuration file name read and written
	CMakeListsFile = "CMakeLists.txt"

	// DefaultLineLength is the default wrap column for generated listings
	DefaultLineLength = 120
)
