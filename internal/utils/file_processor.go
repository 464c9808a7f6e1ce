package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/cmakesrc/internal/models"
)

// FileProcessor provides directory listing and filtered file collection
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter determines whether a file should be collected. relPath is the
// slash-separated path relative to the walk root.
type FileFilter func(relPath string, info os.DirEntry) bool

// DirectoryFilter determines whether a directory should be entered
type DirectoryFilter func(relPath string, info os.DirEntry) bool

// FileWalkOptions configures file collection
type FileWalkOptions struct {
	Root            string // directory exclude patterns are relative to
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
}

// ExtensionFilter accepts entries whose extension, including the leading
// dot, is one of extensions. Matching is case-sensitive. Directories are
// judged by name too; a walk that descends into them never asks.
func ExtensionFilter(extensions []string) FileFilter {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[ext] = true
	}

	return func(relPath string, info os.DirEntry) bool {
		return allowed[filepath.Ext(info.Name())]
	}
}

// ExcludeMatcher matches slash-separated relative paths against doublestar globs
type ExcludeMatcher struct {
	patterns []string
}

// NewExcludeMatcher validates patterns and returns a matcher for them
func NewExcludeMatcher(patterns []string) (*ExcludeMatcher, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &ExcludeMatcher{patterns: patterns}, nil
}

// Match reports whether relPath is excluded
func (m *ExcludeMatcher) Match(relPath string) bool {
	if m == nil {
		return false
	}
	for _, pattern := range m.patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// FileFilter wraps next so that excluded paths are rejected first
func (m *ExcludeMatcher) FileFilter(next FileFilter) FileFilter {
	return func(relPath string, info os.DirEntry) bool {
		if m.Match(relPath) {
			return false
		}
		return next == nil || next(relPath, info)
	}
}

// DirectoryFilter rejects excluded directories
func (m *ExcludeMatcher) DirectoryFilter() DirectoryFilter {
	return func(relPath string, info os.DirEntry) bool {
		return !m.Match(relPath)
	}
}

// symlinkAwareEntry reports the type of the symlink target rather than the link
type symlinkAwareEntry struct {
	os.DirEntry
	info os.FileInfo
}

func (e symlinkAwareEntry) IsDir() bool                { return e.info.IsDir() }
func (e symlinkAwareEntry) Type() os.FileMode          { return e.info.Mode().Type() }
func (e symlinkAwareEntry) Info() (os.FileInfo, error) { return e.info, nil }

// ReadDir lists dir in name order. Symbolic links are classified by what
// they point to; dangling links are reported as files.
func (fp *FileProcessor) ReadDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for i, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil {
			entries[i] = symlinkAwareEntry{DirEntry: entry, info: info}
		}
	}
	return entries, nil
}

// CollectFiles lists files in dir accepted by the file filter. When
// options.Recursive is set, subdirectories accepted by the directory filter
// are descended into and their files are prefixed with the directory name.
// A directory reached twice through symbolic links is listed once.
func (fp *FileProcessor) CollectFiles(dir, prefix string, options FileWalkOptions) (models.FileList, error) {
	return fp.collectFiles(dir, prefix, options, make(map[string]bool))
}

func (fp *FileProcessor) collectFiles(dir, prefix string, options FileWalkOptions, visited map[string]bool) (models.FileList, error) {
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		if visited[real] {
			return nil, nil
		}
		visited[real] = true
	}

	entries, err := fp.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var result models.FileList
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		relPath := fp.relativePath(options.Root, entryPath)

		if entry.IsDir() && options.Recursive {
			if options.DirectoryFilter != nil && !options.DirectoryFilter(relPath, entry) {
				continue
			}
			sub, err := fp.collectFiles(entryPath, path.Join(prefix, entry.Name()), options, visited)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
			continue
		}

		if options.FileFilter != nil && options.FileFilter(relPath, entry) {
			result = append(result, path.Join(prefix, entry.Name()))
		}
	}

	return result, nil
}

// SubDirectories returns the immediate subdirectories of dir accepted by
// the directory filter, in name order
func (fp *FileProcessor) SubDirectories(dir string, options FileWalkOptions) ([]string, error) {
	entries, err := fp.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if options.DirectoryFilter != nil && !options.DirectoryFilter(fp.relativePath(options.Root, entryPath), entry) {
			continue
		}
		dirs = append(dirs, entryPath)
	}

	return dirs, nil
}

func (fp *FileProcessor) relativePath(root, p string) string {
	if root == "" {
		return filepath.ToSlash(p)
	}
	return RelativeTo(root, p)
}
