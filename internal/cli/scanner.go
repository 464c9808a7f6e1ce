package cli

import (
	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
	"github.com/toyz/cmakesrc/internal/utils"
)

// DirectoryScanner collects source files with the configured extensions,
// skipping anything matched by the exclude patterns
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	root          string
	fileFilter    utils.FileFilter
	dirFilter     utils.DirectoryFilter
}

// NewDirectoryScanner creates a scanner for the tree under root. Exclude
// patterns are matched against paths relative to root.
func NewDirectoryScanner(root string, extensions []string, exclude *utils.ExcludeMatcher) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
		root:          root,
		fileFilter:    exclude.FileFilter(utils.ExtensionFilter(extensions)),
		dirFilter:     exclude.DirectoryFilter(),
	}
}

// Collect lists the matching files in dir, descending into subdirectories
// when recursive is set. Returned paths are relative to dir and joined onto
// prefix with forward slashes.
func (s *DirectoryScanner) Collect(dir string, recursive bool, prefix string) (models.FileList, error) {
	files, err := s.fileProcessor.CollectFiles(dir, prefix, s.walkOptions(recursive))
	if err != nil {
		return nil, errors.WrapFileSystemError("list", dir, err)
	}
	return files, nil
}

// SubDirectories returns the non-excluded immediate subdirectories of dir
func (s *DirectoryScanner) SubDirectories(dir string) ([]string, error) {
	dirs, err := s.fileProcessor.SubDirectories(dir, s.walkOptions(false))
	if err != nil {
		return nil, errors.WrapFileSystemError("list", dir, err)
	}
	return dirs, nil
}

func (s *DirectoryScanner) walkOptions(recursive bool) utils.FileWalkOptions {
	return utils.FileWalkOptions{
		Root:            s.root,
		FileFilter:      s.fileFilter,
		DirectoryFilter: s.dirFilter,
		Recursive:       recursive,
	}
}
