package models

// FileList is an ordered list of slash-separated paths relative to the
// directory they were collected from
type FileList []string

// GeneratedBlock represents a rendered target_sources block
type GeneratedBlock struct {
	Directory string   // directory the files were collected from
	FilePath  string   // path where the block should be written
	Target    string   // target the sources are attached to
	Files     FileList // files listed in the block
	Content   string   // rendered CMake text
}

// WriteOutcome describes what the writer did with a generated block
type WriteOutcome int

const (
	OutcomeWritten WriteOutcome = iota
	OutcomeSkippedDryRun
	OutcomeSkippedExists
	OutcomeSkippedUnchanged
)

// String returns the string representation of the outcome
func (o WriteOutcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkippedDryRun:
		return "skipped-dry-run"
	case OutcomeSkippedExists:
		return "skipped-exists"
	case OutcomeSkippedUnchanged:
		return "skipped-unchanged"
	default:
		return "unknown"
	}
}

// WriteResult is the outcome of writing one block
type WriteResult struct {
	Path        string
	Outcome     WriteOutcome
	Overwritten bool // true when an existing file was replaced
	Inserted    int  // lines added relative to the previous content
	Deleted     int  // lines removed relative to the previous content
}

// GenerationSummary collects the results of a run
type GenerationSummary struct {
	Target            string
	TargetSource      string // CMakeLists.txt the target was resolved from, empty if explicit
	DirectoriesWalked int
	BlocksGenerated   int
	Written           []string
	SkippedExists     []string
	SkippedUnchanged  []string
	DryRun            []string
}

// Record adds a write result to the summary
func (s *GenerationSummary) Record(result WriteResult) {
	switch result.Outcome {
	case OutcomeWritten:
		s.Written = append(s.Written, result.Path)
	case OutcomeSkippedDryRun:
		s.DryRun = append(s.DryRun, result.Path)
	case OutcomeSkippedExists:
		s.SkippedExists = append(s.SkippedExists, result.Path)
	case OutcomeSkippedUnchanged:
		s.SkippedUnchanged = append(s.SkippedUnchanged, result.Path)
	}
}
