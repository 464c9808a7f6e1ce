package utils

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff computes a line-level diff between two texts
func LineDiff(current, proposed string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, proposed)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// CountLineChanges returns how many lines were added and removed going
// from current to proposed
func CountLineChanges(current, proposed string) (inserted, deleted int) {
	for _, diff := range LineDiff(current, proposed) {
		n := len(splitDiffLines(diff.Text))
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			inserted += n
		case diffmatchpatch.DiffDelete:
			deleted += n
		}
	}
	return inserted, deleted
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
