package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cmakesrc/internal/models"
)

const listing = "target_sources(app PRIVATE\n\t\"a.cpp\"\n)"

func newTestWriter() (*FileWriter, *bytes.Buffer) {
	var buf bytes.Buffer
	diagnostics := NewDiagnosticSystem(DiagnosticInfo).WithOutput(&buf)
	return NewFileWriter(nil, diagnostics), &buf
}

func TestFileWriter_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CMakeLists.txt")
	writer, buf := newTestWriter()

	result, err := writer.Write(path, listing, WriteOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeWritten, result.Outcome)
	assert.False(t, result.Overwritten)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, listing, string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFilePerm, info.Mode().Perm()&DefaultFilePerm)
	assert.Contains(t, buf.String(), "Writing "+path)
}

func TestFileWriter_DryRun(t *testing.T) {
	t.Run("new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		writer, buf := newTestWriter()

		result, err := writer.Write(path, listing, WriteOptions{DryRun: true, Force: true})
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeSkippedDryRun, result.Outcome)
		assert.NoFileExists(t, path)
		assert.Equal(t, "===== Dry run =====\nWrite file "+path+" with contents:\n"+listing+"\n", buf.String())
	})

	t.Run("diff against existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		old := "target_sources(app PRIVATE\n\t\"old.cpp\"\n)"
		require.NoError(t, os.WriteFile(path, []byte(old), 0644))
		writer, buf := newTestWriter()

		result, err := writer.Write(path, listing, WriteOptions{DryRun: true, Diff: true})
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeSkippedDryRun, result.Outcome)
		output := buf.String()
		assert.Contains(t, output, "--- "+path+" (current)")
		assert.Contains(t, output, "-\t\"old.cpp\"")
		assert.Contains(t, output, "+\t\"a.cpp\"")
		assert.Contains(t, output, " target_sources(app PRIVATE")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, old, string(content))
	})
}

func TestFileWriter_ExistingFile(t *testing.T) {
	t.Run("skipped without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte("# mine"), 0644))
		writer, buf := newTestWriter()

		result, err := writer.Write(path, listing, WriteOptions{})
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeSkippedExists, result.Outcome)
		assert.Contains(t, buf.String(), "File "+path+" already exists")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# mine", string(content))
	})

	t.Run("unchanged after trimming", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte("\n"+listing+"\n\n"), 0644))
		past := time.Now().Add(-time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(path, past, past))
		writer, buf := newTestWriter()

		result, err := writer.Write(path, listing, WriteOptions{Force: true})
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeSkippedUnchanged, result.Outcome)
		assert.Contains(t, buf.String(), "was not changed, skipping")

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(past))
	})

	t.Run("overwritten with force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte("# mine\n# more\n"), 0644))
		writer, buf := newTestWriter()

		result, err := writer.Write(path, listing, WriteOptions{Force: true})
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeWritten, result.Outcome)
		assert.True(t, result.Overwritten)
		assert.Equal(t, 3, result.Inserted)
		assert.Equal(t, 2, result.Deleted)
		assert.Contains(t, buf.String(), "(overwritten, 3 lines added, 2 lines removed)")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, listing, string(content))
	})

	t.Run("cached content is refreshed after a write", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte("# mine"), 0644))

		reader := NewFileReader()
		_, err := reader.ReadFile(path)
		require.NoError(t, err)

		writer := NewFileWriter(reader, nil)
		_, err = writer.Write(path, listing, WriteOptions{Force: true})
		require.NoError(t, err)

		result, err := writer.Write(path, listing, WriteOptions{Force: true})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeSkippedUnchanged, result.Outcome)
	})
}

func TestFileWriter_WriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "CMakeLists.txt")
	writer, _ := newTestWriter()

	_, err := writer.Write(path, listing, WriteOptions{})
	assert.Error(t, err)
}
