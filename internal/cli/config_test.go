package cli

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(name string) bool { return set[name] }
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ".", config.Path)
	assert.Equal(t, models.TargetKindExecutable, config.TargetKind)
	assert.Equal(t, 120, config.LineLength)
	assert.Equal(t, []string{".h", ".hpp", ".hxx", ".c", ".cpp", ".cxx"}, config.Extensions)
	assert.Equal(t, models.RecursionNone, config.Mode)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	t.Run("collects every problem", func(t *testing.T) {
		config := DefaultConfig()
		config.Path = dir
		config.LineLength = 0
		config.Extensions = []string{"cpp", ".h"}
		config.Exclude = []string{"[unclosed"}
		config.Verbose = true
		config.Quiet = true

		err := config.Validate()
		require.Error(t, err)

		var multi *errors.MultipleErrors
		require.True(t, stderrors.As(err, &multi))
		require.Len(t, multi.Errors, 4)
		for _, e := range multi.Errors {
			assert.Equal(t, errors.ValidationErrorCode, e.ErrorCode())
		}
		assert.Contains(t, multi.Suggestions(), `Use ".cpp" instead`)
	})

	t.Run("empty extension set", func(t *testing.T) {
		config := DefaultConfig()
		config.Path = dir
		config.Extensions = nil

		assert.Error(t, config.Validate())
	})

	t.Run("bare dot", func(t *testing.T) {
		config := DefaultConfig()
		config.Path = dir
		config.Extensions = []string{"."}

		assert.Error(t, config.Validate())
	})

	t.Run("debug with quiet", func(t *testing.T) {
		config := DefaultConfig()
		config.Path = dir
		config.Debug = true
		config.Quiet = true

		err := config.Validate()
		require.Error(t, err)

		var validationErr *errors.ValidationError
		require.True(t, stderrors.As(err, &validationErr))
		assert.Equal(t, "verbose/quiet", validationErr.Field)
	})

	t.Run("path must be a directory", func(t *testing.T) {
		writeTree(t, dir, map[string]string{"file.cpp": ""})
		config := DefaultConfig()
		config.Path = filepath.Join(dir, "file.cpp")

		assert.Error(t, config.Validate())
	})
}

func TestParseRecursionMode(t *testing.T) {
	tests := map[string]models.RecursionMode{
		"flat":           models.RecursionNone,
		"none":           models.RecursionNone,
		"recursive":      models.RecursionCombined,
		"recursive-each": models.RecursionEach,
		"each":           models.RecursionEach,
	}
	for input, expected := range tests {
		mode, err := ParseRecursionMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, mode, input)
	}

	_, err := ParseRecursionMode("sideways")
	assert.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		DefaultConfigFile: "target: fromfile\nlength: 80\nextensions: [.c]\nmode: recursive\nexclude:\n  - build/**\n",
	})

	flags := DefaultConfig()
	flags.Path = dir
	flags.LineLength = 100
	flags.Target = "fromflag"

	t.Run("file only", func(t *testing.T) {
		config, err := LoadConfig(ConfigSources{
			Flags:   flags,
			Changed: changedSet("path"),
			Lookup:  envMap(nil),
		})
		require.NoError(t, err)

		assert.Equal(t, dir, config.Path)
		assert.Equal(t, "fromfile", config.Target)
		assert.Equal(t, 80, config.LineLength)
		assert.Equal(t, []string{".c"}, config.Extensions)
		assert.Equal(t, []string{"build/**"}, config.Exclude)
		assert.Equal(t, models.RecursionCombined, config.Mode)
	})

	t.Run("environment over file", func(t *testing.T) {
		config, err := LoadConfig(ConfigSources{
			Flags:   flags,
			Changed: changedSet("path"),
			Lookup: envMap(map[string]string{
				EnvLength:     "90",
				EnvTargetType: "library",
				EnvExtensions: ".h, .hpp",
			}),
		})
		require.NoError(t, err)

		assert.Equal(t, 90, config.LineLength)
		assert.Equal(t, models.TargetKindLibrary, config.TargetKind)
		assert.Equal(t, []string{".h", ".hpp"}, config.Extensions)
		assert.Equal(t, "fromfile", config.Target)
	})

	t.Run("changed flags over everything", func(t *testing.T) {
		config, err := LoadConfig(ConfigSources{
			Flags:   flags,
			Changed: changedSet("path", "length", "target"),
			Lookup:  envMap(map[string]string{EnvLength: "90", EnvTarget: "fromenv"}),
		})
		require.NoError(t, err)

		assert.Equal(t, 100, config.LineLength)
		assert.Equal(t, "fromflag", config.Target)
	})

	t.Run("debug flag", func(t *testing.T) {
		debug := flags
		debug.Debug = true

		config, err := LoadConfig(ConfigSources{
			Flags:   debug,
			Changed: changedSet("path", "debug"),
			Lookup:  envMap(nil),
		})
		require.NoError(t, err)
		assert.True(t, config.Debug)
		assert.False(t, config.Quiet)
	})

	t.Run("unchanged flags keep lower layers", func(t *testing.T) {
		flat := flags
		flat.Mode = models.RecursionNone

		config, err := LoadConfig(ConfigSources{
			Flags:   flat,
			Changed: changedSet("path"),
			Lookup:  envMap(nil),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RecursionCombined, config.Mode)
	})
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		writeTree(t, dir, map[string]string{"custom.yaml": "targettype: library\nforce: true\n"})

		config, err := LoadConfig(ConfigSources{
			Flags:      Config{Path: dir},
			Changed:    changedSet("path"),
			ConfigFile: path,
			Lookup:     envMap(nil),
		})
		require.NoError(t, err)
		assert.Equal(t, models.TargetKindLibrary, config.TargetKind)
		assert.True(t, config.Force)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(ConfigSources{
			Flags:      Config{Path: dir},
			Changed:    changedSet("path"),
			ConfigFile: filepath.Join(dir, "missing.yaml"),
			Lookup:     envMap(nil),
		})
		require.Error(t, err)

		var coded errors.CmakesrcError
		require.True(t, stderrors.As(err, &coded))
		assert.Equal(t, errors.ConfigurationErrorCode, coded.ErrorCode())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		writeTree(t, dir, map[string]string{"broken.yaml": "extensions: [.c\n"})

		_, err := LoadConfig(ConfigSources{
			Flags:      Config{Path: dir},
			Changed:    changedSet("path"),
			ConfigFile: filepath.Join(dir, "broken.yaml"),
			Lookup:     envMap(nil),
		})
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		writeTree(t, dir, map[string]string{"mode.yaml": "mode: sideways\n"})

		_, err := LoadConfig(ConfigSources{
			Flags:      Config{Path: dir},
			Changed:    changedSet("path"),
			ConfigFile: filepath.Join(dir, "mode.yaml"),
			Lookup:     envMap(nil),
		})
		assert.ErrorContains(t, err, "sideways")
	})
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".env": "CMAKESRC_TARGET=dotenv\nCMAKESRC_EXTENSIONS=.c,.h\nCMAKESRC_EXCLUDE=\"third_party/** build/**\"\n",
	})
	envFile := filepath.Join(dir, ".env")

	t.Run("values from file", func(t *testing.T) {
		config, err := LoadConfig(ConfigSources{
			Flags:   Config{Path: dir},
			Changed: changedSet("path"),
			EnvFile: envFile,
			Lookup:  envMap(nil),
		})
		require.NoError(t, err)

		assert.Equal(t, "dotenv", config.Target)
		assert.Equal(t, []string{".c", ".h"}, config.Extensions)
		assert.Equal(t, []string{"third_party/**", "build/**"}, config.Exclude)
	})

	t.Run("process environment wins", func(t *testing.T) {
		config, err := LoadConfig(ConfigSources{
			Flags:   Config{Path: dir},
			Changed: changedSet("path"),
			EnvFile: envFile,
			Lookup:  envMap(map[string]string{EnvTarget: "process"}),
		})
		require.NoError(t, err)
		assert.Equal(t, "process", config.Target)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		config, err := LoadConfig(ConfigSources{
			Flags:   Config{Path: dir},
			Changed: changedSet("path"),
			EnvFile: filepath.Join(dir, "missing.env"),
			Lookup:  envMap(nil),
		})
		require.NoError(t, err)
		assert.Empty(t, config.Target)
	})

	t.Run("invalid length", func(t *testing.T) {
		_, err := LoadConfig(ConfigSources{
			Flags:   Config{Path: dir},
			Changed: changedSet("path"),
			Lookup:  envMap(map[string]string{EnvLength: "wide"}),
		})
		assert.Error(t, err)
	})
}
