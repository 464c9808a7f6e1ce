package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
	"github.com/toyz/cmakesrc/internal/utils"
)

// DefaultConfigFile is probed in the root directory when --config is not given
const DefaultConfigFile = ".cmakesrc.yaml"

// Environment variables read by LoadConfig
const (
	EnvTarget     = "CMAKESRC_TARGET"
	EnvTargetType = "CMAKESRC_TARGETTYPE"
	EnvLength     = "CMAKESRC_LENGTH"
	EnvExtensions = "CMAKESRC_EXTENSIONS"
	EnvExclude    = "CMAKESRC_EXCLUDE"
)

// Config holds the configuration for a generation run
type Config struct {
	// Path is the root directory to process
	Path string

	// Target is the explicit target name. If empty, it is resolved from the
	// nearest ancestor CMakeLists.txt
	Target string

	// TargetKind selects add_executable or add_library during resolution
	TargetKind models.TargetKind

	// LineLength is the maximum wrap column of the listing
	LineLength int

	// Extensions are the dot-prefixed file extensions to collect
	Extensions []string

	// Exclude holds doublestar globs relative to Path
	Exclude []string

	Mode   models.RecursionMode
	Force  bool
	DryRun bool

	// Diff shows a diff against the existing file during a dry run
	Diff bool

	Verbose bool

	// Debug traces every inspected file and implies Verbose
	Debug bool
	Quiet bool
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Path:       ".",
		TargetKind: models.TargetKindExecutable,
		LineLength: models.DefaultLineLength,
		Extensions: append([]string(nil), models.DefaultExtensions...),
		Mode:       models.RecursionNone,
	}
}

var (
	extensionRules = utils.NewValidatorChain(
		utils.HasPrefix("extensions", "."),
		utils.MinLength("extensions", 2),
	)

	excludeRule = utils.Custom("exclude", "valid glob patterns", func(patterns []string) bool {
		_, err := utils.NewExcludeMatcher(patterns)
		return err == nil
	})

	directoryRule = utils.Custom("path", "an existing directory", func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && info.IsDir()
	})
)

// Validate checks every option and reports all problems at once
func (c Config) Validate() error {
	var errs *errors.MultipleErrors

	utils.CollectValidation(&errs, utils.Positive("length"), c.LineLength)
	utils.CollectValidation(&errs, utils.SliceNotEmpty[string]("extensions"), c.Extensions)
	for _, ext := range c.Extensions {
		if err := utils.CollectValidation(&errs, extensionRules.Validate, ext); err != nil && ext != "." {
			err.WithSuggestion(fmt.Sprintf("Use %q instead", "."+strings.TrimPrefix(ext, ".")))
		}
	}
	utils.CollectValidation(&errs, excludeRule, c.Exclude)

	if (c.Verbose || c.Debug) && c.Quiet {
		errors.AddValidationError(&errs, "verbose/quiet", "at most one of them", "both")
	}

	utils.CollectValidation(&errs, directoryRule, c.Path)

	if errs != nil {
		return errs
	}
	return nil
}

// FileConfig is the YAML representation of a config file
type FileConfig struct {
	Target     string   `yaml:"target,omitempty"`
	TargetType string   `yaml:"targettype,omitempty"`
	Length     int      `yaml:"length,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"`
	Mode       string   `yaml:"mode,omitempty"`
	Force      *bool    `yaml:"force,omitempty"`
}

// LoadFileConfig reads a YAML config file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "read", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err).
			WithLocation(errors.SourceLocation{File: path}).
			WithSuggestions("Check the YAML syntax; list values use [a, b] or one '- item' per line")
	}
	return &fc, nil
}

// ApplyFile overlays the values set in a config file
func (c *Config) ApplyFile(fc *FileConfig) error {
	if fc.Target != "" {
		c.Target = fc.Target
	}
	if fc.TargetType != "" {
		kind, err := models.ParseTargetKind(fc.TargetType)
		if err != nil {
			return errors.ConfigurationError("targettype", err.Error())
		}
		c.TargetKind = kind
	}
	if fc.Length != 0 {
		c.LineLength = fc.Length
	}
	if len(fc.Extensions) > 0 {
		c.Extensions = fc.Extensions
	}
	if len(fc.Exclude) > 0 {
		c.Exclude = fc.Exclude
	}
	if fc.Mode != "" {
		mode, err := ParseRecursionMode(fc.Mode)
		if err != nil {
			return errors.ConfigurationError("mode", err.Error())
		}
		c.Mode = mode
	}
	if fc.Force != nil {
		c.Force = *fc.Force
	}
	return nil
}

// ApplyEnv overlays values found through lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTarget); ok && strings.TrimSpace(v) != "" {
		c.Target = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTargetType); ok && strings.TrimSpace(v) != "" {
		kind, err := models.ParseTargetKind(strings.TrimSpace(v))
		if err != nil {
			return errors.ConfigurationError(EnvTargetType, err.Error())
		}
		c.TargetKind = kind
	}
	if v, ok := lookup(EnvLength); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.ConfigurationError(EnvLength, fmt.Sprintf("not a number: %q", v))
		}
		c.LineLength = n
	}
	if v, ok := lookup(EnvExtensions); ok {
		if list := splitList(v); len(list) > 0 {
			c.Extensions = list
		}
	}
	if v, ok := lookup(EnvExclude); ok {
		if list := splitList(v); len(list) > 0 {
			c.Exclude = list
		}
	}
	return nil
}

// ParseRecursionMode converts a config value into a RecursionMode
func ParseRecursionMode(s string) (models.RecursionMode, error) {
	switch s {
	case "flat", "none":
		return models.RecursionNone, nil
	case "recursive":
		return models.RecursionCombined, nil
	case "recursive-each", "each":
		return models.RecursionEach, nil
	default:
		return models.RecursionNone, fmt.Errorf("unknown mode %q (want flat, recursive or recursive-each)", s)
	}
}

// ConfigSources describes where LoadConfig takes values from. Later
// sources win: defaults, config file, environment, then explicit flags.
type ConfigSources struct {
	// Flags holds flag values; only those reported by Changed are applied
	Flags   Config
	Changed func(flag string) bool

	// ConfigFile is an explicit config path. When empty,
	// <path>/.cmakesrc.yaml is used if it exists
	ConfigFile string

	// EnvFile is a dotenv file whose values are used when the process
	// environment does not define them. Missing files are ignored
	EnvFile string

	// Lookup reads the process environment; os.LookupEnv when nil
	Lookup func(string) (string, bool)
}

// LoadConfig merges all configuration sources and validates the result
func LoadConfig(src ConfigSources) (Config, error) {
	cfg := DefaultConfig()
	changed := src.Changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if changed("path") {
		cfg.Path = src.Flags.Path
	}

	configFile := src.ConfigFile
	if configFile == "" {
		probe := filepath.Join(cfg.Path, DefaultConfigFile)
		if _, err := os.Stat(probe); err == nil {
			configFile = probe
		}
	}
	if configFile != "" {
		fc, err := LoadFileConfig(configFile)
		if err != nil {
			return cfg, err
		}
		if err := cfg.ApplyFile(fc); err != nil {
			return cfg, err
		}
	}

	lookup, err := envLookup(src.EnvFile, src.Lookup)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}

	applyFlags(&cfg, src.Flags, changed)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(cfg *Config, flags Config, changed func(string) bool) {
	if changed("target") {
		cfg.Target = flags.Target
	}
	if changed("targettype") {
		cfg.TargetKind = flags.TargetKind
	}
	if changed("length") {
		cfg.LineLength = flags.LineLength
	}
	if changed("extensions") {
		cfg.Extensions = flags.Extensions
	}
	if changed("exclude") {
		cfg.Exclude = flags.Exclude
	}
	if changed("recursive") || changed("recursive-each") {
		cfg.Mode = flags.Mode
	}
	if changed("force") {
		cfg.Force = flags.Force
	}
	if changed("dryrun") {
		cfg.DryRun = flags.DryRun
	}
	if changed("diff") {
		cfg.Diff = flags.Diff
	}
	if changed("verbose") {
		cfg.Verbose = flags.Verbose
	}
	if changed("debug") {
		cfg.Debug = flags.Debug
	}
	if changed("quiet") {
		cfg.Quiet = flags.Quiet
	}
}

// envLookup layers a dotenv file under the process environment
func envLookup(envFile string, lookup func(string) (string, bool)) (func(string) (string, bool), error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if envFile == "" {
		return lookup, nil
	}
	if _, err := os.Stat(envFile); err != nil {
		return lookup, nil
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		return nil, errors.WrapConfigurationError(envFile, "parse", err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// splitList splits a comma or whitespace separated list
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
