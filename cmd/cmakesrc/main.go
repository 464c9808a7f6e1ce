package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/cmakesrc/internal/cli"
	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/models"
	"github.com/toyz/cmakesrc/internal/utils"
)

// options holds the raw flag values before they are layered into a cli.Config
type options struct {
	path          string
	target        string
	targetType    string
	length        int
	extensions    []string
	exclude       []string
	force         bool
	dryRun        bool
	recursive     bool
	recursiveEach bool
	diff          bool
	configFile    string
	verbose       bool
	debug         bool
	quiet         bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the root command with args and returns the process exit code
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	opts := &options{}
	cmd := newRootCommand(opts, out, errOut)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		reporter := cli.NewDiagnosticReporter(opts.verbose || opts.debug).WithOutput(errOut)
		reporter.ReportError(err)
		return 1
	}
	return 0
}

func newRootCommand(opts *options, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmakesrc",
		Short: "Generate target_sources() listings for CMake projects",
		Long: `cmakesrc scans a directory for source files and writes a
target_sources(<target> PRIVATE ...) block into its CMakeLists.txt.

When no target is given, the nearest CMakeLists.txt above the directory
is searched for add_executable(...) or add_library(...) and the first
declared target is used.`,
		Example: `  cmakesrc -p src                 # List src/ into src/CMakeLists.txt
  cmakesrc -p src -r -f           # One combined listing, overwrite if changed
  cmakesrc -p src -a -e library   # One listing per directory, library target
  cmakesrc -p src -x .c .h        # Only C sources and headers
  cmakesrc -p src -d --diff       # Show what would change`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.addExtensionArgs(cmd, args); err != nil {
				return err
			}
			return runGenerate(cmd, opts, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.StringVarP(&opts.path, "path", "p", ".", "Directory to process")
	flags.StringVarP(&opts.target, "target", "t", "", "Target name (default: resolved from the nearest parent CMakeLists.txt)")
	flags.StringVarP(&opts.targetType, "targettype", "e", models.TargetKindExecutable.String(), "Kind of target to resolve: executable|library")
	flags.IntVarP(&opts.length, "length", "l", models.DefaultLineLength, "Maximum line length of the listing")
	flags.StringSliceVarP(&opts.extensions, "extensions", "x", append([]string(nil), models.DefaultExtensions...), "File extensions to collect (-x .c .h, -x .c,.h or repeated)")
	flags.BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing CMakeLists.txt if its content differs")
	flags.BoolVarP(&opts.dryRun, "dryrun", "d", false, "Only print actions without writing files")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Collect files of all subdirectories into one listing")
	flags.BoolVarP(&opts.recursiveEach, "recursive-each", "a", false, "Write one listing per directory")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "Glob pattern relative to --path to skip (repeatable)")
	flags.BoolVar(&opts.diff, "diff", false, "With --dryrun, show a diff against the existing file")
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: <path>/"+cli.DefaultConfigFile+" if present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&opts.debug, "debug", false, "Trace every inspected file (implies --verbose)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only show errors")

	cmd.MarkFlagsMutuallyExclusive("recursive", "recursive-each")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.MarkFlagsMutuallyExclusive("debug", "quiet")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options, out, errOut io.Writer) error {
	flagConfig, err := opts.toConfig()
	if err != nil {
		return err
	}

	config, err := cli.LoadConfig(cli.ConfigSources{
		Flags:      flagConfig,
		Changed:    cmd.Flags().Changed,
		ConfigFile: opts.configFile,
		EnvFile:    ".env",
	})
	if err != nil {
		return err
	}

	diagnostics := newDiagnostics(config, out)
	diagnostics.Section("cmakesrc")

	if config.Diff && !config.DryRun {
		cli.NewDiagnosticReporter(config.Verbose || config.Debug).WithOutput(errOut).
			ReportWarning("--diff has no effect without --dryrun")
	}

	verbose := diagnostics.Level() >= utils.DiagnosticVerbose
	if verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.Indent()
		diagnostics.List("Path: %s", config.Path)
		diagnostics.List("Mode: %s", config.Mode)
		diagnostics.List("Extensions: %s", strings.Join(config.Extensions, ", "))
		if len(config.Exclude) > 0 {
			diagnostics.List("Exclude: %s", strings.Join(config.Exclude, ", "))
		}
		diagnostics.List("Line length: %d", config.LineLength)
		diagnostics.Unindent()
	}

	generator := cli.NewGenerator(config, diagnostics)
	if err := generator.Run(cmd.Context()); err != nil {
		return err
	}

	summary := generator.GetSummary()
	stats := map[string]interface{}{
		"Target":              summary.Target,
		"Directories visited": summary.DirectoriesWalked,
		"Listings generated":  summary.BlocksGenerated,
		"Files written":       len(summary.Written),
		"Skipped (exists)":    len(summary.SkippedExists),
		"Skipped (unchanged)": len(summary.SkippedUnchanged),
	}
	if config.DryRun {
		stats["Dry run"] = len(summary.DryRun)
	}
	diagnostics.Summary("Summary", stats)

	if verbose && len(summary.Written) > 0 {
		diagnostics.Subsection("Written Files")
		for _, file := range summary.Written {
			diagnostics.List("%s", file)
		}
	}

	diagnostics.GenerationComplete()
	return nil
}

// toConfig converts flag values into a cli.Config. Only flags reported as
// changed by cobra are applied by cli.LoadConfig.
func (o *options) toConfig() (cli.Config, error) {
	kind, err := models.ParseTargetKind(o.targetType)
	if err != nil {
		return cli.Config{}, errors.ConfigurationError("targettype", err.Error())
	}

	mode := models.RecursionNone
	switch {
	case o.recursive:
		mode = models.RecursionCombined
	case o.recursiveEach:
		mode = models.RecursionEach
	}

	return cli.Config{
		Path:       o.path,
		Target:     o.target,
		TargetKind: kind,
		LineLength: o.length,
		Extensions: o.extensions,
		Exclude:    o.exclude,
		Mode:       mode,
		Force:      o.force,
		DryRun:     o.dryRun,
		Diff:       o.diff,
		Verbose:    o.verbose,
		Debug:      o.debug,
		Quiet:      o.quiet,
	}, nil
}

// addExtensionArgs accepts the space separated form "-x .c .h". pflag
// binds only the first value to -x and leaves the rest as arguments.
func (o *options) addExtensionArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if !cmd.Flags().Changed("extensions") {
		return errors.ConfigurationError("arguments", fmt.Sprintf("unexpected argument %q", args[0])).
			WithSuggestions("Use --path to choose the directory to process")
	}
	for _, arg := range args {
		if !strings.HasPrefix(arg, ".") {
			return errors.ConfigurationError("arguments", fmt.Sprintf("unexpected argument %q", arg)).
				WithSuggestions("Extensions given to -x must start with '.'")
		}
	}
	o.extensions = append(o.extensions, args...)
	return nil
}

func newDiagnostics(config cli.Config, out io.Writer) *utils.DiagnosticSystem {
	var diagnostics *utils.DiagnosticSystem
	switch {
	case config.Quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case config.Debug:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticDebug)
	case config.Verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	if out != os.Stdout {
		diagnostics.WithOutput(out)
	}
	return diagnostics
}
