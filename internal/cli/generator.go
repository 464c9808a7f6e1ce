package cli

import (
	"context"
	"time"

	"github.com/toyz/cmakesrc/internal/errors"
	"github.com/toyz/cmakesrc/internal/generator"
	"github.com/toyz/cmakesrc/internal/models"
	"github.com/toyz/cmakesrc/internal/utils"
)

// Generator coordinates target resolution, file collection, rendering and
// writing for a whole run
type Generator struct {
	config      Config
	resolver    *TargetResolver
	listing     generator.ListingGenerator
	writer      *utils.FileWriter
	diagnostics *utils.DiagnosticSystem
	summary     models.GenerationSummary
}

// NewGenerator creates a generator for a validated config
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	fileReader := utils.NewFileReader()
	return &Generator{
		config:      config,
		resolver:    NewTargetResolver(fileReader, diagnostics),
		listing:     generator.NewGenerator(),
		writer:      utils.NewFileWriter(fileReader, diagnostics),
		diagnostics: diagnostics,
	}
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() models.GenerationSummary {
	return g.summary
}

// Run resolves the target once and then generates listings according to
// the configured recursion mode. The first error stops the run.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = models.GenerationSummary{}

	root, err := canonicalDir(g.config.Path)
	if err != nil {
		return errors.WrapFileSystemError("resolve", g.config.Path, err)
	}

	g.diagnostics.Verbose("Starting generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Root: %s, mode: %s, extensions: %v", root, g.config.Mode, g.config.Extensions)

	g.diagnostics.PhaseHeader("Resolving target")
	target, err := g.resolver.ResolveTarget(root, g.config.Target, g.config.TargetKind)
	if err != nil {
		return err
	}
	g.summary.Target = target.Name
	g.summary.TargetSource = target.Source
	if target.Source == "" {
		g.diagnostics.PhaseItem("Using target " + target.Name)
	} else {
		g.diagnostics.PhaseItem("Using target " + target.Name + " from " + target.Source)
	}

	exclude, err := utils.NewExcludeMatcher(g.config.Exclude)
	if err != nil {
		return errors.ConfigurationError("exclude", err.Error())
	}
	scanner := NewDirectoryScanner(root, g.config.Extensions, exclude)

	g.diagnostics.PhaseHeader("Generating " + models.CMakeListsFile)
	switch g.config.Mode {
	case models.RecursionEach:
		err = g.generateEach(ctx, scanner, root, target.Name)
	case models.RecursionCombined:
		err = g.generateDirectory(scanner, root, true, target.Name)
	default:
		err = g.generateDirectory(scanner, root, false, target.Name)
	}
	if err != nil {
		return err
	}

	g.diagnostics.Verbose("Generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// generateEach writes one flat listing per directory, depth-first with
// directories visited in name order, starting at root
func (g *Generator) generateEach(ctx context.Context, scanner *DirectoryScanner, root, target string) error {
	visited := make(map[string]bool)
	stack := []string{root}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		real, err := canonicalDir(dir)
		if err != nil {
			return errors.WrapFileSystemError("resolve", dir, err)
		}
		if visited[real] {
			g.diagnostics.Warn("Skipping %s, already visited through a symbolic link", dir)
			continue
		}
		visited[real] = true

		if err := g.generateDirectory(scanner, dir, false, target); err != nil {
			return err
		}

		subdirs, err := scanner.SubDirectories(dir)
		if err != nil {
			return err
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return nil
}

// generateDirectory collects, renders and writes the listing for one directory
func (g *Generator) generateDirectory(scanner *DirectoryScanner, dir string, recursive bool, target string) error {
	g.summary.DirectoriesWalked++

	files, err := scanner.Collect(dir, recursive, "")
	if err != nil {
		return err
	}

	block, ok, err := g.listing.GenerateListing(dir, files, target, g.config.LineLength)
	if err != nil {
		return err
	}
	if !ok {
		g.diagnostics.Verbose("No matching files in %s, skipping", dir)
		return nil
	}
	g.summary.BlocksGenerated++
	g.diagnostics.Debug("Generated %d entries for %s", len(block.Files), dir)

	result, err := g.writer.Write(block.FilePath, block.Content, utils.WriteOptions{
		Force:  g.config.Force,
		DryRun: g.config.DryRun,
		Diff:   g.config.Diff,
	})
	if err != nil {
		return err
	}
	g.summary.Record(result)
	return nil
}
