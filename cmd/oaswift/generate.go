package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oaswift/oaswift/internal/config"
	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/pipeline"
)

// generateFlags holds the generate subcommand's flag values.
type generateFlags struct {
	mode            string
	outputDirectory string
	accessModifier  string
	configPath      string
	diagnosticsFile string
	verbose         bool
}

func newGenerateCommand() *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:           "generate <openapi-file>",
		Short:         "Generate Swift source files from an OpenAPI document",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(flags, args[0])
		},
	}
	registerGenerateFlags(cmd.Flags(), flags)
	return cmd
}

func registerGenerateFlags(fs *pflag.FlagSet, flags *generateFlags) {
	fs.StringVar(&flags.mode, "mode", "", "generation mode: types, client, or server (overrides the config file)")
	fs.StringVar(&flags.outputDirectory, "output-directory", ".", "directory the generated files are written to")
	fs.StringVar(&flags.accessModifier, "access-modifier", "", "access level of generated declarations (overrides the config file)")
	fs.StringVar(&flags.configPath, "config", "", "path to the YAML configuration file")
	fs.StringVar(&flags.diagnosticsFile, "diagnostics-file", "", "write diagnostics to this YAML file instead of stderr")
	fs.BoolVar(&flags.verbose, "verbose", false, "log stage progress and timing to stderr")
}

func runGenerate(flags *generateFlags, inputPath string) error {
	logger := newLogger(flags.verbose)

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI document %q: %w", inputPath, err)
	}

	var fileSink *diagnostic.File
	var upstream diagnostic.Collector
	if flags.diagnosticsFile != "" {
		fileSink = diagnostic.NewFile(flags.diagnosticsFile)
		upstream = fileSink
	} else {
		upstream = diagnostic.NewStream(os.Stderr)
	}
	sink := diagnostic.NewErrorThrowing(upstream)

	logger.Debug("starting generation", "input", inputPath, "mode", cfg.Mode)
	files, timing, err := pipeline.Run(input, inputPath, cfg, sink)
	if fileSink != nil {
		if finalizeErr := fileSink.Finalize(); finalizeErr != nil && err == nil {
			err = finalizeErr
		}
	}
	if err != nil {
		return err
	}
	if flags.verbose {
		timing.Print()
	}

	for _, file := range files {
		outPath := filepath.Join(flags.outputDirectory, file.Name)
		if err := os.WriteFile(outPath, file.Contents, 0o644); err != nil {
			return fmt.Errorf("failed to write %q: %w", outPath, err)
		}
		logger.Debug("wrote output file", "path", outPath, "bytes", len(file.Contents))
	}
	return nil
}

// loadConfig resolves the effective config: the config file when given,
// defaults otherwise, with CLI flags overriding both.
func loadConfig(flags *generateFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}

	if flags.mode != "" {
		cfg.Mode = config.Mode(flags.mode)
	}
	if flags.accessModifier != "" {
		cfg.Access = config.AccessModifier(flags.accessModifier)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates the CLI logger; debug level only under --verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
