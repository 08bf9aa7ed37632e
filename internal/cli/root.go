// Package cli implements the flo command-line interface.
//
// Every command reads one adapter document (a path, or stdin with "-" or no
// argument), runs it through the pipeline and reports in text or JSON.
// Defaults come from flo.toml; flags override them.
//
// # Exit codes
//
//	0  success
//	1  usage error, failed scenarios, unexpected error
//	2  input does not parse
//	3  input does not compile
//	4  structural validation failed
//	5  schema validation failed
//	6  rendering or writing output failed
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/roach88/flo/internal/config"
	"github.com/roach88/flo/internal/ir"
	"github.com/roach88/flo/internal/pipeline"
	"github.com/roach88/flo/internal/schema"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	SchemaPath string

	config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the flo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "flo",
		Short:   "flo - process graph compiler",
		Long:    "Compile adapter documents into a canonical process graph, validate it and condense its cycles.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}

			level := log.InfoLevel
			if opts.Verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(pipeline.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate(fmt.Sprintf("flo %s (ir v%s)\n", version, ir.IRVersion))

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	cmd.PersistentFlags().StringVar(&opts.SchemaPath, "schema", "", "JSON Schema for the schema-aligned IR")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCondenseCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// Execute runs the CLI with ctx and returns the process exit code.
// Errors that commands have not reported yet are printed to stderr.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return GetExitCode(err)
}

// load reads the config file and applies it under the flags that were not
// set explicitly.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	o.config = cfg

	if !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}
	o.Verbose = o.Verbose || cfg.Verbose

	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}
	return nil
}

// Config returns the loaded config, or the defaults when none was loaded.
func (o *RootOptions) Config() *config.Config {
	if o.config == nil {
		return config.Default()
	}
	return o.config
}

// resolveSchema locates the schema: --schema, then the config file, then
// the conventional path, then the embedded copy.
func (o *RootOptions) resolveSchema() (*schema.Schema, error) {
	path := o.SchemaPath
	if path == "" {
		path = o.Config().Schema
	}
	return schema.Locate(path)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// boolFlag returns the flag value when it was set on the command line and
// fallback otherwise.
func boolFlag(cmd *cobra.Command, name string, value, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// readInput returns the adapter document named by args and a label for it.
// No argument or "-" reads stdin.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), args[0], nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
