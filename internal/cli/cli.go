package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/specialistvlad/labprotocol/internal/app"
	"github.com/specialistvlad/labprotocol/internal/config"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	settings *config.Settings
}

// Execute runs the command line described by args. Results are written to
// out and logs to errOut.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the lpd command tree.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "lpd",
		Short: "Compile lab protocols into Opentrons programs and back",
		Long: `lpd compiles liquid-handling protocols written in HCL into Opentrons
Python programs. Every generated program embeds structured comments, so a
program can be imported back into an editable protocol source.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "lpd.yaml", "Path to the settings file.")
	flags.StringVar(&opts.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")

	root.AddCommand(
		newCompileCommand(opts, out, errOut),
		newImportCommand(opts, out, errOut),
		newVerifyCommand(opts, out, errOut),
		newLabwareCommand(opts, out, errOut),
	)
	return root
}

// resolve loads the settings file and applies flag overrides.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	slog.Debug("Loading settings.", "path", o.configPath)
	settings, err := config.Load(o.configPath)
	if err != nil {
		return usageError(err)
	}
	if cmd.Flags().Changed("log-level") {
		settings.Logging.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		settings.Logging.Format = o.logFormat
	}
	if err := settings.Validate(); err != nil {
		return usageError(err)
	}
	o.settings = settings
	return nil
}

// appConfig merges the resolved settings with per-command values.
func (o *rootOptions) appConfig(cfg app.Config) (*app.Config, error) {
	cfg.LogLevel = o.settings.Logging.Level
	cfg.LogFormat = o.settings.Logging.Format
	cfg.Codegen = o.settings.Codegen.Options()

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return appConfig, nil
}

// exactArgs wraps cobra's argument checks so violations exit as usage
// errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
