package cli

import (
	"io"

	"github.com/specialistvlad/labprotocol/internal/app"
	"github.com/specialistvlad/labprotocol/internal/hcl"
	"github.com/spf13/cobra"
)

func newCompileCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile [path...]",
		Short: "Compile HCL protocol sources into an Opentrons program",
		Long: `Reads every .hcl file named or found under the given directories and
writes the generated Python program to stdout, or to --output.`,
		Args: minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.appConfig(app.Config{Inputs: args, OutputPath: output})
			if err != nil {
				return err
			}
			return app.NewApp(out, errOut, cfg, hcl.NewLoader()).Compile(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the program to this file.")
	return cmd
}

func newImportCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	var (
		output  string
		lenient bool
	)

	cmd := &cobra.Command{
		Use:   "import <program.py>",
		Short: "Rebuild the HCL source of a generated program",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.appConfig(app.Config{Inputs: args, OutputPath: output, Lenient: lenient})
			if err != nil {
				return err
			}
			return app.NewApp(out, errOut, cfg, hcl.NewLoader()).Import(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the source to this file.")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Skip malformed structured comments instead of failing.")
	return cmd
}

func newVerifyCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <program.py>",
		Short: "Check that a program survives parse and recompile unchanged",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.appConfig(app.Config{Inputs: args})
			if err != nil {
				return err
			}
			return app.NewApp(out, errOut, cfg, hcl.NewLoader()).Verify(cmd.Context())
		},
	}
}

func newLabwareCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "labware",
		Short: "List the supported labware types",
		Args:  exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.appConfig(app.Config{})
			if err != nil {
				return err
			}
			return app.NewApp(out, errOut, cfg, hcl.NewLoader()).ListLabware()
		},
	}
}
