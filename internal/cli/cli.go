package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/solforge/internal/app"
	"github.com/specialistvlad/solforge/internal/compiler"
	"github.com/specialistvlad/solforge/internal/hcl"
	"github.com/spf13/cobra"
)

// Exit codes returned through ExitError.
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

// Options lets tests replace collaborators the commands would normally build
// themselves.
type Options struct {
	Compiler compiler.Compiler
}

// Execute runs the command line in args. Help and normal output go to outW;
// logs and compiler diagnostics go to errW.
func Execute(ctx context.Context, outW, errW io.Writer, args []string, opts Options) error {
	root := NewRootCommand(outW, errW, opts)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return err
}

// NewRootCommand builds the solforge command tree.
func NewRootCommand(outW, errW io.Writer, opts Options) *cobra.Command {
	cfg := &app.Config{}

	root := &cobra.Command{
		Use:   "solforge",
		Short: "solforge - compile Solidity sources into deployable artifacts",
		Long: `solforge compiles a tree of Solidity contracts with solc and writes, for every
contract, its bytecode (.bin), ABI (.abi, .abi.json) and gas estimates
(.gasEstimates.json). It also downloads the ABI and bytecode of external,
pre-built contracts listed in the project file (solforge.hcl).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&cfg.ConfigPath, "config", "c", "", "Path to the project file (default: ./"+hcl.DefaultFileName+" if present).")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&cfg.SourceDir, "source-dir", "", "Override the contract source directory.")
	pf.StringVar(&cfg.OutDir, "out-dir", "", "Override the artifact output directory.")
	pf.StringVar(&cfg.SolcPath, "solc", "", "Override the solc binary.")

	root.AddCommand(
		newCompileCommand(cfg, errW, opts),
		newFetchCommand(cfg, errW, opts),
		newWatchCommand(cfg, errW, opts),
	)
	return root
}

func newCompileCommand(cfg *app.Config, errW io.Writer, opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [glob]",
		Short: "Compile contracts and write their artifacts",
		Long: `Compile every source matching glob (default: <source_dir>/**/*.sol).
Compiling the default glob empties the output directory first; any other glob
only overwrites the artifacts it produces.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, errW, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			res, err := a.Compile(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			if !res.Success() {
				return &ExitError{Code: res.ExitCode(), Message: fmt.Sprintf("compilation failed with %d error(s)", len(res.Errors))}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cfg.SkipExternal, "skip-external", false, "Do not download external contracts after compiling.")
	return cmd
}

func newFetchCommand(cfg *app.Config, errW io.Writer, opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the external contracts into the output directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, errW, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Fetch(cmd.Context())
		},
	}
}

func newWatchCommand(cfg *app.Config, errW io.Writer, opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the whole source tree whenever a contract changes",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, errW, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Watch(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&cfg.SkipExternal, "skip-external", false, "Do not download external contracts after each build.")
	cmd.Flags().IntVar(&cfg.HealthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	return cmd
}

// newApp validates the flags and loads the project. Every failure here is
// the user's to fix, so it maps to the usage exit code.
func newApp(ctx context.Context, cfg *app.Config, errW io.Writer, opts Options) (*app.App, error) {
	validated, err := app.NewConfig(*cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	a, err := app.NewApp(ctx, errW, validated, hcl.NewLoader(), opts.Compiler)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return a, nil
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		return nil
	}
}
