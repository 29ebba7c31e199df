// Package cli implements the rodlayout command-line interface over the
// simulated layout database.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/internal/logging"
	"github.com/mesh-intelligence/rodlayout/internal/paths"
	"github.com/mesh-intelligence/rodlayout/pkg/sqlite"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var (
	flags rootFlags

	// cfg is loaded from config.yaml before every subcommand runs.
	cfg settings
)

// NewRootCmd creates the top-level "rodlayout" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rodlayout",
		Short: "Align layout shapes on symbolic anchors",
		Long: "rodlayout draws rectangles, groups and instances into a layout database\n" +
			"and aligns them on named anchors such as lower_left or center.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return userError(err)
	})

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: ./.rodlayout or the user config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory holding layout.db")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCellViewCmd())
	root.AddCommand(newRectCmd())
	root.AddCommand(newGroupCmd())
	root.AddCommand(newInstCmd())
	root.AddCommand(newAlignCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newExportCmd())

	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "rodlayout:", err)
		return exitCode(err)
	}
	return exitSuccess
}

func loadSettings(cmd *cobra.Command, args []string) error {
	logging.ConfigureRuntime()

	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	if s.LogLevel != "" && os.Getenv(logging.EnvLogLevel) == "" && !logging.SetLevel(s.LogLevel) {
		return userError(fmt.Errorf("config: unknown log_level %q", s.LogLevel))
	}
	s.ConfigDir = configDir
	cfg = s
	return nil
}

// exitError carries the exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// userErrors are failures caused by the request rather than the system.
var userErrors = []error{
	types.ErrUnknownHandle,
	types.ErrUnsupportedOperation,
	types.ErrInvalidAlignmentRequest,
	types.ErrIncompatibleAlignment,
	types.ErrContainerMismatch,
	types.ErrEmptyCollection,
	types.ErrObjectNotFound,
	types.ErrContainerNotFound,
	types.ErrInstanceNotFound,
	types.ErrNotAlignable,
	types.ErrMaintainUnsupported,
	types.ErrNotAGroup,
	types.ErrInvalidTransform,
	types.ErrNoPlacementBoundary,
	types.ErrBackendUnknown,
	sqlite.ErrDuplicateName,
	sqlite.ErrGroupCycle,
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// exactArgs and rangeArgs report argument count mistakes as user errors.
func exactArgs(n int) cobra.PositionalArgs {
	return userArgs(cobra.ExactArgs(n))
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return userArgs(cobra.RangeArgs(lo, hi))
}

func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}
