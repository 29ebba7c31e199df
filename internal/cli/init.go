package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the layout database",
		Long:  "Write a default config.yaml when none exists, then create layout.db in the data directory.",
		Args:  exactArgs(0),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	written, err := writeConfigIfMissing(cfg.ConfigDir, cfg)
	if err != nil {
		return sysError(err)
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "rodlayout initialized")
	fmt.Fprintln(out, "  config:", paths.ConfigFile(cfg.ConfigDir))
	if !written {
		fmt.Fprintln(out, "          (kept existing file)")
	}
	fmt.Fprintln(out, "  data:  ", dataDir)
	return nil
}
