package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/internal/logging"
)

type exportJSON struct {
	Path    string `json:"path"`
	Objects int    `json:"objects"`
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <cv> <file>",
		Short: "Write a JSONL snapshot of a cell view",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			id, err := resolveCellView(ctx, backend, args[0])
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[1])
			if err != nil {
				return sysError(err)
			}
			n, err := backend.ExportJSONL(ctx, id, path)
			if err != nil {
				return sysError(fmt.Errorf("export %s: %w", args[0], err))
			}
			logger := logging.Component("cli")
			logger.Debug().Str("cv", string(id)).Str("path", path).Int("objects", n).Msg("exported")

			return emit(cmd, exportJSON{Path: path, Objects: n}, func(w io.Writer) {
				fmt.Fprintf(w, "exported %d objects to %s\n", n, path)
			})
		},
	}
}
