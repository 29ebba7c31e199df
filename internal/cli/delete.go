package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/pkg/proxy"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

func newDeleteCmd() *cobra.Command {
	var children bool
	cmd := &cobra.Command{
		Use:   "delete <object>",
		Short: "Delete an object",
		Long: "Deletes an object. Deleting a group keeps its members unless\n" +
			"--children is given, in which case members go first, deepest first.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			shape := proxy.NewDbShape(backend, types.ObjectRef(args[0]))
			ok, err := shape.Valid(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], types.ErrObjectNotFound)
			}
			if err := shape.Delete(ctx, children, cfg.Redraw); err != nil {
				return err
			}
			out := map[string]any{"deleted": args[0], "children": children}
			return emit(cmd, out, func(w io.Writer) {
				fmt.Fprintln(w, "deleted", args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&children, "children", false, "delete group members too")
	return cmd
}
