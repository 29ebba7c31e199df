package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/pkg/sqlite"
)

type cellViewJSON struct {
	ID       string   `json:"id"`
	Lib      string   `json:"lib"`
	Cell     string   `json:"cell"`
	View     string   `json:"view"`
	Boundary *boxJSON `json:"boundary,omitempty"`
}

func toCellViewJSON(cv sqlite.CellView) cellViewJSON {
	out := cellViewJSON{ID: string(cv.ID), Lib: cv.Lib, Cell: cv.Cell, View: cv.View}
	if cv.Boundary != nil {
		b := toBoxJSON(*cv.Boundary)
		out.Boundary = &b
	}
	return out
}

func newCellViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cv",
		Aliases: []string{"cellview"},
		Short:   "Manage cell views",
	}
	cmd.AddCommand(newCellViewOpenCmd(), newCellViewBoundaryCmd(), newCellViewListCmd())
	return cmd
}

func newCellViewOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <lib> <cell> [view]",
		Short: "Open a cell view, creating it when absent",
		Args:  rangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := defaultView
			if len(args) == 3 {
				view = args[2]
			}
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			id, err := backend.OpenCellView(ctx, args[0], args[1], view)
			if err != nil {
				return err
			}
			cv, err := backend.CellView(ctx, id)
			if err != nil {
				return err
			}
			return emit(cmd, toCellViewJSON(cv), func(w io.Writer) {
				fmt.Fprintln(w, cv.ID)
			})
		},
	}
}

func newCellViewBoundaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boundary <cv> <x0> <y0> <x1> <y1>",
		Short: "Declare the placement boundary of a cell view",
		Args:  exactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := parseBox(args[1:])
			if err != nil {
				return err
			}
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
			if err := backend.SetPlacementBoundary(ctx, id, box); err != nil {
				return err
			}
			cv, err := backend.CellView(ctx, id)
			if err != nil {
				return err
			}
			return emit(cmd, toCellViewJSON(cv), func(w io.Writer) {
				fmt.Fprintf(w, "%s boundary %s\n", cv, box)
			})
		},
	}
}

func newCellViewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cell views",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			cvs, err := backend.CellViews(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]cellViewJSON, 0, len(cvs))
			for _, cv := range cvs {
				out = append(out, toCellViewJSON(cv))
			}
			return emit(cmd, out, func(w io.Writer) {
				for _, cv := range cvs {
					fmt.Fprintf(w, "%s  %s\n", cv.ID, cv)
				}
			})
		},
	}
}
