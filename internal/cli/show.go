package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type showJSON struct {
	CellView cellViewJSON `json:"cellview"`
	Objects  []objectJSON `json:"objects"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <cv>",
		Short: "List the top-level objects of a cell view",
		Args:  exactArgs(1),
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
			cv, err := backend.CellView(ctx, id)
			if err != nil {
				return err
			}
			objs, err := backend.Objects(ctx, id)
			if err != nil {
				return err
			}

			out := showJSON{CellView: toCellViewJSON(cv), Objects: make([]objectJSON, 0, len(objs))}
			for _, o := range objs {
				out.Objects = append(out.Objects, objectJSON{
					ID:     string(o.ID),
					Type:   o.Type,
					Name:   o.Name,
					Layer:  o.Layer.String(),
					BBox:   toBoxJSON(o.BBox),
					Master: string(o.Master),
					Rod:    string(o.Rod),
				})
			}
			return emit(cmd, out, func(w io.Writer) {
				fmt.Fprintf(w, "Cell view: %s (%s)\n", cv, cv.ID)
				if cv.Boundary != nil {
					fmt.Fprintf(w, "Boundary:  %s\n", *cv.Boundary)
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTYPE\tNAME\tLAYER\tBBOX")
				for _, o := range out.Objects {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\n", o.ID, o.Type, o.Name, o.Layer, o.BBox)
				}
				tw.Flush()
			})
		},
	}
}
