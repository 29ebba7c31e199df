package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/internal/logging"
	"github.com/mesh-intelligence/rodlayout/pkg/proxy"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

type alignedJSON struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	BBox boxJSON `json:"bbox"`
}

func newAlignCmd() *cobra.Command {
	var (
		opts                    proxy.AlignOptions
		placement, refPlacement bool
	)
	cmd := &cobra.Command{
		Use:   "align <object>:<anchor> <ref>:<anchor>",
		Short: "Align an object's anchor onto a reference anchor",
		Long: "Moves the object so that its anchor lands on the reference anchor plus\n" +
			"(--xsep, --ysep). Objects may be comma-separated id lists, which are\n" +
			"aligned as one collection. Anchors: " + strings.Join(types.HandleNames(), ", ") + ".",
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alignRef, alignAnchor, err := splitAnchor(args[0])
			if err != nil {
				return err
			}
			refRef, refAnchor, err := splitAnchor(args[1])
			if err != nil {
				return err
			}
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			h, err := handleFor(ctx, backend, alignRef, alignAnchor, placement)
			if err != nil {
				return err
			}
			ref, err := handleFor(ctx, backend, refRef, refAnchor, refPlacement)
			if err != nil {
				return err
			}

			logger := logging.Component("cli")
			logger.Info().Str("object", alignRef).Str("ref", refRef).
				Str("anchor", string(h.Anchor())).Str("ref_anchor", string(ref.Anchor())).
				Bool("maintain", opts.Maintain).Msg("align")

			result, err := h.AlignTo(ctx, ref, opts)
			if err != nil {
				return err
			}
			if cfg.Redraw {
				if err := backend.Redraw(ctx); err != nil {
					return err
				}
			}

			var out []alignedJSON
			for _, el := range result.Elements() {
				box, err := el.BBox(ctx)
				if err != nil {
					return err
				}
				out = append(out, alignedJSON{
					ID:   idsOf(el),
					Kind: el.Kind().String(),
					BBox: toBoxJSON(box),
				})
			}
			return emit(cmd, out, func(w io.Writer) {
				for _, o := range out {
					fmt.Fprintf(w, "%s %s %v\n", o.Kind, o.ID, o.BBox)
				}
			})
		},
	}
	cmd.Flags().Float64Var(&opts.XSep, "xsep", 0, "separation in x")
	cmd.Flags().Float64Var(&opts.YSep, "ysep", 0, "separation in y")
	cmd.Flags().BoolVar(&opts.Maintain, "maintain", false, "keep the alignment when the reference moves")
	cmd.Flags().BoolVar(&placement, "placement", false, "align the object's placement boundary instead of its bounding box")
	cmd.Flags().BoolVar(&refPlacement, "ref-placement", false, "align to the reference's placement boundary")
	return cmd
}

// splitAnchor splits "<object>:<anchor>" at the last colon.
func splitAnchor(arg string) (string, string, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return "", "", userError(fmt.Errorf("%q: want <object>:<anchor>", arg))
	}
	return arg[:i], arg[i+1:], nil
}

func handleFor(ctx context.Context, sess types.Session, ref, anchor string, placement bool) (proxy.Handle, error) {
	shape, err := resolveShape(ctx, sess, ref)
	if err != nil {
		return proxy.Handle{}, err
	}
	h := proxy.BBoxHandle(shape)
	if placement {
		h = proxy.PlacementHandle(shape)
	}
	return h.At(anchor)
}

func idsOf(s proxy.Shape) string {
	ids := s.ObjectIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
