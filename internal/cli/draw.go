package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/pkg/proxy"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// objectJSON describes one object in command output.
type objectJSON struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Name   string  `json:"name,omitempty"`
	Layer  string  `json:"layer,omitempty"`
	BBox   boxJSON `json:"bbox"`
	Master string  `json:"master,omitempty"`
	Rod    string  `json:"rod,omitempty"`
}

// parseLayer accepts "name" or "name/purpose".
func parseLayer(s string) (types.Layer, error) {
	name, purpose, found := strings.Cut(s, "/")
	if name == "" {
		return types.Layer{}, userError(fmt.Errorf("invalid layer %q", s))
	}
	if !found {
		purpose = "drawing"
	}
	return types.Layer{Name: name, Purpose: purpose}, nil
}

func newRectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rect <cv> <layer[/purpose]> <x0> <y0> <x1> <y1>",
		Short: "Draw an alignable rectangle",
		Args:  exactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := parseLayer(args[1])
			if err != nil {
				return err
			}
			box, err := parseBox(args[2:])
			if err != nil {
				return err
			}
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			cv, err := resolveCellView(ctx, backend, args[0])
			if err != nil {
				return err
			}
			rod, err := backend.CreateRect(ctx, cv, layer, box)
			if err != nil {
				return err
			}
			shape, err := proxy.NewRodShape(ctx, backend, rod)
			if err != nil {
				return err
			}
			out := objectJSON{
				ID:    string(shape.DB()),
				Type:  types.ObjectRect,
				Layer: layer.String(),
				BBox:  toBoxJSON(types.NewBoundingBox(box.Min, box.Max)),
				Rod:   string(rod),
			}
			return emit(cmd, out, func(w io.Writer) {
				fmt.Fprintln(w, shape.DB())
			})
		},
	}
}

func newGroupCmd() *cobra.Command {
	var (
		dx, dy    float64
		transform string
	)
	cmd := &cobra.Command{
		Use:   "group <cv> <object>...",
		Short: "Group objects into a figure group",
		Args:  userArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			orient, err := types.ParseTransform(transform)
			if err != nil {
				return userError(err)
			}
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			cv, err := resolveCellView(ctx, backend, args[0])
			if err != nil {
				return err
			}
			group, err := backend.CreateGroup(ctx, cv, types.Point{X: dx, Y: dy}, orient)
			if err != nil {
				return err
			}
			defer func() {
				if err == nil {
					return
				}
				if delErr := backend.Delete(ctx, group); delErr != nil {
					err = errors.Join(err, fmt.Errorf("delete group %s: %w", group, delErr))
				}
			}()
			for _, id := range args[1:] {
				if err := backend.AddToGroup(ctx, group, types.ObjectRef(id)); err != nil {
					return err
				}
			}
			box, err := backend.BBox(ctx, group)
			if err != nil {
				return err
			}
			out := objectJSON{ID: string(group), Type: types.ObjectFigGroup, BBox: toBoxJSON(box)}
			return emit(cmd, out, func(w io.Writer) {
				fmt.Fprintln(w, group)
			})
		},
	}
	cmd.Flags().Float64Var(&dx, "dx", 0, "group offset x")
	cmd.Flags().Float64Var(&dy, "dy", 0, "group offset y")
	cmd.Flags().StringVar(&transform, "transform", string(types.Identity), "group orientation (R0, R90, ..., MYR90)")
	return cmd
}

func newInstCmd() *cobra.Command {
	var transform string
	cmd := &cobra.Command{
		Use:   "inst <cv> <master-cv> <name> <x> <y>",
		Short: "Place an instance of a master cell view",
		Args:  exactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			xy, err := parseFloats(args[3:])
			if err != nil {
				return err
			}
			orient, err := types.ParseTransform(transform)
			if err != nil {
				return userError(err)
			}
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx := cmd.Context()
			cv, err := resolveCellView(ctx, backend, args[0])
			if err != nil {
				return err
			}
			master, err := resolveCellView(ctx, backend, args[1])
			if err != nil {
				return err
			}
			if _, err := backend.CreateInstance(ctx, cv, master, args[2], types.Point{X: xy[0], Y: xy[1]}, orient); err != nil {
				return err
			}
			inst, err := proxy.InstanceFromName(ctx, backend, cv, args[2])
			if err != nil {
				return err
			}
			box, err := inst.BBox(ctx)
			if err != nil {
				return err
			}
			out := objectJSON{
				ID:     string(inst.DB()),
				Type:   types.ObjectInstance,
				Name:   args[2],
				BBox:   toBoxJSON(box),
				Master: string(master),
				Rod:    string(inst.Rod()),
			}
			return emit(cmd, out, func(w io.Writer) {
				fmt.Fprintln(w, inst.DB())
			})
		},
	}
	cmd.Flags().StringVar(&transform, "transform", string(types.Identity), "instance orientation (R0, R90, ..., MYR90)")
	return cmd
}
