package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rodlayout/internal/paths"
	"github.com/mesh-intelligence/rodlayout/pkg/proxy"
	"github.com/mesh-intelligence/rodlayout/pkg/sqlite"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// attachBackend resolves the data directory and attaches the layout
// database. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.DataDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{Backend: cfg.Backend, DataDir: dataDir}); err != nil {
		if errors.Is(err, types.ErrBackendEmpty) || errors.Is(err, types.ErrBackendUnknown) {
			return nil, userError(fmt.Errorf("config: %w", err))
		}
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return backend, nil
}

// resolveCellView accepts a cell view id, "lib/cell/view" or "cell/view"
// in the configured library. Names must refer to an opened cell view.
func resolveCellView(ctx context.Context, b *sqlite.Backend, ref string) (types.ContainerRef, error) {
	parts := strings.Split(ref, "/")
	switch len(parts) {
	case 1:
		cv, err := b.CellView(ctx, types.ContainerRef(ref))
		if err != nil {
			return "", err
		}
		return cv.ID, nil
	case 2:
		parts = append([]string{cfg.Library}, parts...)
	case 3:
	default:
		return "", userError(fmt.Errorf("cell view %q: want id, cell/view or lib/cell/view", ref))
	}

	cvs, err := b.CellViews(ctx)
	if err != nil {
		return "", err
	}
	for _, cv := range cvs {
		if cv.Lib == parts[0] && cv.Cell == parts[1] && cv.View == parts[2] {
			return cv.ID, nil
		}
	}
	return "", fmt.Errorf("%s: %w", strings.Join(parts, "/"), types.ErrContainerNotFound)
}

// resolveShape wraps an object id in the proxy matching its type. A
// comma-separated list of ids becomes a collection.
func resolveShape(ctx context.Context, sess types.Session, ref string) (proxy.Shape, error) {
	if strings.Contains(ref, ",") {
		var elems []proxy.Shape
		for _, id := range strings.Split(ref, ",") {
			if id == "" {
				continue
			}
			s, err := resolveShape(ctx, sess, id)
			if err != nil {
				return nil, err
			}
			elems = append(elems, s)
		}
		return proxy.NewCollection(sess, elems...), nil
	}

	obj := types.ObjectRef(ref)
	objType, err := sess.ObjectType(ctx, obj)
	if err != nil {
		return nil, err
	}
	switch objType {
	case types.ObjectInstance:
		return proxy.InstanceOf(ctx, sess, obj)
	case types.ObjectFigGroup:
		return proxy.NewDbShape(sess, obj), nil
	}
	s, err := proxy.RodShapeOf(ctx, sess, obj)
	if errors.Is(err, types.ErrNotAlignable) {
		return proxy.NewDbShape(sess, obj), nil
	}
	return s, err
}

// parseFloats parses every argument as a float64.
func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, userError(fmt.Errorf("invalid number %q", a))
		}
		out[i] = f
	}
	return out, nil
}

// parseBox parses four coordinates x0 y0 x1 y1.
func parseBox(args []string) (types.BoundingBox, error) {
	f, err := parseFloats(args)
	if err != nil {
		return types.BoundingBox{}, err
	}
	if len(f) != 4 {
		return types.BoundingBox{}, userError(fmt.Errorf("want 4 coordinates, got %d", len(f)))
	}
	return types.Box(f[0], f[1], f[2], f[3]), nil
}

// boxJSON is the JSON form of a bounding box.
type boxJSON [4]float64

func toBoxJSON(b types.BoundingBox) boxJSON {
	return boxJSON{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y}
}

// emit writes v as indented JSON in --json mode and text otherwise.
func emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if !flags.jsonMode {
		text(w)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}
