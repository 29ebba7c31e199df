package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// NameShape registers obj as alignable. Naming an alignable object again
// returns its existing handle.
func (b *Backend) NameShape(ctx context.Context, obj types.ObjectRef) (types.RodRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	o, err := b.object(ctx, obj)
	if err != nil {
		return "", err
	}
	if o.rod != "" {
		return o.rod, nil
	}
	rod := types.RodRef(newID())
	if _, err := b.db.ExecContext(ctx, "UPDATE objects SET rod_id = ? WHERE obj_id = ?", string(rod), string(obj)); err != nil {
		return "", err
	}
	return rod, nil
}

// RodObject returns the alignment handle of obj.
// Returns ErrNotAlignable when obj was never named.
func (b *Backend) RodObject(ctx context.Context, obj types.ObjectRef) (types.RodRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	o, err := b.object(ctx, obj)
	if err != nil {
		return "", err
	}
	if o.rod == "" {
		return "", fmt.Errorf("%s: %w", obj, types.ErrNotAlignable)
	}
	return o.rod, nil
}

// RodDB returns the object behind rod.
func (b *Backend) RodDB(ctx context.Context, rod types.RodRef) (types.ObjectRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	o, err := b.rodObject(ctx, rod)
	if err != nil {
		return "", err
	}
	return o.id, nil
}

func (b *Backend) rodObject(ctx context.Context, rod types.RodRef) (object, error) {
	row := b.db.QueryRowContext(ctx, "SELECT "+objectColumns+" FROM objects WHERE rod_id = ?", string(rod))
	o, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return object{}, fmt.Errorf("rod %s: %w", rod, types.ErrNotAlignable)
	}
	return o, err
}

// Align moves the object behind req.Align, together with the outermost
// group containing it, so that its AlignAnchor point lands on the RefAnchor
// point of req.Ref plus the separation.
//
// With Maintain the alignment is recorded and re-applied whenever the
// reference moves; it is refused for grouped objects. Without Maintain any
// earlier maintained alignment of the object is dropped.
func (b *Backend) Align(ctx context.Context, req types.AlignRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}
	if !req.AlignAnchor.Valid() || !req.RefAnchor.Valid() {
		return fmt.Errorf("align %q to %q: %w", req.AlignAnchor, req.RefAnchor, types.ErrUnknownHandle)
	}

	obj, err := b.rodObject(ctx, req.Align)
	if err != nil {
		return err
	}
	ref, err := b.rodObject(ctx, req.Ref)
	if err != nil {
		return err
	}
	if obj.id == ref.id {
		return fmt.Errorf("align %s to itself: %w", obj.id, types.ErrNotAlignable)
	}

	if req.Maintain {
		for _, id := range []types.ObjectRef{obj.id, ref.id} {
			parents, err := b.parents(ctx, id)
			if err != nil {
				return err
			}
			if len(parents) > 0 {
				return fmt.Errorf("%s is grouped: %w", id, types.ErrMaintainUnsupported)
			}
		}
		if _, err := b.db.ExecContext(ctx,
			"INSERT OR REPLACE INTO alignments (align_rod, ref_rod, align_anchor, ref_anchor, x_sep, y_sep) VALUES (?, ?, ?, ?, ?, ?)",
			string(req.Align), string(req.Ref), string(req.AlignAnchor), string(req.RefAnchor),
			req.Separation.X, req.Separation.Y); err != nil {
			return err
		}
	} else {
		if _, err := b.db.ExecContext(ctx, "DELETE FROM alignments WHERE align_rod = ?", string(req.Align)); err != nil {
			return err
		}
	}

	return b.apply(ctx, obj, ref, req, 0)
}

// apply performs one alignment; b.mu must be held.
func (b *Backend) apply(ctx context.Context, obj, ref object, req types.AlignRequest, depth int) error {
	objBox, _, err := b.bbox(ctx, obj, map[types.ObjectRef]bool{})
	if err != nil {
		return err
	}
	refBox, _, err := b.bbox(ctx, ref, map[types.ObjectRef]bool{})
	if err != nil {
		return err
	}
	from, err := objBox.Anchor(req.AlignAnchor)
	if err != nil {
		return err
	}
	to, err := refBox.Anchor(req.RefAnchor)
	if err != nil {
		return err
	}
	delta := to.Add(req.Separation).Sub(from)

	target, err := b.outermost(ctx, obj.id)
	if err != nil {
		return err
	}
	log.Debug().Str("component", "sqlite").Str("object", string(obj.id)).Str("target", string(target)).
		Str("delta", delta.String()).Int("depth", depth).Msg("align")
	if delta == (types.Point{}) {
		return nil
	}
	return b.move(ctx, target, delta, depth)
}

// propagate re-applies maintained alignments whose reference is among moved.
func (b *Backend) propagate(ctx context.Context, moved []object, depth int) error {
	if depth >= maxConstraintDepth {
		return nil
	}
	for _, m := range moved {
		if m.rod == "" {
			continue
		}
		deps, err := b.dependents(ctx, m.rod)
		if err != nil {
			return err
		}
		for _, req := range deps {
			obj, err := b.rodObject(ctx, req.Align)
			if err != nil {
				return err
			}
			ref, err := b.rodObject(ctx, req.Ref)
			if err != nil {
				return err
			}
			if err := b.apply(ctx, obj, ref, req, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Backend) dependents(ctx context.Context, ref types.RodRef) ([]types.AlignRequest, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT align_rod, align_anchor, ref_anchor, x_sep, y_sep FROM alignments WHERE ref_rod = ? ORDER BY align_rod",
		string(ref))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.AlignRequest
	for rows.Next() {
		var (
			alignRod, alignAnchor, refAnchor string
			xSep, ySep                       float64
		)
		if err := rows.Scan(&alignRod, &alignAnchor, &refAnchor, &xSep, &ySep); err != nil {
			return nil, err
		}
		out = append(out, types.AlignRequest{
			Align:       types.RodRef(alignRod),
			AlignAnchor: types.Anchor(alignAnchor),
			Ref:         ref,
			RefAnchor:   types.Anchor(refAnchor),
			Separation:  types.Point{X: xSep, Y: ySep},
			Maintain:    true,
		})
	}
	return out, rows.Err()
}

// MaintainedAlignments returns the live alignments whose reference is rod.
func (b *Backend) MaintainedAlignments(ctx context.Context, rod types.RodRef) ([]types.AlignRequest, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return b.dependents(ctx, rod)
}
