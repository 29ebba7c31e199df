package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// CellView describes a cell view held by the backend.
type CellView struct {
	ID       types.ContainerRef
	Lib      string
	Cell     string
	View     string
	Boundary *types.BoundingBox
}

func (cv CellView) String() string {
	return fmt.Sprintf("%s/%s/%s", cv.Lib, cv.Cell, cv.View)
}

// OpenCellView returns the cell view lib/cell/view, creating it when absent.
func (b *Backend) OpenCellView(ctx context.Context, lib, cell, view string) (types.ContainerRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	if lib == "" || cell == "" || view == "" {
		return "", fmt.Errorf("open cell view %q/%q/%q: %w", lib, cell, view, types.ErrContainerNotFound)
	}

	var id string
	err := b.db.QueryRowContext(ctx,
		"SELECT cv_id FROM cellviews WHERE lib = ? AND cell = ? AND view = ?", lib, cell, view).Scan(&id)
	if err == nil {
		return types.ContainerRef(id), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = newID()
	if _, err := b.db.ExecContext(ctx,
		"INSERT INTO cellviews (cv_id, lib, cell, view) VALUES (?, ?, ?, ?)", id, lib, cell, view); err != nil {
		return "", fmt.Errorf("create cell view: %w", err)
	}
	return types.ContainerRef(id), nil
}

// SetPlacementBoundary declares the placement boundary of cv.
func (b *Backend) SetPlacementBoundary(ctx context.Context, cv types.ContainerRef, box types.BoundingBox) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	res, err := b.db.ExecContext(ctx,
		"UPDATE cellviews SET has_boundary = 1, bx0 = ?, by0 = ?, bx1 = ?, by1 = ? WHERE cv_id = ?",
		box.Min.X, box.Min.Y, box.Max.X, box.Max.Y, string(cv))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", cv, types.ErrContainerNotFound)
	}
	return nil
}

// CellView returns the description of cv.
func (b *Backend) CellView(ctx context.Context, cv types.ContainerRef) (CellView, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return CellView{}, err
	}
	return b.cellView(ctx, cv)
}

// CellViews lists every cell view ordered by lib, cell, view.
func (b *Backend) CellViews(ctx context.Context) ([]CellView, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT cv_id, lib, cell, view, has_boundary, bx0, by0, bx1, by1 FROM cellviews ORDER BY lib, cell, view")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CellView
	for rows.Next() {
		cv, err := scanCellView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

func (b *Backend) cellView(ctx context.Context, cv types.ContainerRef) (CellView, error) {
	row := b.db.QueryRowContext(ctx,
		"SELECT cv_id, lib, cell, view, has_boundary, bx0, by0, bx1, by1 FROM cellviews WHERE cv_id = ?", string(cv))
	out, err := scanCellView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CellView{}, fmt.Errorf("%s: %w", cv, types.ErrContainerNotFound)
	}
	return out, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCellView(row scanner) (CellView, error) {
	var (
		cv          CellView
		id          string
		hasBoundary bool
		x0, y0      float64
		x1, y1      float64
	)
	if err := row.Scan(&id, &cv.Lib, &cv.Cell, &cv.View, &hasBoundary, &x0, &y0, &x1, &y1); err != nil {
		return CellView{}, err
	}
	cv.ID = types.ContainerRef(id)
	if hasBoundary {
		box := types.Box(x0, y0, x1, y1)
		cv.Boundary = &box
	}
	return cv, nil
}

// PlacementBoundary returns the boundary declared with SetPlacementBoundary.
// Returns ErrNoPlacementBoundary when none was declared.
func (b *Backend) PlacementBoundary(ctx context.Context, cv types.ContainerRef) (types.BoundingBox, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return types.BoundingBox{}, err
	}

	desc, err := b.cellView(ctx, cv)
	if err != nil {
		return types.BoundingBox{}, err
	}
	if desc.Boundary == nil {
		return types.BoundingBox{}, fmt.Errorf("%s: %w", desc, types.ErrNoPlacementBoundary)
	}
	return *desc.Boundary, nil
}

// ContainerBBox returns the union of every leaf drawn in cv. An empty cell
// view has a zero box at the origin.
func (b *Backend) ContainerBBox(ctx context.Context, cv types.ContainerRef) (types.BoundingBox, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return types.BoundingBox{}, err
	}
	return b.containerBBox(ctx, cv)
}

func (b *Backend) containerBBox(ctx context.Context, cv types.ContainerRef) (types.BoundingBox, error) {
	if _, err := b.cellView(ctx, cv); err != nil {
		return types.BoundingBox{}, err
	}

	var (
		n              int
		x0, y0, x1, y1 sql.NullFloat64
	)
	err := b.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(x0), MIN(y0), MAX(x1), MAX(y1) FROM objects WHERE cv_id = ? AND obj_type != ?",
		string(cv), types.ObjectFigGroup).Scan(&n, &x0, &y0, &x1, &y1)
	if err != nil {
		return types.BoundingBox{}, err
	}
	if n == 0 {
		return types.BoundingBox{}, nil
	}
	return types.Box(x0.Float64, y0.Float64, x1.Float64, y1.Float64), nil
}
