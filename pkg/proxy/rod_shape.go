package proxy

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// RodShape is a proxy to a database object that carries an alignment handle,
// e.g. a rectangle or a path.
type RodShape struct {
	DbShape
	rod types.RodRef
}

// NewRodShape wraps an existing alignment handle.
func NewRodShape(ctx context.Context, sess types.Session, rod types.RodRef) (*RodShape, error) {
	db, err := sess.RodDB(ctx, rod)
	if err != nil {
		return nil, fmt.Errorf("resolve rod %s: %w", rod, err)
	}
	return &RodShape{DbShape: DbShape{sess: sess, db: db}, rod: rod}, nil
}

// RodShapeOf wraps a database object, resolving its alignment handle.
// Returns ErrNotAlignable when the object has none.
func RodShapeOf(ctx context.Context, sess types.Session, db types.ObjectRef) (*RodShape, error) {
	rod, err := sess.RodObject(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("resolve rod of %s: %w", db, err)
	}
	return &RodShape{DbShape: DbShape{sess: sess, db: db}, rod: rod}, nil
}

func (s *RodShape) Kind() Kind            { return KindRod }
func (s *RodShape) NativeAlignable() bool { return true }

// Rod returns the alignment handle.
func (s *RodShape) Rod() types.RodRef { return s.rod }

// Copy duplicates the object and registers the duplicate as alignable;
// duplication alone does not carry the alignment handle over.
func (s *RodShape) Copy(ctx context.Context, translate types.Point, transform types.Transform) (*RodShape, error) {
	db, err := s.copyFigure(ctx, translate, transform)
	if err != nil {
		return nil, err
	}
	rod, err := s.sess.NameShape(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("name copy %s: %w", db, err)
	}
	return &RodShape{DbShape: DbShape{sess: s.sess, db: db}, rod: rod}, nil
}
