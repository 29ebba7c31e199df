package proxy

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// DbShape is a proxy to a single database object that has no alignment
// handle of its own, e.g. a figure group.
//
// After Delete the proxy refers to nothing; discard it.
type DbShape struct {
	sess types.Session
	db   types.ObjectRef
}

// NewDbShape wraps an existing database object.
func NewDbShape(sess types.Session, db types.ObjectRef) *DbShape {
	return &DbShape{sess: sess, db: db}
}

func (s *DbShape) Kind() Kind                   { return KindDb }
func (s *DbShape) NativeAlignable() bool        { return false }
func (s *DbShape) session() types.Session       { return s.sess }
func (s *DbShape) ObjectIDs() []types.ObjectRef { return []types.ObjectRef{s.db} }

// DB returns the wrapped database object.
func (s *DbShape) DB() types.ObjectRef { return s.db }

func (s *DbShape) String() string {
	objType, err := s.sess.ObjectType(context.Background(), s.db)
	if err != nil {
		objType = "invalid"
	}
	return fmt.Sprintf("%s@%s", objType, s.db)
}

// Container returns the cell view of the wrapped object.
func (s *DbShape) Container(ctx context.Context) (types.ContainerRef, error) {
	return s.sess.Container(ctx, s.db)
}

// BBox returns the bounding box the session reports for the object.
func (s *DbShape) BBox(ctx context.Context) (types.BoundingBox, error) {
	return s.sess.BBox(ctx, s.db)
}

func (s *DbShape) PlacementBoundary(ctx context.Context) (types.BoundingBox, error) {
	return types.BoundingBox{}, fmt.Errorf("placement boundary of %s: %w", s.db, types.ErrUnsupportedOperation)
}

// Valid reports whether the object still exists in the session.
func (s *DbShape) Valid(ctx context.Context) (bool, error) {
	return s.sess.Valid(ctx, s.db)
}

// Delete removes the object. With children set, group members are deleted
// first, deepest first. With redraw set, the session redraws afterwards.
func (s *DbShape) Delete(ctx context.Context, children, redraw bool) error {
	if err := deleteObject(ctx, s.sess, s.db, children); err != nil {
		return err
	}
	if redraw {
		return s.sess.Redraw(ctx)
	}
	return nil
}

func deleteObject(ctx context.Context, sess types.Session, obj types.ObjectRef, children bool) error {
	if children {
		kids, err := sess.Children(ctx, obj)
		if err != nil {
			return fmt.Errorf("list children of %s: %w", obj, err)
		}
		for _, kid := range kids {
			if err := deleteObject(ctx, sess, kid, true); err != nil {
				return err
			}
		}
	}
	if err := sess.Delete(ctx, obj); err != nil {
		return fmt.Errorf("delete %s: %w", obj, err)
	}
	return nil
}

// Copy duplicates the object in its own cell view, applying transform and
// then translate to the duplicate.
func (s *DbShape) Copy(ctx context.Context, translate types.Point, transform types.Transform) (*DbShape, error) {
	db, err := s.copyFigure(ctx, translate, transform)
	if err != nil {
		return nil, err
	}
	return NewDbShape(s.sess, db), nil
}

func (s *DbShape) copyFigure(ctx context.Context, translate types.Point, transform types.Transform) (types.ObjectRef, error) {
	cv, err := s.sess.Container(ctx, s.db)
	if err != nil {
		return "", err
	}
	db, err := s.sess.CopyFigure(ctx, s.db, cv, translate, transform)
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", s.db, err)
	}
	return db, nil
}

// Children returns the alignable figures within a group and its nested
// groups, depth first.
func (s *DbShape) Children(ctx context.Context) ([]*RodShape, error) {
	var out []*RodShape
	if err := s.collectChildren(ctx, s.db, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DbShape) collectChildren(ctx context.Context, obj types.ObjectRef, out *[]*RodShape) error {
	kids, err := s.sess.Children(ctx, obj)
	if err != nil {
		return err
	}
	for _, kid := range kids {
		objType, err := s.sess.ObjectType(ctx, kid)
		if err != nil {
			return err
		}
		if objType == types.ObjectFigGroup {
			if err := s.collectChildren(ctx, kid, out); err != nil {
				return err
			}
			continue
		}
		rod, err := s.sess.RodObject(ctx, kid)
		if err != nil {
			return err
		}
		*out = append(*out, &RodShape{DbShape: DbShape{sess: s.sess, db: kid}, rod: rod})
	}
	return nil
}
