package proxy

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// Instance is a proxy to a placed occurrence of a master cell view.
type Instance struct {
	RodShape
}

// InstanceFromName looks up the instance called name in cv.
func InstanceFromName(ctx context.Context, sess types.Session, cv types.ContainerRef, name string) (*Instance, error) {
	db, err := sess.FindInstance(ctx, cv, name)
	if err != nil {
		return nil, fmt.Errorf("find instance %q: %w", name, err)
	}
	return InstanceOf(ctx, sess, db)
}

// InstanceOf wraps an existing instance object.
func InstanceOf(ctx context.Context, sess types.Session, db types.ObjectRef) (*Instance, error) {
	rod, err := sess.RodObject(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("resolve rod of %s: %w", db, err)
	}
	return &Instance{RodShape: RodShape{DbShape: DbShape{sess: sess, db: db}, rod: rod}}, nil
}

func (s *Instance) Kind() Kind { return KindInstance }

// Master returns the cell view this instance places.
func (s *Instance) Master(ctx context.Context) (types.ContainerRef, error) {
	return s.sess.InstanceMaster(ctx, s.db)
}

// PlacementBoundary returns the master's placement boundary moved into the
// instance's frame: the master bounding box origin maps onto the instance
// bounding box origin.
func (s *Instance) PlacementBoundary(ctx context.Context) (types.BoundingBox, error) {
	master, err := s.Master(ctx)
	if err != nil {
		return types.BoundingBox{}, err
	}
	boundary, err := s.sess.PlacementBoundary(ctx, master)
	if err != nil {
		return types.BoundingBox{}, fmt.Errorf("placement boundary of %s: %w", master, err)
	}
	masterBox, err := s.sess.ContainerBBox(ctx, master)
	if err != nil {
		return types.BoundingBox{}, err
	}
	instBox, err := s.BBox(ctx)
	if err != nil {
		return types.BoundingBox{}, err
	}
	return boundary.Translate(instBox.Min.Sub(masterBox.Min)), nil
}

// Copy duplicates the instance and registers the duplicate as alignable.
func (s *Instance) Copy(ctx context.Context, translate types.Point, transform types.Transform) (*Instance, error) {
	rod, err := s.RodShape.Copy(ctx, translate, transform)
	if err != nil {
		return nil, err
	}
	return &Instance{RodShape: *rod}, nil
}
