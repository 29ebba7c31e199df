package proxy

import (
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// Handle pairs a shape with an anchor on one of its boxes. It is a small
// value; every accessor returns a re-bound copy, so handles chain.
//
//	ref := proxy.BBoxHandle(b).UpperRight()
//	coll, err := proxy.BBoxHandle(a).Align(ctx, map[string]proxy.Handle{"lower_left": ref}, opts)
type Handle struct {
	shape     Shape
	anchor    types.Anchor
	placement bool
}

// BBoxHandle addresses the drawn bounding box of shape. The anchor starts
// unset.
func BBoxHandle(shape Shape) Handle {
	return Handle{shape: shape}
}

// PlacementHandle addresses the placement boundary of shape. Only instances
// have one; aligning any other variant this way fails with
// ErrUnsupportedOperation.
func PlacementHandle(shape Shape) Handle {
	return Handle{shape: shape, placement: true}
}

func (h Handle) Shape() Shape         { return h.shape }
func (h Handle) Anchor() types.Anchor { return h.anchor }
func (h Handle) UsesPlacement() bool  { return h.placement }

// At re-binds the handle to the anchor named name.
// Returns ErrUnknownHandle for names the registry does not know.
func (h Handle) At(name string) (Handle, error) {
	a, err := types.ResolveHandle(name)
	if err != nil {
		return Handle{}, err
	}
	return h.with(a), nil
}

func (h Handle) with(a types.Anchor) Handle {
	h.anchor = a
	return h
}

func (h Handle) UpperLeft() Handle   { return h.with(types.AnchorUpperLeft) }
func (h Handle) UpperCenter() Handle { return h.with(types.AnchorUpperCenter) }
func (h Handle) UpperRight() Handle  { return h.with(types.AnchorUpperRight) }
func (h Handle) CenterLeft() Handle  { return h.with(types.AnchorCenterLeft) }
func (h Handle) Center() Handle      { return h.with(types.AnchorCenterCenter) }
func (h Handle) CenterRight() Handle { return h.with(types.AnchorCenterRight) }
func (h Handle) LowerLeft() Handle   { return h.with(types.AnchorLowerLeft) }
func (h Handle) LowerCenter() Handle { return h.with(types.AnchorLowerCenter) }
func (h Handle) LowerRight() Handle  { return h.with(types.AnchorLowerRight) }

// nativeRod returns the alignment handle the native primitive can move
// directly: a single alignable object addressed on its drawn box.
func (h Handle) nativeRod() (types.RodRef, bool) {
	if h.placement {
		return "", false
	}
	return rodOf(h.shape)
}
