// Package proxy provides lightweight proxies over shapes owned by a remote
// layout session and aligns them against each other.
//
// Four variants share the Shape contract: DbShape (a plain database object),
// RodShape (an object with an alignment handle), Instance (a placed master)
// and FigureCollection (a local, uncommitted grouping of other shapes).
// Proxies never cache geometry; every query goes back to the session.
package proxy

import (
	"context"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// Kind tags the variant behind a Shape.
type Kind int

const (
	KindDb Kind = iota
	KindRod
	KindInstance
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindDb:
		return "db"
	case KindRod:
		return "rod"
	case KindInstance:
		return "instance"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Shape is the capability set every proxy variant provides. The set of
// implementations is closed to this package.
type Shape interface {
	// Kind reports the variant.
	Kind() Kind

	// NativeAlignable reports whether the shape is a single object the
	// native alignment primitive can move directly.
	NativeAlignable() bool

	// Container returns the cell view the shape lives in.
	Container(ctx context.Context) (types.ContainerRef, error)

	// BBox returns the drawn bounding box.
	BBox(ctx context.Context) (types.BoundingBox, error)

	// PlacementBoundary returns the placement boundary box.
	// Returns ErrUnsupportedOperation for every variant but Instance.
	PlacementBoundary(ctx context.Context) (types.BoundingBox, error)

	// ObjectIDs returns every database object reachable from the shape,
	// depth first in element order.
	ObjectIDs() []types.ObjectRef

	session() types.Session
}

// rodOf returns the alignment handle of a natively alignable shape.
func rodOf(s Shape) (types.RodRef, bool) {
	switch v := s.(type) {
	case *RodShape:
		return v.rod, true
	case *Instance:
		return v.rod, true
	}
	return "", false
}
