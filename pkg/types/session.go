package types

import "context"

// ObjectRef identifies a database object (figure, group, instance) owned by
// the remote session.
type ObjectRef string

// ContainerRef identifies a cell view.
type ContainerRef string

// RodRef identifies the alignment-capable handle of a database object.
type RodRef string

// Object types reported by Session.ObjectType.
const (
	ObjectRect     = "rect"
	ObjectFigGroup = "figGroup"
	ObjectInstance = "inst"
)

// AlignRequest carries the arguments of the native alignment primitive.
// The object behind Align is moved so that its AlignAnchor point coincides
// with the RefAnchor point of Ref, offset by Separation.
type AlignRequest struct {
	Align       RodRef
	AlignAnchor Anchor
	Ref         RodRef
	RefAnchor   Anchor
	Separation  Point
	Maintain    bool
}

// Session is the remote layout database as seen by the alignment layer.
// Every call is a blocking round trip; ctx is handed to the transport.
//
// Implementations must dissolve, not destroy, a group when it is deleted:
// members outlive the group. Aligning an object moves the outermost group
// containing it, so moving a grouped member carries its group along.
type Session interface {
	// ObjectType returns one of the Object* constants for obj.
	ObjectType(ctx context.Context, obj ObjectRef) (string, error)

	// Container returns the cell view obj lives in.
	Container(ctx context.Context, obj ObjectRef) (ContainerRef, error)

	// BBox returns the drawn bounding box of obj.
	BBox(ctx context.Context, obj ObjectRef) (BoundingBox, error)

	// Valid reports whether obj still exists.
	Valid(ctx context.Context, obj ObjectRef) (bool, error)

	// Children returns the direct members of a group in insertion order.
	// Non-group objects have no children.
	Children(ctx context.Context, obj ObjectRef) ([]ObjectRef, error)

	// InstanceMaster returns the master cell view an instance places.
	InstanceMaster(ctx context.Context, inst ObjectRef) (ContainerRef, error)

	// ContainerBBox returns the bounding box of everything drawn in cv.
	ContainerBBox(ctx context.Context, cv ContainerRef) (BoundingBox, error)

	// PlacementBoundary returns the placement boundary declared in cv,
	// in cv's own coordinates.
	PlacementBoundary(ctx context.Context, cv ContainerRef) (BoundingBox, error)

	// CreateRect draws a rectangle and returns its alignment handle.
	CreateRect(ctx context.Context, cv ContainerRef, layer Layer, box BoundingBox) (RodRef, error)

	// CreateGroup creates an empty figure group.
	CreateGroup(ctx context.Context, cv ContainerRef, offset Point, transform Transform) (ObjectRef, error)

	// AddToGroup adds obj to group by reference.
	AddToGroup(ctx context.Context, group, obj ObjectRef) error

	// CopyFigure duplicates obj into cv, applying transform then translate.
	CopyFigure(ctx context.Context, obj ObjectRef, cv ContainerRef, translate Point, transform Transform) (ObjectRef, error)

	// Move translates obj by offset.
	Move(ctx context.Context, obj ObjectRef, offset Point) error

	// Delete removes obj. Group members are not deleted.
	Delete(ctx context.Context, obj ObjectRef) error

	// DeleteRod removes the figure rod names.
	DeleteRod(ctx context.Context, rod RodRef) error

	// Redraw refreshes the views showing the session's cell views.
	Redraw(ctx context.Context) error

	// NameShape registers obj as alignment-capable and returns its handle.
	NameShape(ctx context.Context, obj ObjectRef) (RodRef, error)

	// Align runs the native alignment primitive.
	Align(ctx context.Context, req AlignRequest) error

	// FindInstance looks up a placed instance by name within cv.
	FindInstance(ctx context.Context, cv ContainerRef, name string) (ObjectRef, error)

	// RodObject resolves the alignment handle of obj.
	// Returns ErrNotAlignable when obj has none.
	RodObject(ctx context.Context, obj ObjectRef) (RodRef, error)

	// RodDB returns the database object behind an alignment handle.
	RodDB(ctx context.Context, rod RodRef) (ObjectRef, error)
}
