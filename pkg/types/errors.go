package types

import "errors"

// Alignment contract errors. These are detected locally before any remote
// state is mutated.
var (
	ErrUnknownHandle           = errors.New("unknown alignment handle")
	ErrUnsupportedOperation    = errors.New("operation not supported by this shape")
	ErrInvalidAlignmentRequest = errors.New("invalid alignment request")
	ErrIncompatibleAlignment   = errors.New("maintained alignment not possible for these shapes")
	ErrContainerMismatch       = errors.New("collection elements live in different cell views")
	ErrEmptyCollection         = errors.New("empty collection has no cell view")
)

// Remote database errors returned by Session implementations.
var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrContainerNotFound   = errors.New("cell view not found")
	ErrInstanceNotFound    = errors.New("instance not found")
	ErrNotAlignable        = errors.New("object has no alignment handle")
	ErrMaintainUnsupported = errors.New("maintained alignment unsupported for these objects")
	ErrNotAGroup           = errors.New("object is not a figure group")
	ErrInvalidTransform    = errors.New("invalid transform")
	ErrNoPlacementBoundary = errors.New("cell view has no placement boundary")
	ErrSessionDetached     = errors.New("session is detached")
)
