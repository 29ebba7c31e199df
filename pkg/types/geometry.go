package types

import (
	"fmt"
	"math"
)

// Point is a location in the shared coordinate space of one cell view.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g %g)", p.X, p.Y)
}

// BoundingBox is an axis-aligned box given by its lower-left (Min) and
// upper-right (Max) corners.
type BoundingBox struct {
	Min Point
	Max Point
}

// NewBoundingBox builds a box from two opposite corners in any order.
func NewBoundingBox(a, b Point) BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Box is shorthand for NewBoundingBox(Point{x0, y0}, Point{x1, y1}).
func Box(x0, y0, x1, y1 float64) BoundingBox {
	return NewBoundingBox(Point{X: x0, Y: y0}, Point{X: x1, Y: y1})
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.Max.Y - b.Min.Y }

// Translate returns the box moved by d.
func (b BoundingBox) Translate(d Point) BoundingBox {
	return BoundingBox{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Anchor returns the point of the box designated by a.
// Returns ErrUnknownHandle when a is not one of the canonical anchors.
func (b BoundingBox) Anchor(a Anchor) (Point, error) {
	var x, y float64
	switch a.horizontal() {
	case partLeft:
		x = b.Min.X
	case partCenter:
		x = (b.Min.X + b.Max.X) / 2
	case partRight:
		x = b.Max.X
	default:
		return Point{}, fmt.Errorf("%w: %q", ErrUnknownHandle, string(a))
	}
	switch a.vertical() {
	case partLower:
		y = b.Min.Y
	case partCenter:
		y = (b.Min.Y + b.Max.Y) / 2
	case partUpper:
		y = b.Max.Y
	default:
		return Point{}, fmt.Errorf("%w: %q", ErrUnknownHandle, string(a))
	}
	return Point{X: x, Y: y}, nil
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%s %s)", b.Min, b.Max)
}

// Layer is a layer-purpose pair.
type Layer struct {
	Name    string
	Purpose string
}

func (l Layer) String() string {
	if l.Purpose == "" {
		return l.Name
	}
	return l.Name + "/" + l.Purpose
}

// MarkerLayer is the layer ghost marker rectangles are drawn on.
var MarkerLayer = Layer{Name: "M1", Purpose: "drawing"}

// Transform is one of the eight Manhattan orientations of a figure.
type Transform string

// Orientation constants, named as the remote database names them.
const (
	R0    Transform = "R0"
	R90   Transform = "R90"
	R180  Transform = "R180"
	R270  Transform = "R270"
	MX    Transform = "MX"
	MY    Transform = "MY"
	MXR90 Transform = "MXR90"
	MYR90 Transform = "MYR90"
)

// Identity is the transform that leaves every point in place.
const Identity = R0

// ParseTransform validates a transform name.
// Returns ErrInvalidTransform when name is not one of the eight orientations.
func ParseTransform(name string) (Transform, error) {
	t := Transform(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransform, name)
	}
	return t, nil
}

// Valid reports whether t is one of the eight orientations.
func (t Transform) Valid() bool {
	switch t {
	case R0, R90, R180, R270, MX, MY, MXR90, MYR90:
		return true
	}
	return false
}

// Apply maps p through the orientation about the origin.
// An invalid transform maps p to itself.
func (t Transform) Apply(p Point) Point {
	switch t {
	case R90:
		return Point{X: -p.Y, Y: p.X}
	case R180:
		return Point{X: -p.X, Y: -p.Y}
	case R270:
		return Point{X: p.Y, Y: -p.X}
	case MX:
		return Point{X: p.X, Y: -p.Y}
	case MY:
		return Point{X: -p.X, Y: p.Y}
	case MXR90:
		return Point{X: p.Y, Y: p.X}
	case MYR90:
		return Point{X: -p.Y, Y: -p.X}
	default:
		return p
	}
}

// ApplyBox maps both corners of b and renormalizes the result.
func (t Transform) ApplyBox(b BoundingBox) BoundingBox {
	return NewBoundingBox(t.Apply(b.Min), t.Apply(b.Max))
}
