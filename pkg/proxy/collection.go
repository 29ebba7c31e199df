package proxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// FigureCollection is a local grouping of shapes with no identity in the
// session. All elements must live in the same cell view.
//
// The collection owns its element list, not the objects behind it.
type FigureCollection struct {
	sess     types.Session
	cv       types.ContainerRef
	elements []Shape
}

// NewCollection groups elements. The cell view is derived from the elements
// on every access.
func NewCollection(sess types.Session, elements ...Shape) *FigureCollection {
	return &FigureCollection{sess: sess, elements: append([]Shape(nil), elements...)}
}

// NewCollectionIn groups elements declared to live in cv. An empty
// collection built this way still has a cell view.
func NewCollectionIn(sess types.Session, cv types.ContainerRef, elements ...Shape) *FigureCollection {
	c := NewCollection(sess, elements...)
	c.cv = cv
	return c
}

func (c *FigureCollection) Kind() Kind             { return KindCollection }
func (c *FigureCollection) NativeAlignable() bool  { return false }
func (c *FigureCollection) session() types.Session { return c.sess }

// Elements returns a copy of the element list.
func (c *FigureCollection) Elements() []Shape {
	return append([]Shape(nil), c.elements...)
}

// Len returns the number of direct elements.
func (c *FigureCollection) Len() int { return len(c.elements) }

// Container returns the cell view shared by every element.
// Returns ErrContainerMismatch when elements disagree and ErrEmptyCollection
// when there is nothing to derive the cell view from.
func (c *FigureCollection) Container(ctx context.Context) (types.ContainerRef, error) {
	cv := c.cv
	for i, el := range c.elements {
		elCV, err := el.Container(ctx)
		if err != nil {
			return "", err
		}
		if cv == "" {
			cv = elCV
			continue
		}
		if elCV != cv {
			return "", fmt.Errorf("element %d in %s, expected %s: %w", i, elCV, cv, types.ErrContainerMismatch)
		}
	}
	if cv == "" {
		return "", types.ErrEmptyCollection
	}
	return cv, nil
}

// ObjectIDs flattens nested collections depth first, in element order.
func (c *FigureCollection) ObjectIDs() []types.ObjectRef {
	var ids []types.ObjectRef
	for _, el := range c.elements {
		ids = append(ids, el.ObjectIDs()...)
	}
	return ids
}

// BBox returns the box drawn by every object in the collection. The session
// computes it through a temporary figure group that is always deleted.
func (c *FigureCollection) BBox(ctx context.Context) (box types.BoundingBox, err error) {
	cv, err := c.Container(ctx)
	if err != nil {
		return types.BoundingBox{}, err
	}
	group, err := c.sess.CreateGroup(ctx, cv, types.Point{}, types.Identity)
	if err != nil {
		return types.BoundingBox{}, fmt.Errorf("create bbox group: %w", err)
	}
	log.Debug().Str("component", "collection").Str("group", string(group)).Msg("bbox group created")
	defer func() {
		if delErr := c.sess.Delete(ctx, group); delErr != nil {
			err = errors.Join(err, fmt.Errorf("delete bbox group %s: %w", group, delErr))
		}
	}()

	for _, id := range c.ObjectIDs() {
		if err := c.sess.AddToGroup(ctx, group, id); err != nil {
			return types.BoundingBox{}, fmt.Errorf("add %s to bbox group: %w", id, err)
		}
	}
	box, err = c.sess.BBox(ctx, group)
	if err != nil {
		return types.BoundingBox{}, fmt.Errorf("read bbox group: %w", err)
	}
	return box, nil
}

func (c *FigureCollection) PlacementBoundary(ctx context.Context) (types.BoundingBox, error) {
	return types.BoundingBox{}, fmt.Errorf("placement boundary of collection: %w", types.ErrUnsupportedOperation)
}
