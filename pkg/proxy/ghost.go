package proxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// WithGhost presents any shape to the native alignment primitive as a single
// alignable object.
//
// A marker rectangle covering the shape's box (or its placement boundary
// when placement is set) is drawn on types.MarkerLayer in cv and grouped
// with every object of the shape. fn receives the marker's handle; moving
// the marker moves the group and therefore the shape. The group and then the
// marker are deleted on every exit path. Deleting the group leaves its
// members in place.
func WithGhost(ctx context.Context, sess types.Session, cv types.ContainerRef, shape Shape, placement bool, fn func(ghost types.RodRef) error) (err error) {
	var box types.BoundingBox
	if placement {
		box, err = shape.PlacementBoundary(ctx)
	} else {
		box, err = shape.BBox(ctx)
	}
	if err != nil {
		return err
	}

	marker, err := sess.CreateRect(ctx, cv, types.MarkerLayer, box)
	if err != nil {
		return fmt.Errorf("create ghost marker: %w", err)
	}
	markerDB, err := sess.RodDB(ctx, marker)
	if err != nil {
		err = fmt.Errorf("resolve ghost marker: %w", err)
		if delErr := sess.DeleteRod(ctx, marker); delErr != nil {
			err = errors.Join(err, fmt.Errorf("delete ghost marker %s: %w", marker, delErr))
		}
		return err
	}
	logger := log.With().Str("component", "ghost").Str("marker", string(markerDB)).Logger()
	defer func() {
		if delErr := sess.Delete(ctx, markerDB); delErr != nil {
			err = errors.Join(err, fmt.Errorf("delete ghost marker %s: %w", markerDB, delErr))
		}
		logger.Debug().Msg("ghost marker released")
	}()

	group, err := sess.CreateGroup(ctx, cv, types.Point{}, types.Identity)
	if err != nil {
		return fmt.Errorf("create ghost group: %w", err)
	}
	logger = logger.With().Str("group", string(group)).Logger()
	defer func() {
		if delErr := sess.Delete(ctx, group); delErr != nil {
			err = errors.Join(err, fmt.Errorf("delete ghost group %s: %w", group, delErr))
		}
		logger.Debug().Msg("ghost group released")
	}()

	if err := sess.AddToGroup(ctx, group, markerDB); err != nil {
		return fmt.Errorf("add ghost marker: %w", err)
	}
	for _, id := range shape.ObjectIDs() {
		if err := sess.AddToGroup(ctx, group, id); err != nil {
			return fmt.Errorf("add %s to ghost group: %w", id, err)
		}
	}
	logger.Debug().Str("box", box.String()).Msg("ghost acquired")

	return fn(marker)
}
