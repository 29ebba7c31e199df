package proxy

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// AlignOptions tune an alignment.
type AlignOptions struct {
	// XSep and YSep offset the aligned anchor from the reference anchor, in
	// the sign convention of the native primitive.
	XSep float64
	YSep float64

	// Maintain asks the session to keep the alignment live. Only possible
	// between two alignable single objects on their drawn boxes.
	Maintain bool
}

// Align aligns this handle's shape to a reference. refs must hold exactly one
// entry: the key names the anchor on this shape, the value is the reference
// handle with its anchor set.
//
//	proxy.BBoxHandle(a).Align(ctx, map[string]proxy.Handle{
//		"center_left": proxy.BBoxHandle(b).CenterRight(),
//	}, proxy.AlignOptions{XSep: 2})
//
// The result is a collection of the aligned shape followed by the reference
// shape.
func (h Handle) Align(ctx context.Context, refs map[string]Handle, opts AlignOptions) (*FigureCollection, error) {
	if len(refs) != 1 {
		names := make([]string, 0, len(refs))
		for name := range refs {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: want exactly one reference anchor, got %d %v", types.ErrInvalidAlignmentRequest, len(refs), names)
	}
	var (
		name string
		ref  Handle
	)
	for name, ref = range refs {
	}
	self, err := h.At(name)
	if err != nil {
		return nil, err
	}
	return self.AlignTo(ctx, ref, opts)
}

// AlignTo aligns this handle's anchor onto ref's anchor. Both anchors must be
// set.
//
// Two alignable single objects addressed on their drawn boxes are aligned
// directly. Any other pairing goes through a ghost shape on each side and is
// never maintained.
func (h Handle) AlignTo(ctx context.Context, ref Handle, opts AlignOptions) (*FigureCollection, error) {
	if h.shape == nil || ref.shape == nil {
		return nil, fmt.Errorf("%w: handle has no shape", types.ErrInvalidAlignmentRequest)
	}
	if !ref.anchor.IsSet() {
		return nil, fmt.Errorf("%w: reference anchor is unset", types.ErrInvalidAlignmentRequest)
	}
	if !h.anchor.IsSet() {
		return nil, fmt.Errorf("%w: anchor is unset", types.ErrInvalidAlignmentRequest)
	}

	alignRod, alignNative := h.nativeRod()
	refRod, refNative := ref.nativeRod()
	if opts.Maintain && !(alignNative && refNative) {
		return nil, fmt.Errorf("%w: %s and %s (placement %t/%t)", types.ErrIncompatibleAlignment,
			h.shape.Kind(), ref.shape.Kind(), h.placement, ref.placement)
	}

	sess := h.shape.session()
	req := types.AlignRequest{
		AlignAnchor: h.anchor,
		RefAnchor:   ref.anchor,
		Separation:  types.Point{X: opts.XSep, Y: opts.YSep},
	}
	logger := log.With().Str("component", "align").
		Str("anchor", string(h.anchor)).Str("ref_anchor", string(ref.anchor)).Logger()

	if alignNative && refNative {
		req.Align, req.Ref, req.Maintain = alignRod, refRod, opts.Maintain
		logger.Debug().Bool("maintain", opts.Maintain).Msg("native align")
		if err := sess.Align(ctx, req); err != nil {
			return nil, fmt.Errorf("align: %w", err)
		}
		return NewCollection(sess, h.shape, ref.shape), nil
	}

	cv, err := h.shape.Container(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("kind", h.shape.Kind().String()).Str("ref_kind", ref.shape.Kind().String()).Msg("ghost align")
	err = WithGhost(ctx, sess, cv, h.shape, h.placement, func(alignGhost types.RodRef) error {
		return WithGhost(ctx, sess, cv, ref.shape, ref.placement, func(refGhost types.RodRef) error {
			req.Align, req.Ref = alignGhost, refGhost
			if err := sess.Align(ctx, req); err != nil {
				return fmt.Errorf("align ghosts: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return NewCollection(sess, h.shape, ref.shape), nil
}
