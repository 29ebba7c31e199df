package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

func TestHandle_Accessors(t *testing.T) {
	h := BBoxHandle(nil)
	tests := []struct {
		got  Handle
		want types.Anchor
	}{
		{h.UpperLeft(), types.AnchorUpperLeft},
		{h.UpperCenter(), types.AnchorUpperCenter},
		{h.UpperRight(), types.AnchorUpperRight},
		{h.CenterLeft(), types.AnchorCenterLeft},
		{h.Center(), types.AnchorCenterCenter},
		{h.CenterRight(), types.AnchorCenterRight},
		{h.LowerLeft(), types.AnchorLowerLeft},
		{h.LowerCenter(), types.AnchorLowerCenter},
		{h.LowerRight(), types.AnchorLowerRight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got.Anchor())
	}
	assert.False(t, h.Anchor().IsSet(), "accessors return copies")
}

func TestHandle_At(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))

	h, err := PlacementHandle(r).At("top")
	require.NoError(t, err)
	assert.Equal(t, types.AnchorUpperCenter, h.Anchor())
	assert.True(t, h.UsesPlacement())
	assert.Same(t, r, h.Shape())

	h, err = h.At("center")
	require.NoError(t, err)
	assert.Equal(t, types.AnchorCenterCenter, h.Anchor())

	_, err = h.At("Upper_Left")
	assert.ErrorIs(t, err, types.ErrUnknownHandle)
}

func TestHandle_NativeRod(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))

	rod, ok := BBoxHandle(r).nativeRod()
	assert.True(t, ok)
	assert.Equal(t, r.Rod(), rod)

	_, ok = PlacementHandle(r).nativeRod()
	assert.False(t, ok, "placement boundary is never native")

	_, ok = BBoxHandle(NewDbShape(l.rec, r.DB())).nativeRod()
	assert.False(t, ok)
}
