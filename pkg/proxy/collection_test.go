package proxy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

func TestCollection_Container(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	b := l.rect(types.Box(2, 2, 3, 3))

	cv, err := NewCollection(l.rec, a, b).Container(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, l.cv, cv)
}

func TestCollection_ContainerMismatch(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	other := l.rectIn(l.cellView("other"), types.Box(0, 0, 1, 1))
	c := NewCollection(l.rec, a, other)

	_, err := c.Container(l.ctx)
	assert.ErrorIs(t, err, types.ErrContainerMismatch)

	_, err = c.BBox(l.ctx)
	assert.ErrorIs(t, err, types.ErrContainerMismatch)
	assert.Zero(t, l.rec.count("CreateGroup"), "no temporary group for a broken collection")

	_, err = NewCollectionIn(l.rec, l.cellView("other"), a).Container(l.ctx)
	assert.ErrorIs(t, err, types.ErrContainerMismatch, "declared cell view is checked too")
}

func TestCollection_ContainerCheckedOnEveryAccess(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	b := l.rect(types.Box(2, 2, 3, 3))
	c := NewCollection(l.rec, a, b)

	_, err := c.Container(l.ctx)
	require.NoError(t, err)

	require.NoError(t, b.Delete(l.ctx, false, false))
	_, err = c.Container(l.ctx)
	assert.ErrorIs(t, err, types.ErrObjectNotFound)
}

func TestCollection_Empty(t *testing.T) {
	l := newLayout(t)

	_, err := NewCollection(l.rec).Container(l.ctx)
	assert.ErrorIs(t, err, types.ErrEmptyCollection)

	empty := NewCollectionIn(l.rec, l.cv)
	cv, err := empty.Container(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, l.cv, cv)

	before := l.objects()
	box, err := empty.BBox(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, types.BoundingBox{}, box)
	assert.Equal(t, before, l.objects())
}

func TestCollection_ObjectIDsNested(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	b := l.rect(types.Box(2, 2, 3, 3))
	c := l.rect(types.Box(4, 4, 5, 5))

	nested := NewCollection(l.rec, a, NewCollection(l.rec, b, c))
	assert.Equal(t, []types.ObjectRef{a.DB(), b.DB(), c.DB()}, nested.ObjectIDs())
	assert.Equal(t, 2, nested.Len())
}

func TestCollection_Elements(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	c := NewCollection(l.rec, a)

	els := c.Elements()
	els[0] = nil
	assert.Equal(t, Shape(a), c.Elements()[0], "Elements returns a copy")
}

func TestCollection_BBox(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	b := l.rect(types.Box(4, -2, 6, 3))
	c := l.rect(types.Box(2, 2, 3, 7))
	before := l.objects()

	box, err := NewCollection(l.rec, a, NewCollection(l.rec, b, c)).BBox(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Box(0, -2, 6, 7), box)

	assert.Equal(t, before, l.objects(), "temporary group is gone")
	assert.Equal(t, []string{"Container", "Container", "Container", "CreateGroup",
		"AddToGroup", "AddToGroup", "AddToGroup", "BBox", "Delete:figGroup"}, l.rec.calls)

	for _, s := range []*RodShape{a, b, c} {
		ok, err := s.Valid(l.ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestCollection_BBoxReleasesOnFailure(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	before := l.objects()

	readErr := errors.New("read failed")
	l.rec.fail = map[string]error{"BBox": readErr}
	_, err := NewCollection(l.rec, a).BBox(l.ctx)
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, 1, l.rec.count("Delete:figGroup"))
	assert.Equal(t, before, l.objects())
}

func TestCollection_BBoxJoinsReleaseError(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))

	readErr := errors.New("read failed")
	delErr := errors.New("delete failed")
	l.rec.fail = map[string]error{"BBox": readErr, "Delete:figGroup": delErr}
	_, err := NewCollection(l.rec, a).BBox(l.ctx)
	assert.ErrorIs(t, err, readErr)
	assert.ErrorIs(t, err, delErr)
}
