package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

func TestKind(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))
	inst := l.instance("I0", types.Point{})

	tests := []struct {
		name   string
		shape  Shape
		kind   Kind
		native bool
	}{
		{"db", NewDbShape(l.rec, r.DB()), KindDb, false},
		{"rod", r, KindRod, true},
		{"instance", inst, KindInstance, true},
		{"collection", NewCollection(l.rec, r), KindCollection, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.shape.Kind())
			assert.Equal(t, tt.native, tt.shape.NativeAlignable())
			assert.Equal(t, tt.name, tt.shape.Kind().String())
		})
	}
}

func TestObjectIDs_Single(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))
	assert.Equal(t, []types.ObjectRef{r.DB()}, r.ObjectIDs())
}

func TestPlacementBoundary_Unsupported(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))

	for _, s := range []Shape{r, NewDbShape(l.rec, r.DB()), NewCollection(l.rec, r)} {
		_, err := s.PlacementBoundary(l.ctx)
		assert.ErrorIs(t, err, types.ErrUnsupportedOperation, s.Kind().String())
	}
}

func TestInstance_PlacementBoundary(t *testing.T) {
	l := newLayout(t)
	inst := l.instance("I0", types.Point{X: 100, Y: 100})

	assert.Equal(t, types.Box(100, 100, 108, 108), l.bbox(inst))
	boundary, err := inst.PlacementBoundary(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Box(99, 97, 107, 105), boundary)
}

func TestInstance_NoBoundary(t *testing.T) {
	l := newLayout(t)
	bare := l.cellView("bare")
	_, err := l.db.CreateRect(l.ctx, bare, drawing, types.Box(0, 0, 2, 2))
	require.NoError(t, err)
	_, err = l.db.CreateInstance(l.ctx, l.cv, bare, "B0", types.Point{}, types.R0)
	require.NoError(t, err)

	inst, err := InstanceFromName(l.ctx, l.rec, l.cv, "B0")
	require.NoError(t, err)
	_, err = inst.PlacementBoundary(l.ctx)
	assert.ErrorIs(t, err, types.ErrNoPlacementBoundary)

	master, err := inst.Master(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, bare, master)
}

func TestInstanceFromName_Missing(t *testing.T) {
	l := newLayout(t)
	_, err := InstanceFromName(l.ctx, l.rec, l.cv, "nope")
	assert.ErrorIs(t, err, types.ErrInstanceNotFound)
}

func TestRodShapeOf(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))

	again, err := RodShapeOf(l.ctx, l.rec, r.DB())
	require.NoError(t, err)
	assert.Equal(t, r.Rod(), again.Rod())

	g := l.group(r)
	_, err = RodShapeOf(l.ctx, l.rec, g.DB())
	assert.ErrorIs(t, err, types.ErrNotAlignable)
}

func TestRodShape_Copy(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(1, 2, 3, 5))

	dup, err := r.Copy(l.ctx, types.Point{X: 10}, types.R90)
	require.NoError(t, err)
	assert.NotEqual(t, r.DB(), dup.DB())
	assert.NotEmpty(t, dup.Rod(), "copy is registered as alignable")
	assert.Equal(t, 1, l.rec.count("NameShape"))
	assert.Equal(t, types.Box(5, 1, 8, 3), l.bbox(dup))
	assert.Equal(t, types.Box(1, 2, 3, 5), l.bbox(r))
}

func TestDbShape_Copy(t *testing.T) {
	l := newLayout(t)
	g := l.group(l.rect(types.Box(0, 0, 1, 1)), l.rect(types.Box(2, 2, 3, 3)))

	dup, err := g.Copy(l.ctx, types.Point{Y: 10}, types.Identity)
	require.NoError(t, err)
	assert.Equal(t, KindDb, dup.Kind())
	assert.Equal(t, types.Box(0, 10, 3, 13), l.bbox(dup))
	assert.Zero(t, l.rec.count("NameShape"))
}

func TestInstance_Copy(t *testing.T) {
	l := newLayout(t)
	inst := l.instance("I0", types.Point{})

	dup, err := inst.Copy(l.ctx, types.Point{X: 20}, types.R0)
	require.NoError(t, err)
	assert.Equal(t, KindInstance, dup.Kind())
	assert.Equal(t, types.Box(20, 0, 28, 8), l.bbox(dup))

	boundary, err := dup.PlacementBoundary(l.ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Box(19, -3, 27, 5), boundary)
}

func TestDbShape_Children(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	b := l.rect(types.Box(2, 2, 3, 3))
	c := l.rect(types.Box(4, 4, 5, 5))
	inner := l.group(b, c)
	outer := l.group(a, inner)

	kids, err := outer.Children(l.ctx)
	require.NoError(t, err)
	require.Len(t, kids, 3)
	assert.Equal(t, []types.RodRef{a.Rod(), b.Rod(), c.Rod()}, []types.RodRef{kids[0].Rod(), kids[1].Rod(), kids[2].Rod()})

	kids, err = a.Children(l.ctx)
	require.NoError(t, err)
	assert.Empty(t, kids)
}

func TestDbShape_Delete(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	b := l.rect(types.Box(2, 2, 3, 3))
	inner := l.group(b)
	outer := l.group(a, inner)
	require.Equal(t, 4, l.objects())

	require.NoError(t, outer.Delete(l.ctx, true, true))
	assert.Zero(t, l.objects())
	assert.Equal(t, 1, l.db.Redraws())
	assert.Equal(t, []string{"Delete:rect", "Delete:rect", "Delete:figGroup", "Delete:figGroup"}, l.rec.calls,
		"children are deleted deepest first")

	ok, err := outer.Valid(l.ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDbShape_DeleteKeepsMembers(t *testing.T) {
	l := newLayout(t)
	a := l.rect(types.Box(0, 0, 1, 1))
	g := l.group(a)

	require.NoError(t, g.Delete(l.ctx, false, false))
	assert.Zero(t, l.db.Redraws())
	ok, err := a.Valid(l.ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDbShape_String(t *testing.T) {
	l := newLayout(t)
	r := l.rect(types.Box(0, 0, 1, 1))
	assert.Equal(t, "rect@"+string(r.DB()), r.String())

	require.NoError(t, r.Delete(l.ctx, false, false))
	assert.Equal(t, "invalid@"+string(r.DB()), r.String())
}
