package proxy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rodlayout/internal/sqlite"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

var drawing = types.Layer{Name: "M2", Purpose: "drawing"}

// recordingSession logs the calls the proxies make and fails the ones named
// in fail.
type recordingSession struct {
	types.Session
	calls []string
	fail  map[string]error
}

func (r *recordingSession) record(call string) error {
	r.calls = append(r.calls, call)
	return r.fail[call]
}

func (r *recordingSession) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recordingSession) reset() { r.calls = nil }

func (r *recordingSession) BBox(ctx context.Context, obj types.ObjectRef) (types.BoundingBox, error) {
	if err := r.record("BBox"); err != nil {
		return types.BoundingBox{}, err
	}
	return r.Session.BBox(ctx, obj)
}

func (r *recordingSession) Container(ctx context.Context, obj types.ObjectRef) (types.ContainerRef, error) {
	if err := r.record("Container"); err != nil {
		return "", err
	}
	return r.Session.Container(ctx, obj)
}

func (r *recordingSession) PlacementBoundary(ctx context.Context, cv types.ContainerRef) (types.BoundingBox, error) {
	if err := r.record("PlacementBoundary"); err != nil {
		return types.BoundingBox{}, err
	}
	return r.Session.PlacementBoundary(ctx, cv)
}

func (r *recordingSession) CreateRect(ctx context.Context, cv types.ContainerRef, layer types.Layer, box types.BoundingBox) (types.RodRef, error) {
	if err := r.record("CreateRect"); err != nil {
		return "", err
	}
	return r.Session.CreateRect(ctx, cv, layer, box)
}

func (r *recordingSession) CreateGroup(ctx context.Context, cv types.ContainerRef, offset types.Point, transform types.Transform) (types.ObjectRef, error) {
	if err := r.record("CreateGroup"); err != nil {
		return "", err
	}
	return r.Session.CreateGroup(ctx, cv, offset, transform)
}

func (r *recordingSession) AddToGroup(ctx context.Context, group, obj types.ObjectRef) error {
	if err := r.record("AddToGroup"); err != nil {
		return err
	}
	return r.Session.AddToGroup(ctx, group, obj)
}

// Delete records the type of the deleted object.
func (r *recordingSession) Delete(ctx context.Context, obj types.ObjectRef) error {
	objType, err := r.Session.ObjectType(ctx, obj)
	if err != nil {
		objType = "missing"
	}
	if err := r.record("Delete:" + objType); err != nil {
		return err
	}
	return r.Session.Delete(ctx, obj)
}

func (r *recordingSession) DeleteRod(ctx context.Context, rod types.RodRef) error {
	if err := r.record("DeleteRod"); err != nil {
		return err
	}
	return r.Session.DeleteRod(ctx, rod)
}

// RodDB fails when named in fail but is not recorded; every proxy resolves
// rods through it.
func (r *recordingSession) RodDB(ctx context.Context, rod types.RodRef) (types.ObjectRef, error) {
	if err := r.fail["RodDB"]; err != nil {
		return "", err
	}
	return r.Session.RodDB(ctx, rod)
}

func (r *recordingSession) Align(ctx context.Context, req types.AlignRequest) error {
	if err := r.record("Align"); err != nil {
		return err
	}
	return r.Session.Align(ctx, req)
}

func (r *recordingSession) NameShape(ctx context.Context, obj types.ObjectRef) (types.RodRef, error) {
	if err := r.record("NameShape"); err != nil {
		return "", err
	}
	return r.Session.NameShape(ctx, obj)
}

// layout is a cell view in a fresh simulated database.
type layout struct {
	t   *testing.T
	ctx context.Context
	db  *sqlite.Backend
	rec *recordingSession
	cv  types.ContainerRef
}

func newLayout(t *testing.T) *layout {
	t.Helper()
	db := sqlite.NewBackend()
	require.NoError(t, db.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { db.Detach() })

	ctx := context.Background()
	cv, err := db.OpenCellView(ctx, "proxy_test", "top", "layout")
	require.NoError(t, err)
	return &layout{t: t, ctx: ctx, db: db, rec: &recordingSession{Session: db}, cv: cv}
}

func (l *layout) cellView(cell string) types.ContainerRef {
	l.t.Helper()
	cv, err := l.db.OpenCellView(l.ctx, "proxy_test", cell, "layout")
	require.NoError(l.t, err)
	return cv
}

// rectIn draws a rectangle in cv and wraps it without recording.
func (l *layout) rectIn(cv types.ContainerRef, box types.BoundingBox) *RodShape {
	l.t.Helper()
	rod, err := l.db.CreateRect(l.ctx, cv, drawing, box)
	require.NoError(l.t, err)
	s, err := NewRodShape(l.ctx, l.rec, rod)
	require.NoError(l.t, err)
	l.rec.reset()
	return s
}

func (l *layout) rect(box types.BoundingBox) *RodShape {
	l.t.Helper()
	return l.rectIn(l.cv, box)
}

// group puts shapes into a new figure group.
func (l *layout) group(shapes ...Shape) *DbShape {
	l.t.Helper()
	g, err := l.db.CreateGroup(l.ctx, l.cv, types.Point{}, types.Identity)
	require.NoError(l.t, err)
	for _, s := range shapes {
		for _, id := range s.ObjectIDs() {
			require.NoError(l.t, l.db.AddToGroup(l.ctx, g, id))
		}
	}
	return NewDbShape(l.rec, g)
}

func (l *layout) bbox(s Shape) types.BoundingBox {
	l.t.Helper()
	box, err := s.BBox(l.ctx)
	require.NoError(l.t, err)
	return box
}

func (l *layout) objects() int {
	l.t.Helper()
	n, err := l.db.Count(l.ctx)
	require.NoError(l.t, err)
	return n
}

// instance places a master holding one rect (0,0)-(8,8) with placement
// boundary (-1,-3)-(7,5) at origin.
func (l *layout) instance(name string, origin types.Point) *Instance {
	l.t.Helper()
	master := l.cellView("master")
	if _, err := l.db.PlacementBoundary(l.ctx, master); err != nil {
		_, err := l.db.CreateRect(l.ctx, master, drawing, types.Box(0, 0, 8, 8))
		require.NoError(l.t, err)
		require.NoError(l.t, l.db.SetPlacementBoundary(l.ctx, master, types.Box(-1, -3, 7, 5)))
	}
	_, err := l.db.CreateInstance(l.ctx, l.cv, master, name, origin, types.R0)
	require.NoError(l.t, err)
	inst, err := InstanceFromName(l.ctx, l.rec, l.cv, name)
	require.NoError(l.t, err)
	l.rec.reset()
	return inst
}
