package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// object is one row of the objects table.
type object struct {
	id      types.ObjectRef
	cv      types.ContainerRef
	objType string
	name    string
	layer   types.Layer
	box     types.BoundingBox
	master  types.ContainerRef
	orient  types.Transform
	rod     types.RodRef
}

// Object is the public description of a database object.
type Object struct {
	ID     types.ObjectRef
	Type   string
	Name   string
	Layer  types.Layer
	BBox   types.BoundingBox
	Master types.ContainerRef
	Rod    types.RodRef
}

const objectColumns = "obj_id, cv_id, obj_type, name, layer, purpose, x0, y0, x1, y1, master_id, orient, rod_id"

func scanObject(row scanner) (object, error) {
	var (
		o                 object
		id, cv, orient    string
		name, master, rod sql.NullString
		x0, y0, x1, y1    float64
	)
	if err := row.Scan(&id, &cv, &o.objType, &name, &o.layer.Name, &o.layer.Purpose,
		&x0, &y0, &x1, &y1, &master, &orient, &rod); err != nil {
		return object{}, err
	}
	o.id = types.ObjectRef(id)
	o.cv = types.ContainerRef(cv)
	o.name = name.String
	o.box = types.Box(x0, y0, x1, y1)
	o.master = types.ContainerRef(master.String)
	o.orient = types.Transform(orient)
	o.rod = types.RodRef(rod.String)
	return o, nil
}

func (b *Backend) object(ctx context.Context, id types.ObjectRef) (object, error) {
	row := b.db.QueryRowContext(ctx, "SELECT "+objectColumns+" FROM objects WHERE obj_id = ?", string(id))
	o, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return object{}, fmt.Errorf("%s: %w", id, types.ErrObjectNotFound)
	}
	return o, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (b *Backend) insertObject(ctx context.Context, o object) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO objects ("+objectColumns+", seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, "+
			"(SELECT COALESCE(MAX(seq), 0) + 1 FROM objects))",
		string(o.id), string(o.cv), o.objType, nullable(o.name), o.layer.Name, o.layer.Purpose,
		o.box.Min.X, o.box.Min.Y, o.box.Max.X, o.box.Max.Y,
		nullable(string(o.master)), string(o.orient), nullable(string(o.rod)))
	return err
}

// ObjectType returns the type of obj.
func (b *Backend) ObjectType(ctx context.Context, obj types.ObjectRef) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	o, err := b.object(ctx, obj)
	if err != nil {
		return "", err
	}
	return o.objType, nil
}

// Container returns the cell view obj lives in.
func (b *Backend) Container(ctx context.Context, obj types.ObjectRef) (types.ContainerRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	o, err := b.object(ctx, obj)
	if err != nil {
		return "", err
	}
	return o.cv, nil
}

// Valid reports whether obj exists.
func (b *Backend) Valid(ctx context.Context, obj types.ObjectRef) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return false, err
	}
	var n int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM objects WHERE obj_id = ?", string(obj)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// BBox returns the box of a leaf, or the union of a group's members. An
// empty group has a zero-size box at its offset.
func (b *Backend) BBox(ctx context.Context, obj types.ObjectRef) (types.BoundingBox, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return types.BoundingBox{}, err
	}
	o, err := b.object(ctx, obj)
	if err != nil {
		return types.BoundingBox{}, err
	}
	box, ok, err := b.bbox(ctx, o, map[types.ObjectRef]bool{})
	if err != nil {
		return types.BoundingBox{}, err
	}
	if !ok {
		return types.BoundingBox{Min: o.box.Min, Max: o.box.Min}, nil
	}
	return box, nil
}

// bbox reports ok=false for groups with nothing drawn beneath them.
func (b *Backend) bbox(ctx context.Context, o object, seen map[types.ObjectRef]bool) (types.BoundingBox, bool, error) {
	if o.objType != types.ObjectFigGroup {
		return o.box, true, nil
	}
	if seen[o.id] {
		return types.BoundingBox{}, false, nil
	}
	seen[o.id] = true

	members, err := b.members(ctx, o.id)
	if err != nil {
		return types.BoundingBox{}, false, err
	}
	var (
		out   types.BoundingBox
		found bool
	)
	for _, id := range members {
		m, err := b.object(ctx, id)
		if err != nil {
			return types.BoundingBox{}, false, err
		}
		box, ok, err := b.bbox(ctx, m, seen)
		if err != nil {
			return types.BoundingBox{}, false, err
		}
		if !ok {
			continue
		}
		if !found {
			out, found = box, true
			continue
		}
		out = out.Union(box)
	}
	return out, found, nil
}

// Children returns the members of a group in insertion order.
func (b *Backend) Children(ctx context.Context, obj types.ObjectRef) ([]types.ObjectRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	o, err := b.object(ctx, obj)
	if err != nil {
		return nil, err
	}
	if o.objType != types.ObjectFigGroup {
		return nil, nil
	}
	return b.members(ctx, obj)
}

func (b *Backend) members(ctx context.Context, group types.ObjectRef) ([]types.ObjectRef, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT member_id FROM group_members WHERE group_id = ? ORDER BY ordinal", string(group))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ObjectRef
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, types.ObjectRef(id))
	}
	return out, rows.Err()
}

func (b *Backend) parents(ctx context.Context, obj types.ObjectRef) ([]types.ObjectRef, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT group_id FROM group_members WHERE member_id = ? ORDER BY ordinal", string(obj))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ObjectRef
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, types.ObjectRef(id))
	}
	return out, rows.Err()
}

// outermost follows the first parent link up to a group with no parent.
func (b *Backend) outermost(ctx context.Context, obj types.ObjectRef) (types.ObjectRef, error) {
	seen := map[types.ObjectRef]bool{obj: true}
	for {
		parents, err := b.parents(ctx, obj)
		if err != nil {
			return "", err
		}
		if len(parents) == 0 || seen[parents[0]] {
			return obj, nil
		}
		obj = parents[0]
		seen[obj] = true
	}
}

// CreateRect draws a rectangle on layer and registers it as alignable.
func (b *Backend) CreateRect(ctx context.Context, cv types.ContainerRef, layer types.Layer, box types.BoundingBox) (types.RodRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	if _, err := b.cellView(ctx, cv); err != nil {
		return "", err
	}

	o := object{
		id:      types.ObjectRef(newID()),
		cv:      cv,
		objType: types.ObjectRect,
		layer:   layer,
		box:     types.NewBoundingBox(box.Min, box.Max),
		orient:  types.Identity,
		rod:     types.RodRef(newID()),
	}
	if err := b.insertObject(ctx, o); err != nil {
		return "", fmt.Errorf("create rect: %w", err)
	}
	return o.rod, nil
}

// CreateGroup creates an empty figure group at offset.
func (b *Backend) CreateGroup(ctx context.Context, cv types.ContainerRef, offset types.Point, transform types.Transform) (types.ObjectRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	if !transform.Valid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTransform, transform)
	}
	if _, err := b.cellView(ctx, cv); err != nil {
		return "", err
	}

	o := object{
		id:      types.ObjectRef(newID()),
		cv:      cv,
		objType: types.ObjectFigGroup,
		box:     types.BoundingBox{Min: offset, Max: offset},
		orient:  transform,
	}
	if err := b.insertObject(ctx, o); err != nil {
		return "", fmt.Errorf("create group: %w", err)
	}
	return o.id, nil
}

// AddToGroup adds obj to group. Adding a member twice is a no-op.
func (b *Backend) AddToGroup(ctx context.Context, group, obj types.ObjectRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}
	return b.addToGroup(ctx, group, obj)
}

func (b *Backend) addToGroup(ctx context.Context, group, obj types.ObjectRef) error {
	g, err := b.object(ctx, group)
	if err != nil {
		return err
	}
	if g.objType != types.ObjectFigGroup {
		return fmt.Errorf("%s: %w", group, types.ErrNotAGroup)
	}
	if _, err := b.object(ctx, obj); err != nil {
		return err
	}
	if contains, err := b.reaches(ctx, obj, group); err != nil {
		return err
	} else if contains {
		return fmt.Errorf("add %s to %s: %w", obj, group, ErrGroupCycle)
	}

	_, err = b.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, member_id, ordinal) VALUES (?, ?, "+
			"(SELECT COALESCE(MAX(ordinal), 0) + 1 FROM group_members WHERE group_id = ?))",
		string(group), string(obj), string(group))
	return err
}

// reaches reports whether target is from or lies beneath it.
func (b *Backend) reaches(ctx context.Context, from, target types.ObjectRef) (bool, error) {
	if from == target {
		return true, nil
	}
	members, err := b.members(ctx, from)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		ok, err := b.reaches(ctx, m, target)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// figure walks obj and returns every non-group object and every group at or
// beneath it, once each.
func (b *Backend) figure(ctx context.Context, obj types.ObjectRef) (leaves, groups []object, err error) {
	seen := map[types.ObjectRef]bool{}
	var walk func(id types.ObjectRef) error
	walk = func(id types.ObjectRef) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		o, err := b.object(ctx, id)
		if err != nil {
			return err
		}
		if o.objType != types.ObjectFigGroup {
			leaves = append(leaves, o)
			return nil
		}
		groups = append(groups, o)
		members, err := b.members(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range members {
			if err := walk(m); err != nil {
				return err
			}
		}
		return nil
	}
	err = walk(obj)
	return leaves, groups, err
}

// Move translates obj. Moving a group moves every leaf and group beneath it.
func (b *Backend) Move(ctx context.Context, obj types.ObjectRef, offset types.Point) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}
	return b.move(ctx, obj, offset, 0)
}

func (b *Backend) move(ctx context.Context, obj types.ObjectRef, offset types.Point, depth int) error {
	moved, groups, err := b.figure(ctx, obj)
	if err != nil {
		return err
	}
	// Group offsets follow their members, nested groups included.
	for _, o := range append(groups, moved...) {
		if _, err := b.db.ExecContext(ctx,
			"UPDATE objects SET x0 = x0 + ?, y0 = y0 + ?, x1 = x1 + ?, y1 = y1 + ? WHERE obj_id = ?",
			offset.X, offset.Y, offset.X, offset.Y, string(o.id)); err != nil {
			return err
		}
	}
	return b.propagate(ctx, moved, depth)
}

// Delete removes obj and its group memberships. Members of a deleted group
// survive; maintained alignments involving obj are dropped.
func (b *Backend) Delete(ctx context.Context, obj types.ObjectRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	o, err := b.object(ctx, obj)
	if err != nil {
		return err
	}
	return b.delete(ctx, o)
}

// DeleteRod removes the figure rod names, as Delete does.
func (b *Backend) DeleteRod(ctx context.Context, rod types.RodRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	o, err := b.rodObject(ctx, rod)
	if err != nil {
		return err
	}
	return b.delete(ctx, o)
}

func (b *Backend) delete(ctx context.Context, o object) error {
	obj := o.id
	if _, err := b.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? OR member_id = ?", string(obj), string(obj)); err != nil {
		return err
	}
	if o.rod != "" {
		if _, err := b.db.ExecContext(ctx,
			"DELETE FROM alignments WHERE align_rod = ? OR ref_rod = ?", string(o.rod), string(o.rod)); err != nil {
			return err
		}
	}
	if _, err := b.db.ExecContext(ctx, "DELETE FROM objects WHERE obj_id = ?", string(obj)); err != nil {
		return err
	}
	return nil
}

// CopyFigure duplicates obj into cv. Groups are copied with all their
// members. Copies are not alignable until named with NameShape.
func (b *Backend) CopyFigure(ctx context.Context, obj types.ObjectRef, cv types.ContainerRef, translate types.Point, transform types.Transform) (types.ObjectRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	if !transform.Valid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTransform, transform)
	}
	if _, err := b.cellView(ctx, cv); err != nil {
		return "", err
	}
	return b.copyFigure(ctx, obj, cv, translate, transform)
}

func (b *Backend) copyFigure(ctx context.Context, obj types.ObjectRef, cv types.ContainerRef, translate types.Point, transform types.Transform) (types.ObjectRef, error) {
	o, err := b.object(ctx, obj)
	if err != nil {
		return "", err
	}

	dup := o
	dup.id = types.ObjectRef(newID())
	dup.cv = cv
	dup.rod = ""
	dup.box = transform.ApplyBox(o.box).Translate(translate)
	if o.objType == types.ObjectInstance {
		dup.name = o.name + "_" + string(dup.id)[len(dup.id)-8:]
	}
	if err := b.insertObject(ctx, dup); err != nil {
		return "", fmt.Errorf("copy %s: %w", obj, err)
	}
	if o.objType != types.ObjectFigGroup {
		return dup.id, nil
	}

	members, err := b.members(ctx, obj)
	if err != nil {
		return "", err
	}
	for _, m := range members {
		mdup, err := b.copyFigure(ctx, m, cv, translate, transform)
		if err != nil {
			return "", err
		}
		if err := b.addToGroup(ctx, dup.id, mdup); err != nil {
			return "", err
		}
	}
	return dup.id, nil
}

// Redraw records a view refresh.
func (b *Backend) Redraw(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}
	b.redraws++
	log.Debug().Str("component", "sqlite").Int("redraws", b.redraws).Msg("redraw")
	return nil
}

// Redraws returns how many times Redraw was called since NewBackend.
func (b *Backend) Redraws() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.redraws
}

// CreateInstance places master in cv under name, at origin with transform.
// The instance box is the master's box transformed, then moved to origin.
func (b *Backend) CreateInstance(ctx context.Context, cv, master types.ContainerRef, name string, origin types.Point, transform types.Transform) (types.ObjectRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	if !transform.Valid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTransform, transform)
	}
	if _, err := b.cellView(ctx, cv); err != nil {
		return "", err
	}
	masterBox, err := b.containerBBox(ctx, master)
	if err != nil {
		return "", err
	}
	var n int
	if err := b.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM objects WHERE cv_id = ? AND name = ?", string(cv), name).Scan(&n); err != nil {
		return "", err
	}
	if n > 0 {
		return "", fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}

	o := object{
		id:      types.ObjectRef(newID()),
		cv:      cv,
		objType: types.ObjectInstance,
		name:    name,
		box:     transform.ApplyBox(masterBox).Translate(origin),
		master:  master,
		orient:  transform,
		rod:     types.RodRef(newID()),
	}
	if err := b.insertObject(ctx, o); err != nil {
		return "", fmt.Errorf("create instance: %w", err)
	}
	return o.id, nil
}

// InstanceMaster returns the master cell view of inst.
func (b *Backend) InstanceMaster(ctx context.Context, inst types.ObjectRef) (types.ContainerRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	o, err := b.object(ctx, inst)
	if err != nil {
		return "", err
	}
	if o.objType != types.ObjectInstance {
		return "", fmt.Errorf("%s is a %s: %w", inst, o.objType, types.ErrInstanceNotFound)
	}
	return o.master, nil
}

// FindInstance looks up an instance by name within cv.
func (b *Backend) FindInstance(ctx context.Context, cv types.ContainerRef, name string) (types.ObjectRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}
	var id string
	err := b.db.QueryRowContext(ctx,
		"SELECT obj_id FROM objects WHERE cv_id = ? AND name = ? AND obj_type = ?",
		string(cv), name, types.ObjectInstance).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%q in %s: %w", name, cv, types.ErrInstanceNotFound)
	}
	if err != nil {
		return "", err
	}
	return types.ObjectRef(id), nil
}

// Objects lists the top-level objects of cv (those in no group) in
// creation order.
func (b *Backend) Objects(ctx context.Context, cv types.ContainerRef) ([]Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT "+objectColumns+" FROM objects WHERE cv_id = ? "+
			"AND obj_id NOT IN (SELECT member_id FROM group_members) ORDER BY seq", string(cv))
	if err != nil {
		return nil, err
	}
	var objs []object
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		objs = append(objs, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Object, 0, len(objs))
	for _, o := range objs {
		box, ok, err := b.bbox(ctx, o, map[types.ObjectRef]bool{})
		if err != nil {
			return nil, err
		}
		if !ok {
			box = types.BoundingBox{Min: o.box.Min, Max: o.box.Min}
		}
		out = append(out, Object{
			ID:     o.id,
			Type:   o.objType,
			Name:   o.name,
			Layer:  o.layer,
			BBox:   box,
			Master: o.master,
			Rod:    o.rod,
		})
	}
	return out, nil
}

// Count returns the number of objects in the database.
func (b *Backend) Count(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return 0, err
	}
	var n int
	err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM objects").Scan(&n)
	return n, err
}
