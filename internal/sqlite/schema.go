// Package sqlite implements a simulated remote layout database on SQLite.
// It stands in for the remote session the alignment layer drives.
package sqlite

// Schema DDL. Every statement is idempotent so an existing layout.db is
// reused across attaches.
const (
	createCellViews = `CREATE TABLE IF NOT EXISTS cellviews (
    cv_id TEXT PRIMARY KEY,
    lib TEXT NOT NULL,
    cell TEXT NOT NULL,
    view TEXT NOT NULL,
    has_boundary INTEGER NOT NULL DEFAULT 0,
    bx0 REAL NOT NULL DEFAULT 0,
    by0 REAL NOT NULL DEFAULT 0,
    bx1 REAL NOT NULL DEFAULT 0,
    by1 REAL NOT NULL DEFAULT 0,
    UNIQUE (lib, cell, view)
);`

	createObjects = `CREATE TABLE IF NOT EXISTS objects (
    obj_id TEXT PRIMARY KEY,
    cv_id TEXT NOT NULL,
    obj_type TEXT NOT NULL,
    name TEXT,
    layer TEXT NOT NULL DEFAULT '',
    purpose TEXT NOT NULL DEFAULT '',
    x0 REAL NOT NULL DEFAULT 0,
    y0 REAL NOT NULL DEFAULT 0,
    x1 REAL NOT NULL DEFAULT 0,
    y1 REAL NOT NULL DEFAULT 0,
    master_id TEXT,
    orient TEXT NOT NULL DEFAULT 'R0',
    rod_id TEXT UNIQUE,
    seq INTEGER NOT NULL,
    FOREIGN KEY (cv_id) REFERENCES cellviews(cv_id),
    UNIQUE (cv_id, name)
);`

	createGroupMembers = `CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    PRIMARY KEY (group_id, member_id)
);`

	createAlignments = `CREATE TABLE IF NOT EXISTS alignments (
    align_rod TEXT PRIMARY KEY,
    ref_rod TEXT NOT NULL,
    align_anchor TEXT NOT NULL,
    ref_anchor TEXT NOT NULL,
    x_sep REAL NOT NULL,
    y_sep REAL NOT NULL
);`

	createIndexes = `
CREATE INDEX IF NOT EXISTS idx_objects_cv ON objects(cv_id);
CREATE INDEX IF NOT EXISTS idx_group_members_member ON group_members(member_id);
CREATE INDEX IF NOT EXISTS idx_alignments_ref ON alignments(ref_rod);
`
)

// schemaSQL is the full DDL executed on attach.
var schemaSQL = createCellViews + createObjects + createGroupMembers + createAlignments + createIndexes
