// Package sqlite provides the public API for the SQLite layout database.
// This package exposes the factory function for creating backends while
// keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/rodlayout/internal/sqlite"
)

// Backend is the SQLite layout database. It implements types.Session and
// adds the fixture operations (cell views, instances, listings) a caller
// needs to build a layout to align.
type Backend = sqlite.Backend

// CellView describes a cell view held by the backend.
type CellView = sqlite.CellView

// Object describes a top-level object of a cell view.
type Object = sqlite.Object

// Request errors returned by the backend beyond those in pkg/types.
var (
	ErrDuplicateName = sqlite.ErrDuplicateName
	ErrGroupCycle    = sqlite.ErrGroupCycle
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".rodlayout-db",
//	})
//	defer backend.Detach()
func NewBackend() *Backend {
	return sqlite.NewBackend()
}
