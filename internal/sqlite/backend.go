package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// dbFileName is the database file created under Config.DataDir.
const dbFileName = "layout.db"

// maxConstraintDepth bounds how far maintained alignments propagate from a
// single move.
const maxConstraintDepth = 8

// Backend is a layout database kept in SQLite that implements
// types.Session. Leaves (rectangles, instances) store their boxes; group
// boxes are derived from their members.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	redraws  int
}

var _ types.Session = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) DataDir/layout.db and applies the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// One connection serializes every round trip, like a single remote session.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	log.Info().Str("component", "sqlite").Str("path", dbPath).Msg("layout database attached")
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	log.Info().Str("component", "sqlite").Msg("layout database detached")
	return nil
}

// checkAttached must be called with b.mu held.
func (b *Backend) checkAttached() error {
	if !b.attached {
		return types.ErrSessionDetached
	}
	return nil
}

// newID generates a UUID v7 string.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
