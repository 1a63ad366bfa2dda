// Package storage persists the high score.
//
// Two backends are provided: a plain-text file holding a single integer,
// and a SQLite database (pure-Go modernc.org/sqlite driver) that also keeps
// a history of finished runs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomz197/starfall/internal/config"
)

// ScoreStore reads and writes the persisted high score.
type ScoreStore interface {
	// Load returns the stored high score, or 0 if nothing was stored yet.
	Load() (int, error)
	// Save persists score as the new high score.
	Save(score int) error
	// Reset clears everything the store holds.
	Reset() error
	// Close releases the store's resources.
	Close() error
}

// RunEntry is one finished run recorded by stores that keep history.
type RunEntry struct {
	ID        int64
	Score     int
	CreatedAt time.Time
}

// RunRecorder is implemented by stores that keep a run history.
type RunRecorder interface {
	RecordRun(score int) error
	TopRuns(limit int) ([]RunEntry, error)
}

// Open opens the store at path. Paths ending in .db, .sqlite or .sqlite3
// use SQLite, anything else is a plain-text file. A leading ~ expands to
// the home directory and parent directories are created as needed.
func Open(path string) (ScoreStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: empty path")
	}
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(expanded)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(expanded)
	default:
		return NewFileStore(expanded), nil
	}
}
