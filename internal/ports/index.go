package ports

import "jiraflow/internal/domain"

// IndexEntry is one record's row in the board index.
type IndexEntry struct {
	Path     string
	Key      string
	Stage    domain.Stage
	Summary  string
	Sprint   string
	DueDate  string // YYYY-MM-DD, empty when none
	Archived bool
	Mtime    int64
}

// IndexStats summarizes one index sync.
type IndexStats struct {
	FilesScanned int
	Added        int
	Removed      int
	DurationMs   int64
}

// RecordIndex provides cached access to the vault's record set so board
// loads do not re-parse every file. Queries go through SQLite indexes.
type RecordIndex interface {
	// Lifecycle
	Open(tasksDir string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncFull() (*IndexStats, error)
	SyncIncremental() (*IndexStats, error)

	// Queries
	GetByKey(key string) (*IndexEntry, error)
	ListEntries(includeArchived bool) ([]IndexEntry, error)
	CountByStage() (map[domain.Stage]int, error)
}
