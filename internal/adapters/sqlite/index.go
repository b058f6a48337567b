// Package sqlite caches the vault's record set in a SQLite database so
// board queries do not re-parse every markdown file.
package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.RecordIndex using SQLite
type Index struct {
	db       *sql.DB
	tasksDir string
	dbPath   string
}

// Ensure Index implements RecordIndex
var _ ports.RecordIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index for the given tasks folder
func (idx *Index) Open(tasksDir string) error {
	if len(tasksDir) > 0 && tasksDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		tasksDir = filepath.Join(home, tasksDir[1:])
	}

	idx.tasksDir = tasksDir
	idx.dbPath = databasePath(tasksDir)

	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS records (
			path TEXT PRIMARY KEY,
			record_key TEXT NOT NULL,
			stage TEXT NOT NULL,
			summary TEXT,
			sprint TEXT,
			due_date TEXT,
			archived INTEGER NOT NULL DEFAULT 0,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_key ON records(record_key);
		CREATE INDEX IF NOT EXISTS idx_records_stage ON records(stage);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true when the schema changed or the index was
// built for another folder
func (idx *Index) NeedsFullRebuild() bool {
	var version, dirHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'tasks_dir_hash'").Scan(&dirHash)

	return version != schemaVersion || dirHash != hashTasksDir(idx.tasksDir)
}

// databasePath returns the path for the SQLite database
func databasePath(tasksDir string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "jiraflow", hashTasksDir(tasksDir)+".db")
}

// hashTasksDir returns a short hash of the tasks folder path
func hashTasksDir(tasksDir string) string {
	h := sha256.Sum256([]byte(tasksDir))
	return hex.EncodeToString(h[:8])
}

func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('tasks_dir_hash', ?);
	`, schemaVersion, hashTasksDir(idx.tasksDir))
	return err
}

// GetByKey retrieves an entry by record key, nil when the key is unknown
func (idx *Index) GetByKey(key string) (*ports.IndexEntry, error) {
	var entry ports.IndexEntry
	var stage string

	err := idx.db.QueryRow(`
		SELECT path, record_key, stage, summary, sprint, due_date, archived, mtime
		FROM records WHERE record_key = ?
	`, key).Scan(&entry.Path, &entry.Key, &stage, &entry.Summary, &entry.Sprint,
		&entry.DueDate, &entry.Archived, &entry.Mtime)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry.Stage = domain.Stage(stage)
	return &entry, nil
}

// ListEntries returns all indexed records in pipeline-stage order
func (idx *Index) ListEntries(includeArchived bool) ([]ports.IndexEntry, error) {
	query := `
		SELECT path, record_key, stage, summary, sprint, due_date, archived, mtime
		FROM records`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY record_key`

	rows, err := idx.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ports.IndexEntry
	for rows.Next() {
		var entry ports.IndexEntry
		var stage string
		if err := rows.Scan(&entry.Path, &entry.Key, &stage, &entry.Summary,
			&entry.Sprint, &entry.DueDate, &entry.Archived, &entry.Mtime); err != nil {
			return nil, err
		}
		entry.Stage = domain.Stage(stage)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByStage returns how many active records sit on each stage
func (idx *Index) CountByStage() (map[domain.Stage]int, error) {
	rows, err := idx.db.Query(`
		SELECT stage, COUNT(*) FROM records
		WHERE archived = 0
		GROUP BY stage
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Stage]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[domain.Stage(stage)] = count
	}
	return counts, rows.Err()
}
