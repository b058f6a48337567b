package ports

import (
	"time"

	"jiraflow/internal/domain"
)

// RecordHandle identifies an existing record file in the vault.
type RecordHandle struct {
	Path string
}

// StoredRecord pairs a parsed record with the handle it was read from.
type StoredRecord struct {
	Handle RecordHandle
	Record domain.CanonicalRecord
}

// RecordStore is the persistence and identity layer for canonical records.
// One record per markdown file; a record's file is resolved by key first,
// with fallbacks for files named under older conventions.
type RecordStore interface {
	// EnsureFolders creates the managed folders when absent. Idempotent.
	EnsureFolders() error

	// FindExisting resolves the file for a record, trying the current
	// naming convention, the legacy one, then a full scan matching the key
	// field. Returns nil when no file exists.
	FindExisting(key, summary string) (*RecordHandle, error)

	// Upsert creates the record's file or merge-updates the existing one,
	// preserving fields and body content the store does not own. Calling
	// it twice with identical input performs no second write.
	Upsert(record domain.CanonicalRecord, body string) (created bool, err error)

	// Read parses the record behind a handle.
	Read(handle RecordHandle) (domain.CanonicalRecord, error)

	// UpdateStage rewrites the stage and its derived status tag in a
	// single atomic file rewrite; no reader can observe them disagreeing.
	UpdateStage(handle RecordHandle, stage domain.Stage) error

	// Archive soft-archives the record. Never deletes.
	Archive(handle RecordHandle) error

	// Unarchive clears the archive flag, putting the record back on the
	// board.
	Unarchive(handle RecordHandle) error

	// Delete removes a locally authored record's file. Remote-mirrored
	// records are refused; they may only be archived.
	Delete(handle RecordHandle) error

	// List returns all managed records, skipping archived ones unless
	// includeArchived is set.
	List(includeArchived bool) ([]StoredRecord, error)
}

// WorkLog appends completion entries to the user's daily notes.
type WorkLog interface {
	LogCompletion(record domain.CanonicalRecord, handle RecordHandle, when time.Time) error
}
