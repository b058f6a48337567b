package commands

import (
	"context"
	"fmt"

	"jiraflow/internal/application"
	"jiraflow/internal/ports"
)

// ArchiveResult contains the result of archiving or unarchiving a record.
type ArchiveResult struct {
	Key     string
	Path    string
	Message string
}

// ArchiveCommand soft-archives a record. The file stays, flagged.
type ArchiveCommand struct {
	store ports.RecordStore
	Key   string
}

// NewArchiveCommand creates a new ArchiveCommand.
func NewArchiveCommand(store ports.RecordStore, key string) *ArchiveCommand {
	return &ArchiveCommand{store: store, Key: key}
}

// Validate checks the archive request.
func (c *ArchiveCommand) Validate() error {
	return application.ValidateKey("key", c.Key)
}

// Execute flags the record archived.
func (c *ArchiveCommand) Execute(ctx context.Context) (*ArchiveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	handle, err := findRequired(c.store, c.Key)
	if err != nil {
		return nil, err
	}
	if err := c.store.Archive(*handle); err != nil {
		return nil, fmt.Errorf("archive %s: %w", c.Key, err)
	}
	return &ArchiveResult{
		Key:     c.Key,
		Path:    handle.Path,
		Message: fmt.Sprintf("Archived %s", c.Key),
	}, nil
}

// DeleteResult contains the result of deleting a local record.
type DeleteResult struct {
	Key     string
	Message string
}

// DeleteCommand removes a locally authored record's file. Remote-mirrored
// records are refused; archive is the only way to hide those.
type DeleteCommand struct {
	store ports.RecordStore
	Key   string
}

// NewDeleteCommand creates a new DeleteCommand.
func NewDeleteCommand(store ports.RecordStore, key string) *DeleteCommand {
	return &DeleteCommand{store: store, Key: key}
}

// Validate checks the delete request.
func (c *DeleteCommand) Validate() error {
	return application.ValidateKey("key", c.Key)
}

// Execute deletes the record file.
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	handle, err := findRequired(c.store, c.Key)
	if err != nil {
		return nil, err
	}
	if err := c.store.Delete(*handle); err != nil {
		return nil, err
	}
	return &DeleteResult{
		Key:     c.Key,
		Message: fmt.Sprintf("Deleted %s", c.Key),
	}, nil
}

func findRequired(store ports.RecordStore, key string) (*ports.RecordHandle, error) {
	handle, err := store.FindExisting(key, "")
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, fmt.Errorf("record %s: %w", key, application.ErrNotFound)
	}
	return handle, nil
}
