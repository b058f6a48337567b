package commands

import (
	"context"
	"fmt"

	"jiraflow/internal/application"
	"jiraflow/internal/ports"
)

// UnarchiveCommand clears a record's archive flag, restoring it to the
// board.
type UnarchiveCommand struct {
	store ports.RecordStore
	Key   string
}

// NewUnarchiveCommand creates a new UnarchiveCommand.
func NewUnarchiveCommand(store ports.RecordStore, key string) *UnarchiveCommand {
	return &UnarchiveCommand{store: store, Key: key}
}

// Validate checks the unarchive request.
func (c *UnarchiveCommand) Validate() error {
	return application.ValidateKey("key", c.Key)
}

// Execute clears the archive flag.
func (c *UnarchiveCommand) Execute(ctx context.Context) (*ArchiveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	handle, err := findRequired(c.store, c.Key)
	if err != nil {
		return nil, err
	}
	if err := c.store.Unarchive(*handle); err != nil {
		return nil, fmt.Errorf("unarchive %s: %w", c.Key, err)
	}
	return &ArchiveResult{
		Key:     c.Key,
		Path:    handle.Path,
		Message: fmt.Sprintf("Unarchived %s", c.Key),
	}, nil
}
