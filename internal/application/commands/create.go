package commands

import (
	"context"
	"fmt"
	"time"

	"jiraflow/internal/application"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// CreateLocalResult contains the result of creating a local task.
type CreateLocalResult struct {
	Key     string
	Path    string
	Message string
}

// CreateLocalCommand creates a locally authored task. Local tasks never
// touch the remote tracker and move freely across the board.
type CreateLocalCommand struct {
	store ports.RecordStore
	now   func() time.Time

	Summary     string
	Description string
	Stage       string
	Priority    string
	DueDate     string
}

// NewCreateLocalCommand creates a new CreateLocalCommand.
func NewCreateLocalCommand(store ports.RecordStore, summary string) *CreateLocalCommand {
	return &CreateLocalCommand{
		store:   store,
		now:     time.Now,
		Summary: summary,
		Stage:   string(domain.StageTodo),
	}
}

// Validate checks the task shape.
func (c *CreateLocalCommand) Validate() error {
	if err := application.ValidateRequired("summary", c.Summary); err != nil {
		return err
	}
	if _, err := application.ValidateStage("stage", c.Stage); err != nil {
		return err
	}
	if c.DueDate != "" {
		if _, err := time.Parse("2006-01-02", c.DueDate); err != nil {
			return &application.ValidationError{
				Field:   "dueDate",
				Message: fmt.Sprintf("not a YYYY-MM-DD date: %s", c.DueDate),
			}
		}
	}
	return nil
}

// Execute creates the task file.
func (c *CreateLocalCommand) Execute(ctx context.Context) (*CreateLocalResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	stage, _ := application.ValidateStage("stage", c.Stage)
	now := c.now()

	record := domain.CanonicalRecord{
		Key:       domain.NewLocalKey(now),
		Origin:    domain.OriginLocal,
		Stage:     stage,
		Category:  "Task",
		Priority:  c.Priority,
		Summary:   c.Summary,
		CreatedAt: now,
		UpdatedAt: now,
		Tags: []string{
			domain.StatusTag(stage),
			domain.TypeTag("Task"),
			domain.SourceTag(domain.OriginLocal),
		},
	}
	if c.DueDate != "" {
		due, _ := time.Parse("2006-01-02", c.DueDate)
		record.DueDate = &due
	}

	if _, err := c.store.Upsert(record, c.Description); err != nil {
		return nil, fmt.Errorf("create local task: %w", err)
	}

	handle, err := c.store.FindExisting(record.Key, record.Summary)
	if err != nil || handle == nil {
		return nil, fmt.Errorf("locate created task %s", record.Key)
	}
	return &CreateLocalResult{
		Key:     record.Key,
		Path:    handle.Path,
		Message: fmt.Sprintf("Created %s", record.Key),
	}, nil
}
