package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jiraflow/internal/application"
	"jiraflow/internal/domain"
)

func TestCreateLocalTask(t *testing.T) {
	store := newFakeStore()
	cmd := NewCreateLocalCommand(store, "Write the quarterly report")
	cmd.Description = "Numbers from finance first."
	cmd.DueDate = "2026-04-01"
	cmd.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(result.Key, domain.LocalKeyPrefix) {
		t.Errorf("Key = %s, want %s prefix", result.Key, domain.LocalKeyPrefix)
	}

	record := store.records[result.Key]
	if record.Origin != domain.OriginLocal {
		t.Errorf("Origin = %s, want LOCAL", record.Origin)
	}
	if record.Stage != domain.StageTodo {
		t.Errorf("Stage = %s, want default TO DO", record.Stage)
	}
	if record.DueDate == nil || record.DueDate.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("DueDate = %v", record.DueDate)
	}
	found := false
	for _, tag := range record.Tags {
		if tag == "jira/source/local" {
			found = true
		}
	}
	if !found {
		t.Errorf("Tags = %v, missing jira/source/local", record.Tags)
	}
}

func TestCreateLocalTaskValidation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*CreateLocalCommand)
	}{
		{"empty summary", func(c *CreateLocalCommand) { c.Summary = "  " }},
		{"bad stage", func(c *CreateLocalCommand) { c.Stage = "LIMBO" }},
		{"bad due date", func(c *CreateLocalCommand) { c.DueDate = "next tuesday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCreateLocalCommand(newFakeStore(), "ok summary")
			tt.setup(cmd)
			_, err := cmd.Execute(context.Background())
			var vErr *application.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error = %v, want *ValidationError", err)
			}
		})
	}
}
