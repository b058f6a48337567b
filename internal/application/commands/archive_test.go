package commands

import (
	"context"
	"errors"
	"testing"

	"jiraflow/internal/application"
	"jiraflow/internal/domain"
)

func TestArchiveCommand(t *testing.T) {
	store := storeWith("PROJ-1", domain.OriginRemote, "Story", domain.StageDone)

	result, err := NewArchiveCommand(store, "PROJ-1").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !store.records["PROJ-1"].Archived {
		t.Error("record not flagged archived")
	}
	if result.Key != "PROJ-1" {
		t.Errorf("Key = %s", result.Key)
	}
}

func TestArchiveUnknownKey(t *testing.T) {
	_, err := NewArchiveCommand(newFakeStore(), "PROJ-404").Execute(context.Background())
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUnarchiveCommand(t *testing.T) {
	store := storeWith("PROJ-2", domain.OriginRemote, "Story", domain.StageDone)
	record := store.records["PROJ-2"]
	record.Archived = true
	store.records["PROJ-2"] = record

	result, err := NewUnarchiveCommand(store, "PROJ-2").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if store.records["PROJ-2"].Archived {
		t.Error("record still flagged archived")
	}
	if result.Message != "Unarchived PROJ-2" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestUnarchiveUnknownKey(t *testing.T) {
	_, err := NewUnarchiveCommand(newFakeStore(), "PROJ-404").Execute(context.Background())
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCommand(t *testing.T) {
	store := storeWith("LOCAL-1700000000000", domain.OriginLocal, "Task", domain.StageTodo)

	if _, err := NewDeleteCommand(store, "LOCAL-1700000000000").Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, ok := store.records["LOCAL-1700000000000"]; ok {
		t.Error("record still present after delete")
	}
}

func TestDeleteValidatesKey(t *testing.T) {
	_, err := NewDeleteCommand(newFakeStore(), "not a key").Execute(context.Background())
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}
