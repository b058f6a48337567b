package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jiraflow/internal/application"
	"jiraflow/internal/ports"
)

func TestSyncBoardAwareFetchMergesSprintAndBacklog(t *testing.T) {
	tracker := &fakeTracker{
		board:  &ports.Board{ID: 9, Type: "scrum"},
		sprint: &ports.Sprint{ID: 42, Name: "Sprint 7", State: "active"},
		sprintIss: []ports.RawIssue{
			rawIssue("PROJ-1", "In Progress", "Story"),
			rawIssue("PROJ-2", "To Do", "Task"),
		},
		backlogIss: []ports.RawIssue{
			rawIssue("PROJ-2", "To Do", "Task"), // duplicate, sprint copy wins
			rawIssue("PROJ-3", "Open", "Bug"),
		},
	}
	store := newFakeStore()

	cmd := NewSyncCommand(tracker, store, application.Normalizer{}, &SyncGuard{}, "PROJ", "filter")
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Created != 3 || result.Updated != 0 {
		t.Errorf("result = %d created / %d updated, want 3/0", result.Created, result.Updated)
	}
	if len(store.records) != 3 {
		t.Errorf("store holds %d records, want 3", len(store.records))
	}
	if tracker.filterCalls != 0 {
		t.Errorf("filter fallback used %d times, want 0", tracker.filterCalls)
	}
}

func TestSyncFallsBackToFilterWithoutBoard(t *testing.T) {
	tracker := &fakeTracker{
		board:     nil,
		filterIss: []ports.RawIssue{rawIssue("PROJ-1", "To Do", "Task")},
	}
	store := newFakeStore()

	cmd := NewSyncCommand(tracker, store, application.Normalizer{}, &SyncGuard{}, "PROJ", "assignee = currentUser()")
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if tracker.filterCalls != 1 {
		t.Errorf("filter fallback used %d times, want 1", tracker.filterCalls)
	}
	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
}

func TestSyncSecondPassCountsUpdates(t *testing.T) {
	tracker := &fakeTracker{filterIss: []ports.RawIssue{rawIssue("PROJ-1", "To Do", "Task")}}
	store := newFakeStore()
	cmd := NewSyncCommand(tracker, store, application.Normalizer{}, &SyncGuard{}, "", "jql")

	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Errorf("second pass = %d created / %d updated, want 0/1", result.Created, result.Updated)
	}
}

func TestSyncIsolatesPerRecordFailures(t *testing.T) {
	issues := make([]ports.RawIssue, 0, 10)
	for i := 1; i <= 10; i++ {
		issues = append(issues, rawIssue(key(i), "To Do", "Task"))
	}
	tracker := &fakeTracker{filterIss: issues}
	store := newFakeStore()
	store.upsertErr = map[string]error{key(7): errors.New("disk full")}

	cmd := NewSyncCommand(tracker, store, application.Normalizer{}, &SyncGuard{}, "", "jql")
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v, want per-record isolation", err)
	}
	if result.Created != 9 {
		t.Errorf("Created = %d, want 9", result.Created)
	}
	if len(result.Errors) != 1 || result.Errors[0].Key != key(7) {
		t.Errorf("Errors = %v, want one for %s", result.Errors, key(7))
	}
}

func key(i int) string {
	return fmt.Sprintf("PROJ-%d", i)
}

func TestSyncRejectsOverlappingRuns(t *testing.T) {
	guard := &SyncGuard{}
	if !guard.acquire() {
		t.Fatal("first acquire failed")
	}

	tracker := &fakeTracker{filterIss: []ports.RawIssue{rawIssue("PROJ-1", "To Do", "Task")}}
	cmd := NewSyncCommand(tracker, newFakeStore(), application.Normalizer{}, guard, "", "jql")

	_, err := cmd.Execute(context.Background())
	if !errors.Is(err, application.ErrSyncBusy) {
		t.Fatalf("error = %v, want ErrSyncBusy", err)
	}

	guard.release()
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("after release: %v", err)
	}
}

func TestSyncConnectivityFailureAborts(t *testing.T) {
	tracker := &fakeTracker{
		connectErr: errors.New("dial tcp: no route"),
		filterIss:  []ports.RawIssue{rawIssue("PROJ-1", "To Do", "Task")},
	}
	store := newFakeStore()
	cmd := NewSyncCommand(tracker, store, application.Normalizer{}, &SyncGuard{}, "", "jql")

	_, err := cmd.Execute(context.Background())
	var connErr *application.ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %v, want *ConnectivityError", err)
	}
	if len(store.records) != 0 {
		t.Error("records written despite unreachable remote")
	}
}
