package commands

import (
	"context"
	"testing"
	"time"

	"jiraflow/internal/domain"
)

func TestBoardGroupsBySwimlaneAndStage(t *testing.T) {
	store := newFakeStore()
	overdue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	upcoming := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	store.records["PROJ-1"] = domain.CanonicalRecord{
		Key: "PROJ-1", Stage: domain.StageExecution, DueDate: &overdue,
	}
	store.records["PROJ-2"] = domain.CanonicalRecord{
		Key: "PROJ-2", Stage: domain.StageExecution, DueDate: &upcoming,
	}
	store.records["PROJ-3"] = domain.CanonicalRecord{
		Key: "PROJ-3", Stage: domain.StageTodo,
	}
	store.records["PROJ-4"] = domain.CanonicalRecord{
		Key: "PROJ-4", Stage: domain.StageDone, DueDate: &overdue,
	}

	cmd := NewBoardCommand(store)
	cmd.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	board, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if board.Total != 4 {
		t.Errorf("Total = %d, want 4", board.Total)
	}
	if len(board.Lanes) != 3 {
		t.Fatalf("lanes = %d, want 3", len(board.Lanes))
	}

	byLane := map[domain.Swimlane]BoardLane{}
	for _, lane := range board.Lanes {
		byLane[lane.Lane.ID] = lane
		if len(lane.Columns) != len(domain.Stages()) {
			t.Errorf("lane %s has %d columns", lane.Lane.ID, len(lane.Columns))
		}
	}

	if got := byLane[domain.SwimlaneOverdue].Count; got != 1 {
		t.Errorf("overdue count = %d, want 1 (only PROJ-1)", got)
	}
	// PROJ-4 is done, so its past due date cannot make it overdue.
	if got := byLane[domain.SwimlaneOnSchedule].Count; got != 2 {
		t.Errorf("onSchedule count = %d, want 2 (PROJ-2 and done PROJ-4)", got)
	}
	if got := byLane[domain.SwimlaneOthers].Count; got != 1 {
		t.Errorf("others count = %d, want 1 (PROJ-3 has no due date)", got)
	}
}

func TestBoardScopeFilters(t *testing.T) {
	store := newFakeStore()
	store.records["PROJ-1"] = domain.CanonicalRecord{
		Key: "PROJ-1", Origin: domain.OriginRemote, Stage: domain.StageTodo,
		SprintName: "Sprint 12", SprintState: "active",
	}
	store.records["PROJ-2"] = domain.CanonicalRecord{
		Key: "PROJ-2", Origin: domain.OriginRemote, Stage: domain.StageTodo,
	}
	store.records["LOCAL-1"] = domain.CanonicalRecord{
		Key: "LOCAL-1", Origin: domain.OriginLocal, Stage: domain.StageTodo,
	}

	tests := []struct {
		scope BoardScope
		want  int
	}{
		{ScopeAll, 3},
		{ScopeSprint, 1},
		{ScopeLocal, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			cmd := NewBoardCommand(store)
			cmd.Scope = tt.scope
			board, err := cmd.Execute(context.Background())
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if board.Total != tt.want {
				t.Errorf("Total = %d, want %d", board.Total, tt.want)
			}
		})
	}
}

func TestParseBoardScope(t *testing.T) {
	if scope, ok := ParseBoardScope(""); !ok || scope != ScopeAll {
		t.Errorf("ParseBoardScope(\"\") = %s, %v", scope, ok)
	}
	if scope, ok := ParseBoardScope(" Sprint "); !ok || scope != ScopeSprint {
		t.Errorf("ParseBoardScope(Sprint) = %s, %v", scope, ok)
	}
	if _, ok := ParseBoardScope("mine"); ok {
		t.Error("ParseBoardScope(mine) accepted")
	}
}

func TestBoardLaneAndColumnOrder(t *testing.T) {
	board, err := NewBoardCommand(newFakeStore()).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if board.Lanes[0].Lane.ID != domain.SwimlaneOverdue || board.Lanes[2].Lane.ID != domain.SwimlaneOthers {
		t.Errorf("lane order = %v", board.Lanes)
	}
	first := board.Lanes[0].Columns[0].Stage.ID
	last := board.Lanes[0].Columns[len(board.Lanes[0].Columns)-1].Stage.ID
	if first != domain.StageFunnel || last != domain.StageClosed {
		t.Errorf("column order = %s .. %s, want FUNNEL .. CLOSED", first, last)
	}
}
