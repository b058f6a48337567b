package commands

import (
	"context"
	"strings"
	"time"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// BoardColumn is one pipeline stage's slice of a swimlane.
type BoardColumn struct {
	Stage   domain.StageDef
	Records []ports.StoredRecord
}

// BoardLane is one swimlane with its stage columns in pipeline order.
type BoardLane struct {
	Lane    domain.SwimlaneDef
	Columns []BoardColumn
	Count   int
}

// BoardResult is a full board snapshot: swimlanes outer, stages inner.
type BoardResult struct {
	Lanes []BoardLane
	Total int
}

// BoardScope filters which records appear on the board.
type BoardScope string

const (
	// ScopeAll shows every record.
	ScopeAll BoardScope = "all"
	// ScopeSprint shows records assigned to a sprint.
	ScopeSprint BoardScope = "sprint"
	// ScopeLocal shows locally authored records only.
	ScopeLocal BoardScope = "local"
)

// ParseBoardScope maps a user-supplied scope name; empty means all.
func ParseBoardScope(s string) (BoardScope, bool) {
	switch BoardScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, true
	case ScopeSprint:
		return ScopeSprint, true
	case ScopeLocal:
		return ScopeLocal, true
	}
	return "", false
}

// BoardCommand builds the kanban snapshot from the vault. Swimlane
// membership is recomputed against the current date on every call.
type BoardCommand struct {
	store ports.RecordStore
	now   func() time.Time

	IncludeArchived bool
	Scope           BoardScope
}

// NewBoardCommand creates a new BoardCommand.
func NewBoardCommand(store ports.RecordStore) *BoardCommand {
	return &BoardCommand{store: store, now: time.Now}
}

// Execute reads the vault and groups records into lanes and columns.
func (c *BoardCommand) Execute(ctx context.Context) (*BoardResult, error) {
	records, err := c.store.List(c.IncludeArchived)
	if err != nil {
		return nil, err
	}
	now := c.now()

	type cellKey struct {
		lane  domain.Swimlane
		stage domain.Stage
	}
	cells := make(map[cellKey][]ports.StoredRecord)
	for _, stored := range records {
		if !c.inScope(stored.Record) {
			continue
		}
		lane := domain.ClassifySwimlane(stored.Record.DueDate, stored.Record.Stage, now)
		key := cellKey{lane, stored.Record.Stage}
		cells[key] = append(cells[key], stored)
	}

	result := &BoardResult{}
	for _, laneDef := range domain.Swimlanes() {
		lane := BoardLane{Lane: laneDef}
		for _, stageDef := range domain.Stages() {
			records := cells[cellKey{laneDef.ID, stageDef.ID}]
			lane.Columns = append(lane.Columns, BoardColumn{
				Stage:   stageDef,
				Records: records,
			})
			lane.Count += len(records)
		}
		result.Lanes = append(result.Lanes, lane)
		result.Total += lane.Count
	}
	return result, nil
}

func (c *BoardCommand) inScope(record domain.CanonicalRecord) bool {
	switch c.Scope {
	case ScopeSprint:
		return record.SprintName != ""
	case ScopeLocal:
		return record.Origin == domain.OriginLocal
	default:
		return true
	}
}
