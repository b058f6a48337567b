// Package commands holds the application commands: one type per user-facing
// operation, each with Validate and Execute.
package commands

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"jiraflow/internal/application"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// SyncGuard serializes sync passes. Cobra commands, the TUI and the MCP
// server share one guard so overlapping triggers collapse into a single
// running pass.
type SyncGuard struct {
	busy atomic.Bool
}

func (g *SyncGuard) acquire() bool { return g.busy.CompareAndSwap(false, true) }
func (g *SyncGuard) release()      { g.busy.Store(false) }

// Running reports whether a sync pass is in flight.
func (g *SyncGuard) Running() bool { return g.busy.Load() }

// SyncCommand mirrors the user's remote issues into the vault.
type SyncCommand struct {
	tracker    ports.RemoteTracker
	store      ports.RecordStore
	normalizer application.Normalizer
	guard      *SyncGuard

	// ProjectKey selects the board-aware fetch; empty means plain filter
	// sync.
	ProjectKey string

	// Filter is the JQL used for flat sync and as fallback when the
	// project has no usable board.
	Filter string
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(tracker ports.RemoteTracker, store ports.RecordStore, normalizer application.Normalizer, guard *SyncGuard, projectKey, filter string) *SyncCommand {
	return &SyncCommand{
		tracker:    tracker,
		store:      store,
		normalizer: normalizer,
		guard:      guard,
		ProjectKey: projectKey,
		Filter:     filter,
	}
}

// Validate checks the sync can run at all.
func (c *SyncCommand) Validate() error {
	if strings.TrimSpace(c.Filter) == "" && strings.TrimSpace(c.ProjectKey) == "" {
		return &application.ValidationError{
			Field:   "filter",
			Message: "either a project key or a JQL filter is required",
		}
	}
	return nil
}

// Execute runs one sync pass. A record that fails to normalize or persist
// is reported in the result and never aborts the rest of the pass; only
// unreachable connectivity aborts.
func (c *SyncCommand) Execute(ctx context.Context) (*domain.SyncResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.guard.acquire() {
		return nil, application.ErrSyncBusy
	}
	defer c.guard.release()

	if err := c.tracker.TestConnection(ctx); err != nil {
		return nil, &application.ConnectivityError{Host: hostOf(c.tracker), Err: err}
	}
	if err := c.store.EnsureFolders(); err != nil {
		return nil, err
	}

	issues, err := c.fetchIssues(ctx)
	if err != nil {
		return nil, err
	}

	result := &domain.SyncResult{}
	for _, issue := range issues {
		record, err := c.normalizer.Normalize(issue)
		if err != nil {
			result.Errors = append(result.Errors, domain.SyncError{
				Key:     issue.Key,
				Message: err.Error(),
			})
			continue
		}
		created, err := c.store.Upsert(record, issue.Fields.Description)
		if err != nil {
			result.Errors = append(result.Errors, domain.SyncError{
				Key:     record.Key,
				Message: err.Error(),
			})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// fetchIssues prefers the board-aware path: the active sprint's issues plus
// the sprint-free backlog. Anything going wrong on that path degrades to the
// flat filter query rather than failing the pass.
func (c *SyncCommand) fetchIssues(ctx context.Context) ([]ports.RawIssue, error) {
	if strings.TrimSpace(c.ProjectKey) == "" {
		return c.tracker.FetchIssuesByFilter(ctx, c.Filter)
	}

	issues, err := c.fetchBoardIssues(ctx)
	if err == nil {
		return issues, nil
	}
	if strings.TrimSpace(c.Filter) == "" {
		return nil, err
	}
	return c.tracker.FetchIssuesByFilter(ctx, c.Filter)
}

func (c *SyncCommand) fetchBoardIssues(ctx context.Context) ([]ports.RawIssue, error) {
	board, err := c.tracker.FetchBoardForProject(ctx, c.ProjectKey)
	if err != nil {
		return nil, fmt.Errorf("resolve board: %w", err)
	}
	if board == nil {
		return nil, fmt.Errorf("project %s has no board", c.ProjectKey)
	}

	var sprintIssues []ports.RawIssue
	sprint, err := c.tracker.FetchActiveSprint(ctx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve active sprint: %w", err)
	}
	if sprint != nil {
		sprintIssues, err = c.tracker.FetchSprintIssues(ctx, sprint.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch sprint issues: %w", err)
		}
	}

	backlogIssues, err := c.tracker.FetchBacklogIssues(ctx, board.ID, c.ProjectKey)
	if err != nil {
		return nil, fmt.Errorf("fetch backlog issues: %w", err)
	}

	// Merge with the sprint issue winning any key collision: the sprint
	// copy carries the sprint association the backlog copy lacks.
	seen := make(map[string]bool, len(sprintIssues))
	merged := make([]ports.RawIssue, 0, len(sprintIssues)+len(backlogIssues))
	for _, issue := range sprintIssues {
		seen[issue.Key] = true
		merged = append(merged, issue)
	}
	for _, issue := range backlogIssues {
		if !seen[issue.Key] {
			merged = append(merged, issue)
		}
	}
	return merged, nil
}

// hostOf surfaces the tracker's host for error messages when the
// implementation exposes one.
func hostOf(tracker ports.RemoteTracker) string {
	if h, ok := tracker.(interface{ Host() string }); ok {
		return h.Host()
	}
	return "remote tracker"
}
