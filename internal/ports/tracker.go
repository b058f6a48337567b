package ports

import (
	"context"
	"encoding/json"
	"strings"
)

// RawIssue is one issue as the remote tracker serves it, before
// normalization. Field shapes are kept deliberately loose: the sprint field
// and the custom fields vary per deployment.
type RawIssue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields carries the subset of remote issue fields the sync cares
// about. Custom fields (customfield_*) are collected untyped because which
// one holds story points or the planned end date is configuration.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Status      NamedField      `json:"status"`
	IssueType   NamedField      `json:"issuetype"`
	Priority    NamedField      `json:"priority"`
	Assignee    *UserField      `json:"assignee"`
	Labels      []string        `json:"labels"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	DueDate     string          `json:"duedate"`
	Sprint      json.RawMessage `json:"sprint"`

	Custom map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and sweeps every customfield_* key
// into Custom.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type plain IssueFields
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key, value := range all {
		if strings.HasPrefix(key, "customfield_") {
			if known.Custom == nil {
				known.Custom = make(map[string]json.RawMessage)
			}
			known.Custom[key] = value
		}
	}

	*f = IssueFields(known)
	return nil
}

// HasSprint reports whether the issue carries any sprint association,
// whatever shape the field takes.
func (f IssueFields) HasSprint() bool {
	trimmed := strings.TrimSpace(string(f.Sprint))
	switch trimmed {
	case "", "null", "[]":
		return false
	}
	return true
}

// NamedField is the common {name} shape of status, issuetype and priority.
type NamedField struct {
	Name string `json:"name"`
}

// UserField identifies a remote user.
type UserField struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// Board is a remote agile board.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Sprint is a structured remote sprint, as the agile endpoints return it.
type Sprint struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Transition is one legal move the remote tracker offers for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// To is the name of the status the transition lands on.
	To string `json:"-"`
}

// RemoteTracker is the remote issue API consumed by the sync and transition
// commands. All methods are fallible; implementations surface transport
// failures as ordinary errors, never panics.
type RemoteTracker interface {
	// TestConnection verifies host and credentials.
	TestConnection(ctx context.Context) error

	// FetchIssuesByFilter runs a flat filtered query, paginating until the
	// reported total is reached.
	FetchIssuesByFilter(ctx context.Context, filter string) ([]RawIssue, error)

	// FetchBoardForProject resolves a board for a project key, nil when the
	// project has none.
	FetchBoardForProject(ctx context.Context, projectKey string) (*Board, error)

	// FetchActiveSprint returns the board's current sprint, nil when none.
	FetchActiveSprint(ctx context.Context, boardID int) (*Sprint, error)

	// FetchSprintIssues lists the current user's issues in a sprint.
	FetchSprintIssues(ctx context.Context, sprintID int) ([]RawIssue, error)

	// FetchBacklogIssues lists the current user's backlog issues for a
	// project, excluding anything already associated with a sprint.
	FetchBacklogIssues(ctx context.Context, boardID int, projectKey string) ([]RawIssue, error)

	// AvailableTransitions lists the legal remote transitions for an issue.
	AvailableTransitions(ctx context.Context, issueKey string) ([]Transition, error)

	// ExecuteTransition performs a transition, with optional extra fields
	// (e.g. a resolution) attached to the request.
	ExecuteTransition(ctx context.Context, issueKey, transitionID string, extraFields map[string]any) error

	// UpdateFields writes issue fields remotely, best-effort.
	UpdateFields(ctx context.Context, issueKey string, fields map[string]any) error

	// FetchIssue fetches one issue by key, nil when it does not exist.
	FetchIssue(ctx context.Context, issueKey string) (*RawIssue, error)
}
