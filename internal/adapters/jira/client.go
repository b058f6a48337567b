// Package jira implements ports.RemoteTracker against the Jira REST and
// Agile HTTP APIs.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"jiraflow/internal/ports"
)

// APIError is a non-2xx answer from the remote tracker, with the error
// messages Jira includes in its body.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("jira: HTTP %d", e.Status)
	}
	return fmt.Sprintf("jira: HTTP %d: %s", e.Status, e.Detail)
}

// MissingResolution reports whether the error is Jira complaining about an
// absent resolution field on a transition into a done-category status.
func (e *APIError) MissingResolution() bool {
	return strings.Contains(strings.ToLower(e.Detail), "resolution")
}

// Client talks to one Jira instance with basic auth.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

var _ ports.RemoteTracker = (*Client)(nil)

// NewClient creates a client for the given host. The host may be entered
// with or without scheme and trailing slash.
func NewClient(host, email, apiToken string) *Client {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	if host != "" && !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return &Client{
		baseURL:  host,
		email:    email,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Host returns the configured base URL.
func (c *Client) Host() string {
	return c.baseURL
}

// issueFieldsParam is the field list requested on searches and single-issue
// fetches. Custom fields ride along via *all, which Jira expands to every
// field; the narrower list keeps payloads small where custom fields are not
// needed, so searches ask for everything explicitly.
const issueFieldsParam = "*all"

// TestConnection verifies host and credentials against the current-user
// endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/rest/api/2/myself")
	if err != nil {
		return fmt.Errorf("test connection: %w", err)
	}
	return nil
}

type searchResult struct {
	StartAt    int              `json:"startAt"`
	MaxResults int              `json:"maxResults"`
	Total      int              `json:"total"`
	Issues     []ports.RawIssue `json:"issues"`
}

// FetchIssuesByFilter runs a JQL search, paginating until the reported
// total is reached.
func (c *Client) FetchIssuesByFilter(ctx context.Context, filter string) ([]ports.RawIssue, error) {
	var all []ports.RawIssue
	startAt := 0
	const pageSize = 50

	for {
		params := url.Values{
			"jql":        {filter},
			"fields":     {issueFieldsParam},
			"startAt":    {fmt.Sprintf("%d", startAt)},
			"maxResults": {fmt.Sprintf("%d", pageSize)},
		}
		body, err := c.get(ctx, c.baseURL+"/rest/api/2/search?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("search issues: %w", err)
		}

		var result searchResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("parse search response: %w", err)
		}
		all = append(all, result.Issues...)

		if len(result.Issues) == 0 || startAt+len(result.Issues) >= result.Total {
			break
		}
		startAt += len(result.Issues)
	}
	return all, nil
}

type boardList struct {
	Values []ports.Board `json:"values"`
}

// FetchBoardForProject resolves the project's board, preferring a scrum
// board when the project has several. Returns nil when the project has no
// board at all.
func (c *Client) FetchBoardForProject(ctx context.Context, projectKey string) (*ports.Board, error) {
	params := url.Values{"projectKeyOrId": {projectKey}}
	body, err := c.get(ctx, c.baseURL+"/rest/agile/1.0/board?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch board for %s: %w", projectKey, err)
	}

	var result boardList
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse board response: %w", err)
	}
	if len(result.Values) == 0 {
		return nil, nil
	}
	for i := range result.Values {
		if strings.EqualFold(result.Values[i].Type, "scrum") {
			return &result.Values[i], nil
		}
	}
	return &result.Values[0], nil
}

type sprintList struct {
	Values []ports.Sprint `json:"values"`
}

// FetchActiveSprint returns the board's active sprint, nil when the board
// has none running.
func (c *Client) FetchActiveSprint(ctx context.Context, boardID int) (*ports.Sprint, error) {
	params := url.Values{"state": {"active"}}
	apiURL := fmt.Sprintf("%s/rest/agile/1.0/board/%d/sprint?%s", c.baseURL, boardID, params.Encode())
	body, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("fetch active sprint: %w", err)
	}

	var result sprintList
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse sprint response: %w", err)
	}
	if len(result.Values) == 0 {
		return nil, nil
	}
	return &result.Values[0], nil
}

type agileIssueList struct {
	StartAt    int              `json:"startAt"`
	MaxResults int              `json:"maxResults"`
	Total      int              `json:"total"`
	Issues     []ports.RawIssue `json:"issues"`
}

// FetchSprintIssues lists the current user's unresolved issues in a sprint.
func (c *Client) FetchSprintIssues(ctx context.Context, sprintID int) ([]ports.RawIssue, error) {
	base := fmt.Sprintf("%s/rest/agile/1.0/sprint/%d/issue", c.baseURL, sprintID)
	issues, err := c.fetchAgileIssues(ctx, base, "assignee = currentUser()")
	if err != nil {
		return nil, fmt.Errorf("fetch sprint %d issues: %w", sprintID, err)
	}
	return issues, nil
}

// FetchBacklogIssues lists the current user's backlog issues for a project.
// Issues already associated with a sprint are dropped: the sprint fetch owns
// them.
func (c *Client) FetchBacklogIssues(ctx context.Context, boardID int, projectKey string) ([]ports.RawIssue, error) {
	base := fmt.Sprintf("%s/rest/agile/1.0/board/%d/backlog", c.baseURL, boardID)
	jql := fmt.Sprintf("assignee = currentUser() AND project = %s", projectKey)
	issues, err := c.fetchAgileIssues(ctx, base, jql)
	if err != nil {
		return nil, fmt.Errorf("fetch backlog issues: %w", err)
	}

	filtered := issues[:0]
	for _, issue := range issues {
		if !issue.Fields.HasSprint() {
			filtered = append(filtered, issue)
		}
	}
	return filtered, nil
}

func (c *Client) fetchAgileIssues(ctx context.Context, base, jql string) ([]ports.RawIssue, error) {
	var all []ports.RawIssue
	startAt := 0
	const pageSize = 100

	for {
		params := url.Values{
			"jql":        {jql},
			"fields":     {issueFieldsParam},
			"startAt":    {fmt.Sprintf("%d", startAt)},
			"maxResults": {fmt.Sprintf("%d", pageSize)},
		}
		body, err := c.get(ctx, base+"?"+params.Encode())
		if err != nil {
			return nil, err
		}

		var result agileIssueList
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("parse issue list: %w", err)
		}
		all = append(all, result.Issues...)

		if len(result.Issues) == 0 || startAt+len(result.Issues) >= result.Total {
			break
		}
		startAt += len(result.Issues)
	}
	return all, nil
}

type transitionList struct {
	Transitions []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		To   struct {
			Name string `json:"name"`
		} `json:"to"`
	} `json:"transitions"`
}

// AvailableTransitions lists the legal remote transitions for an issue.
func (c *Client) AvailableTransitions(ctx context.Context, issueKey string) ([]ports.Transition, error) {
	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s/transitions", c.baseURL, url.PathEscape(issueKey))
	body, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("fetch transitions for %s: %w", issueKey, err)
	}

	var result transitionList
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse transitions response: %w", err)
	}

	transitions := make([]ports.Transition, 0, len(result.Transitions))
	for _, t := range result.Transitions {
		transitions = append(transitions, ports.Transition{
			ID:   t.ID,
			Name: t.Name,
			To:   t.To.Name,
		})
	}
	return transitions, nil
}

// ExecuteTransition performs a transition, attaching extra fields (such as
// a resolution) when given.
func (c *Client) ExecuteTransition(ctx context.Context, issueKey, transitionID string, extraFields map[string]any) error {
	payload := map[string]any{
		"transition": map[string]any{"id": transitionID},
	}
	if len(extraFields) > 0 {
		payload["fields"] = extraFields
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal transition request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s/transitions", c.baseURL, url.PathEscape(issueKey))
	if _, err := c.do(ctx, http.MethodPost, apiURL, data); err != nil {
		return fmt.Errorf("transition %s: %w", issueKey, err)
	}
	return nil
}

// UpdateFields writes issue fields remotely.
func (c *Client) UpdateFields(ctx context.Context, issueKey string, fields map[string]any) error {
	data, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s", c.baseURL, url.PathEscape(issueKey))
	if _, err := c.do(ctx, http.MethodPut, apiURL, data); err != nil {
		return fmt.Errorf("update %s: %w", issueKey, err)
	}
	return nil
}

// FetchIssue fetches one issue by key, nil when the remote does not know it.
func (c *Client) FetchIssue(ctx context.Context, issueKey string) (*ports.RawIssue, error) {
	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=%s", c.baseURL, url.PathEscape(issueKey), issueFieldsParam)
	body, err := c.get(ctx, apiURL)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch issue %s: %w", issueKey, err)
	}

	var issue ports.RawIssue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("parse issue response: %w", err)
	}
	return &issue, nil
}

// get performs a GET with retry on transient failures. GETs are idempotent,
// so retries are safe; writes go through do and never retry.
func (c *Client) get(ctx context.Context, apiURL string) ([]byte, error) {
	var body []byte
	operation := func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, apiURL, nil)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// do executes one authenticated request and returns the response body. A
// non-2xx status becomes an *APIError carrying the messages from the body.
func (c *Client) do(ctx context.Context, method, apiURL string, payload []byte) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("jira host not configured")
	}
	if c.apiToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Detail: errorDetail(body)}
	}
	return body, nil
}

// errorDetail extracts Jira's error messages from a failure body. Jira
// reports both a flat errorMessages list and a field-keyed errors map; both
// are joined into one line.
func errorDetail(body []byte) string {
	var parsed struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return strings.TrimSpace(string(body))
	}

	parts := parsed.ErrorMessages
	for field, msg := range parsed.Errors {
		parts = append(parts, field+": "+msg)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(string(body))
	}
	return strings.Join(parts, "; ")
}
