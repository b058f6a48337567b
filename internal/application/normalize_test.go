package application

import (
	"encoding/json"
	"testing"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

const rawIssueJSON = `{
	"key": "PROJ-42",
	"fields": {
		"summary": "Fix login redirect",
		"status": {"name": "In Progress 处理中"},
		"issuetype": {"name": "Bug"},
		"priority": {"name": "High"},
		"assignee": {"accountId": "abc", "displayName": "Dana"},
		"labels": ["auth", "Regression"],
		"created": "2026-02-01T09:30:00.000+0800",
		"updated": "2026-03-01T10:00:00.000+0800",
		"duedate": "2026-03-15",
		"sprint": ["Sprint@aa[id=3,name=Sprint 7,state=ACTIVE,startDate=null]"],
		"customfield_10111": 5,
		"customfield_10329": "2026-03-20T00:00:00.000+0800"
	}
}`

func decodeIssue(t *testing.T, data string) ports.RawIssue {
	t.Helper()
	var issue ports.RawIssue
	if err := json.Unmarshal([]byte(data), &issue); err != nil {
		t.Fatalf("decode issue: %v", err)
	}
	return issue
}

func TestNormalize(t *testing.T) {
	n := Normalizer{StoryPointsField: "customfield_10111", DueDateField: "customfield_10329"}
	record, err := n.Normalize(decodeIssue(t, rawIssueJSON))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if record.Key != "PROJ-42" {
		t.Errorf("key = %q", record.Key)
	}
	if record.Origin != domain.OriginRemote {
		t.Errorf("origin = %q", record.Origin)
	}
	if record.RawStatus != "In Progress 处理中" {
		t.Errorf("raw status = %q", record.RawStatus)
	}
	if record.Stage != domain.StageExecution {
		t.Errorf("stage = %q, want %q", record.Stage, domain.StageExecution)
	}
	if record.Category != "Bug" || record.Priority != "High" {
		t.Errorf("category/priority = %q/%q", record.Category, record.Priority)
	}
	if record.Assignee != "Dana" {
		t.Errorf("assignee = %q", record.Assignee)
	}
	if record.StoryPoints != 5 {
		t.Errorf("story points = %v", record.StoryPoints)
	}
	// Configured custom field wins over the standard duedate.
	if record.DueDate == nil || record.DueDate.Format("2006-01-02") != "2026-03-20" {
		t.Errorf("due date = %v, want 2026-03-20", record.DueDate)
	}
	if record.SprintName != "Sprint 7" || record.SprintState != "ACTIVE" {
		t.Errorf("sprint = %q/%q", record.SprintName, record.SprintState)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Error("timestamps not parsed")
	}
}

func TestNormalize_Tags(t *testing.T) {
	n := Normalizer{}
	record, err := n.Normalize(decodeIssue(t, rawIssueJSON))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := []string{
		"jira/status/in-progress-处理中",
		"jira/type/bug",
		"jira/source/jira",
		"jira/label/auth",
		"jira/label/regression",
	}
	if len(record.Tags) != len(want) {
		t.Fatalf("tags = %v", record.Tags)
	}
	for i, tag := range want {
		if record.Tags[i] != tag {
			t.Errorf("tag[%d] = %q, want %q", i, record.Tags[i], tag)
		}
	}
}

func TestNormalize_Defaults(t *testing.T) {
	minimal := `{
		"key": "PROJ-7",
		"fields": {
			"summary": "Bare issue",
			"status": {"name": "Something Unrecognizable"},
			"issuetype": {"name": "Task"},
			"priority": {"name": "Medium"}
		}
	}`
	n := Normalizer{StoryPointsField: "customfield_10111", DueDateField: "customfield_10329"}
	record, err := n.Normalize(decodeIssue(t, minimal))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if record.Stage != domain.StageTodo {
		t.Errorf("unknown status mapped to %q, want TO DO", record.Stage)
	}
	if record.StoryPoints != 0 {
		t.Errorf("story points = %v, want 0", record.StoryPoints)
	}
	if record.DueDate != nil {
		t.Errorf("due date = %v, want nil", record.DueDate)
	}
	if record.Assignee != "" {
		t.Errorf("assignee = %q, want empty", record.Assignee)
	}
}

func TestNormalize_NonNumericStoryPoints(t *testing.T) {
	issue := `{
		"key": "PROJ-8",
		"fields": {
			"summary": "Weird points",
			"status": {"name": "To Do"},
			"issuetype": {"name": "Story"},
			"priority": {"name": "Low"},
			"customfield_10111": "XL"
		}
	}`
	n := Normalizer{StoryPointsField: "customfield_10111"}
	record, err := n.Normalize(decodeIssue(t, issue))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if record.StoryPoints != 0 {
		t.Errorf("story points = %v, want 0", record.StoryPoints)
	}
}

func TestNormalize_MissingKeyFails(t *testing.T) {
	n := Normalizer{}
	_, err := n.Normalize(ports.RawIssue{})
	if err == nil {
		t.Fatal("expected error for issue without key")
	}
}

func TestNormalize_DueDateFallback(t *testing.T) {
	issue := `{
		"key": "PROJ-9",
		"fields": {
			"summary": "Fallback due date",
			"status": {"name": "To Do"},
			"issuetype": {"name": "Story"},
			"priority": {"name": "Low"},
			"duedate": "2026-04-01"
		}
	}`
	n := Normalizer{DueDateField: "customfield_10329"}
	record, err := n.Normalize(decodeIssue(t, issue))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if record.DueDate == nil || record.DueDate.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("due date = %v, want 2026-04-01", record.DueDate)
	}
}
