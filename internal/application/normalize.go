package application

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// Normalizer transforms raw remote issues into canonical records. It is a
// pure transform: no I/O, deterministic for a given configuration.
type Normalizer struct {
	// StoryPointsField names the custom field carrying story points.
	StoryPointsField string

	// DueDateField names the custom field carrying the planned end date.
	// Which field has that meaning is deployment-specific; the standard
	// duedate field is the fallback.
	DueDateField string
}

// Normalize builds the canonical record for one raw issue. Malformed sprint
// data never fails the record; a missing key does, since the record would
// have no identity.
func (n Normalizer) Normalize(issue ports.RawIssue) (domain.CanonicalRecord, error) {
	if strings.TrimSpace(issue.Key) == "" {
		return domain.CanonicalRecord{}, fmt.Errorf("issue has no key")
	}

	f := issue.Fields
	status := f.Status.Name
	stage := domain.MapStatus(status)
	sprint := domain.ParseSprintField(f.Sprint)

	record := domain.CanonicalRecord{
		Key:         issue.Key,
		Origin:      domain.OriginRemote,
		RawStatus:   status,
		Stage:       stage,
		Category:    f.IssueType.Name,
		Priority:    f.Priority.Name,
		Summary:     f.Summary,
		StoryPoints: n.storyPoints(f),
		DueDate:     n.dueDate(f),
		SprintName:  sprint.Name,
		SprintState: sprint.State,
		Tags:        buildTags(status, f.IssueType.Name, f.Labels),
		CreatedAt:   parseRemoteTime(f.Created),
		UpdatedAt:   parseRemoteTime(f.Updated),
	}
	if f.Assignee != nil {
		record.Assignee = f.Assignee.DisplayName
	}
	return record, nil
}

// storyPoints reads the configured custom field, defaulting to 0 when the
// field is absent or not a number.
func (n Normalizer) storyPoints(f ports.IssueFields) float64 {
	raw, ok := f.Custom[n.StoryPointsField]
	if !ok {
		return 0
	}
	var points float64
	if err := json.Unmarshal(raw, &points); err != nil {
		return 0
	}
	if points < 0 {
		return 0
	}
	return points
}

// dueDate prefers the configured planned-end custom field and falls back to
// the standard due date field.
func (n Normalizer) dueDate(f ports.IssueFields) *time.Time {
	if raw, ok := f.Custom[n.DueDateField]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if t, ok := parseRemoteDate(s); ok {
				return &t
			}
		}
	}
	if t, ok := parseRemoteDate(f.DueDate); ok {
		return &t
	}
	return nil
}

func buildTags(status, category string, labels []string) []string {
	tags := []string{
		domain.StatusTag(domain.Stage(status)),
		domain.TypeTag(category),
		domain.SourceTag(domain.OriginRemote),
	}
	for _, label := range labels {
		tags = append(tags, domain.LabelTag(label))
	}
	return tags
}

// remoteTimeLayouts covers the timestamp shapes the remote emits.
var remoteTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
	"2006-01-02",
}

func parseRemoteTime(s string) time.Time {
	for _, layout := range remoteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseRemoteDate reads a date-only value, tolerating a trailing time part.
func parseRemoteDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
