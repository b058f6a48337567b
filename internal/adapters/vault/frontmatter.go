package vault

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jiraflow/internal/domain"
)

const (
	frontMatterDelim = "---"
	dateLayout       = "2006-01-02"
)

// frontMatter is the on-disk metadata block of one record file. Extra keeps
// every key the store does not own, so user-added front matter survives
// merge updates.
type frontMatter struct {
	Key          string         `yaml:"jira_key"`
	Source       string         `yaml:"source"`
	Status       string         `yaml:"status"`
	Stage        string         `yaml:"mapped_column"`
	IssueType    string         `yaml:"issuetype"`
	Priority     string         `yaml:"priority"`
	StoryPoints  float64        `yaml:"story_points"`
	DueDate      string         `yaml:"due_date"`
	Assignee     string         `yaml:"assignee"`
	Sprint       string         `yaml:"sprint"`
	SprintState  string         `yaml:"sprint_state"`
	Summary      string         `yaml:"summary"`
	Created      string         `yaml:"created"`
	Updated      string         `yaml:"updated"`
	Archived     bool           `yaml:"archived,omitempty"`
	ArchivedDate string         `yaml:"archived_date,omitempty"`
	Tags         []string       `yaml:"tags"`
	Extra        map[string]any `yaml:",inline"`
}

func recordToFrontMatter(r domain.CanonicalRecord) frontMatter {
	fm := frontMatter{
		Key:         r.Key,
		Source:      string(r.Origin),
		Status:      r.RawStatus,
		Stage:       string(r.Stage),
		IssueType:   r.Category,
		Priority:    r.Priority,
		StoryPoints: r.StoryPoints,
		Assignee:    r.Assignee,
		Sprint:      r.SprintName,
		SprintState: r.SprintState,
		Summary:     r.Summary,
		Tags:        r.Tags,
		Archived:    r.Archived,
	}
	if r.DueDate != nil {
		fm.DueDate = r.DueDate.Format(dateLayout)
	}
	if !r.CreatedAt.IsZero() {
		fm.Created = r.CreatedAt.Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		fm.Updated = r.UpdatedAt.Format(time.RFC3339)
	}
	if !r.ArchivedAt.IsZero() {
		fm.ArchivedDate = r.ArchivedAt.Format(time.RFC3339)
	}
	// Local records have no remote status label; the stage doubles as the
	// displayed status.
	if fm.Status == "" && r.Origin == domain.OriginLocal {
		fm.Status = string(r.Stage)
	}
	return fm
}

func (fm frontMatter) toRecord() domain.CanonicalRecord {
	origin := domain.Origin(fm.Source)
	if origin != domain.OriginLocal {
		origin = domain.OriginRemote
	}

	stage := domain.Stage(fm.Stage)
	if !domain.KnownStage(stage) {
		// Files written before a stage existed, or touched by hand, still
		// land on a valid column.
		stage = domain.MapStatus(fm.Status)
	}

	r := domain.CanonicalRecord{
		Key:         fm.Key,
		Origin:      origin,
		RawStatus:   fm.Status,
		Stage:       stage,
		Category:    fm.IssueType,
		Priority:    fm.Priority,
		StoryPoints: fm.StoryPoints,
		Assignee:    fm.Assignee,
		SprintName:  fm.Sprint,
		SprintState: fm.SprintState,
		Summary:     fm.Summary,
		Tags:        fm.Tags,
		Archived:    fm.Archived,
	}
	if t, err := time.Parse(dateLayout, fm.DueDate); err == nil {
		r.DueDate = &t
	}
	if t, err := time.Parse(time.RFC3339, fm.Created); err == nil {
		r.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, fm.Updated); err == nil {
		r.UpdatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, fm.ArchivedDate); err == nil {
		r.ArchivedAt = t
	}
	return r
}

// encodeFile renders a complete record file: front matter block then body.
func encodeFile(fm frontMatter, body string) ([]byte, error) {
	meta, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(meta)
	buf.WriteString(frontMatterDelim + "\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// parseFile splits a record file into its front matter and body.
func parseFile(data []byte) (frontMatter, string, error) {
	var fm frontMatter

	content := string(data)
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return fm, "", fmt.Errorf("missing front matter block")
	}
	rest := content[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	var meta, body string
	if end < 0 {
		// Tolerate a file that is nothing but front matter.
		if strings.HasSuffix(rest, "\n"+frontMatterDelim) {
			meta = rest[:len(rest)-len(frontMatterDelim)-1]
		} else {
			return fm, "", fmt.Errorf("unterminated front matter block")
		}
	} else {
		meta = rest[:end]
		body = rest[end+len(frontMatterDelim)+2:]
	}

	if err := yaml.Unmarshal([]byte(meta+"\n"), &fm); err != nil {
		return fm, "", fmt.Errorf("parse front matter: %w", err)
	}
	return fm, body, nil
}

// initialBody is the body written for a freshly created record file.
func initialBody(key, summary, description string) string {
	var buf strings.Builder
	buf.WriteString("\n# [" + key + "] " + summary + "\n\n")
	buf.WriteString("## Description\n")
	buf.WriteString(description)
	if !strings.HasSuffix(description, "\n") {
		buf.WriteString("\n")
	}
	return buf.String()
}
