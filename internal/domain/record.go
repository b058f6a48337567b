package domain

import (
	"fmt"
	"strings"
	"time"
)

// Origin tells whether a record is mirrored from the remote tracker or
// authored locally. Immutable once the record exists.
type Origin string

const (
	OriginRemote Origin = "JIRA"
	OriginLocal  Origin = "LOCAL"
)

// LocalKeyPrefix prefixes keys of locally authored records.
const LocalKeyPrefix = "LOCAL-"

// NewLocalKey builds a key for a locally authored record from a timestamp.
func NewLocalKey(t time.Time) string {
	return fmt.Sprintf("%s%d", LocalKeyPrefix, t.UnixMilli())
}

// CanonicalRecord is the normalized, storage-agnostic representation of one
// issue, local or remote-mirrored. One record per file in the vault.
type CanonicalRecord struct {
	// Key is the globally unique identifier: <PROJECT>-<NUMBER> for remote
	// records, LOCAL-<timestamp> for local ones. Immutable.
	Key    string
	Origin Origin

	// RawStatus is the remote tracker's free-text status label. Empty for
	// local records, where Stage is authoritative.
	RawStatus string
	Stage     Stage

	Category    string
	Priority    string
	Summary     string
	Assignee    string
	StoryPoints float64

	// DueDate is nil when the record has no planned end.
	DueDate *time.Time

	SprintName  string
	SprintState string

	Tags []string

	CreatedAt time.Time
	UpdatedAt time.Time

	Archived   bool
	ArchivedAt time.Time
}

// StatusTag returns the tag encoding a stage, kept in sync with Stage by the
// record store.
func StatusTag(stage Stage) string {
	return "jira/status/" + slugify(string(stage))
}

// TypeTag returns the tag encoding the issue category.
func TypeTag(category string) string {
	return "jira/type/" + slugify(category)
}

// SourceTag returns the tag encoding the record origin.
func SourceTag(origin Origin) string {
	if origin == OriginLocal {
		return "jira/source/local"
	}
	return "jira/source/jira"
}

// LabelTag returns the tag for a remote label.
func LabelTag(label string) string {
	return "jira/label/" + slugify(label)
}

// slugify lowercases a label and collapses whitespace runs into hyphens so
// it can live inside a tag.
func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// SyncError records one record's failure inside an otherwise successful pass.
type SyncError struct {
	Key     string
	Message string
}

func (e SyncError) String() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// SyncResult aggregates the outcome of one reconciliation pass. Per-record
// failures are collected here; only pass-level infrastructure failures
// (cannot reach the remote at all) surface as errors.
type SyncResult struct {
	Created int
	Updated int
	Errors  []SyncError
}
