package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"jiraflow/internal/application"
	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// Store implements ports.RecordStore on a folder of markdown files, one
// record per file, metadata in YAML front matter.
type Store struct {
	tasksDir string
	now      func() time.Time
}

// Ensure Store implements RecordStore
var _ ports.RecordStore = (*Store)(nil)

// NewStore creates a record store over the given tasks folder.
func NewStore(tasksDir string) *Store {
	return &Store{
		tasksDir: expandHome(tasksDir),
		now:      time.Now,
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return path
}

// TasksDir returns the managed folder.
func (s *Store) TasksDir() string {
	return s.tasksDir
}

// EnsureFolders creates the tasks folder when absent. Idempotent.
func (s *Store) EnsureFolders() error {
	if err := os.MkdirAll(s.tasksDir, 0755); err != nil {
		return fmt.Errorf("create tasks folder: %w", err)
	}
	return nil
}

// sanitizeFilename strips characters that are invalid in filenames and
// collapses whitespace runs, so a human-entered summary can safely become
// part of a path.
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
		"\"", "-", "<", "-", ">", "-", "|", "-",
	)
	cleaned := replacer.Replace(s)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	const maxLen = 80
	if len(cleaned) > maxLen {
		cleaned = strings.TrimSpace(cleaned[:maxLen])
	}
	return cleaned
}

// currentPath is the naming convention in use: key plus sanitized summary.
func (s *Store) currentPath(key, summary string) string {
	name := key
	if cleaned := sanitizeFilename(summary); cleaned != "" {
		name = key + " " + cleaned
	}
	return filepath.Join(s.tasksDir, name+".md")
}

// legacyPath is the original key-only convention. Files created before the
// naming change still live here.
func (s *Store) legacyPath(key string) string {
	return filepath.Join(s.tasksDir, key+".md")
}

// resolver is one strategy for locating a record's file. A format change
// means appending a strategy, not rewriting the lookup.
type resolver func(key, summary string) (*ports.RecordHandle, error)

func (s *Store) resolvers() []resolver {
	return []resolver{s.resolveCurrent, s.resolveLegacy, s.resolveScan}
}

func (s *Store) resolveCurrent(key, summary string) (*ports.RecordHandle, error) {
	return handleIfExists(s.currentPath(key, summary))
}

func (s *Store) resolveLegacy(key, _ string) (*ports.RecordHandle, error) {
	return handleIfExists(s.legacyPath(key))
}

// resolveScan walks every managed file and matches on the key field. Last
// resort: catches files renamed by the user.
func (s *Store) resolveScan(key, _ string) (*ports.RecordHandle, error) {
	var found *ports.RecordHandle
	err := s.walkRecords(func(path string, fm frontMatter, _ string) bool {
		if fm.Key == key {
			found = &ports.RecordHandle{Path: path}
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func handleIfExists(path string) (*ports.RecordHandle, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, nil
	}
	return &ports.RecordHandle{Path: path}, nil
}

// FindExisting resolves the file for a record key, trying each strategy in
// order. Returns nil when no file exists.
func (s *Store) FindExisting(key, summary string) (*ports.RecordHandle, error) {
	for _, resolve := range s.resolvers() {
		handle, err := resolve(key, summary)
		if err != nil {
			return nil, err
		}
		if handle != nil {
			return handle, nil
		}
	}
	return nil, nil
}

// Upsert creates the record's file or merge-updates the existing one. The
// merge overwrites only fields the store owns; unknown front matter keys
// and the body are preserved. A second call with identical input writes
// nothing.
func (s *Store) Upsert(record domain.CanonicalRecord, body string) (bool, error) {
	if err := s.EnsureFolders(); err != nil {
		return false, err
	}

	handle, err := s.FindExisting(record.Key, record.Summary)
	if err != nil {
		return false, err
	}

	if handle == nil {
		fm := recordToFrontMatter(record)
		content, err := encodeFile(fm, initialBody(record.Key, record.Summary, body))
		if err != nil {
			return false, err
		}
		path := s.currentPath(record.Key, record.Summary)
		if err := atomicWrite(path, content); err != nil {
			return false, fmt.Errorf("create %s: %w", record.Key, err)
		}
		return true, nil
	}

	data, err := os.ReadFile(handle.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", handle.Path, err)
	}
	existing, existingBody, err := parseFile(data)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", handle.Path, err)
	}

	merged := mergeFrontMatter(existing, record)
	if reflect.DeepEqual(existing, merged) {
		return false, nil
	}

	content, err := encodeFile(merged, existingBody)
	if err != nil {
		return false, err
	}
	if err := atomicWrite(handle.Path, content); err != nil {
		return false, fmt.Errorf("update %s: %w", record.Key, err)
	}
	return false, nil
}

// mergeFrontMatter applies the synced fields onto an existing block.
// Creation time, archive state and unknown keys belong to the file, not the
// sync, and pass through untouched.
func mergeFrontMatter(existing frontMatter, record domain.CanonicalRecord) frontMatter {
	incoming := recordToFrontMatter(record)

	merged := existing
	merged.Key = incoming.Key
	merged.Source = incoming.Source
	merged.Status = incoming.Status
	merged.Stage = incoming.Stage
	merged.IssueType = incoming.IssueType
	merged.Priority = incoming.Priority
	merged.StoryPoints = incoming.StoryPoints
	merged.DueDate = incoming.DueDate
	merged.Assignee = incoming.Assignee
	merged.Sprint = incoming.Sprint
	merged.SprintState = incoming.SprintState
	merged.Summary = incoming.Summary
	merged.Updated = incoming.Updated
	merged.Tags = incoming.Tags
	if merged.Created == "" {
		merged.Created = incoming.Created
	}
	return merged
}

// Read parses the record behind a handle.
func (s *Store) Read(handle ports.RecordHandle) (domain.CanonicalRecord, error) {
	data, err := os.ReadFile(handle.Path)
	if err != nil {
		return domain.CanonicalRecord{}, fmt.Errorf("read %s: %w", handle.Path, err)
	}
	fm, _, err := parseFile(data)
	if err != nil {
		return domain.CanonicalRecord{}, fmt.Errorf("parse %s: %w", handle.Path, err)
	}
	return fm.toRecord(), nil
}

// UpdateStage moves a record to a new stage. The stage field and the tag
// that encodes it change together in one atomic full-file rewrite, so no
// reader can see them disagree and an interruption loses nothing.
func (s *Store) UpdateStage(handle ports.RecordHandle, stage domain.Stage) error {
	return s.rewrite(handle, func(fm *frontMatter) {
		fm.Stage = string(stage)
		fm.Status = string(stage)
		for i, tag := range fm.Tags {
			if strings.HasPrefix(tag, "jira/status/") {
				fm.Tags[i] = domain.StatusTag(stage)
				break
			}
		}
	})
}

// Archive soft-archives the record: flag plus timestamp, never deletion.
func (s *Store) Archive(handle ports.RecordHandle) error {
	return s.rewrite(handle, func(fm *frontMatter) {
		fm.Archived = true
		fm.ArchivedDate = s.now().Format(time.RFC3339)
	})
}

// Unarchive clears the archive flag.
func (s *Store) Unarchive(handle ports.RecordHandle) error {
	return s.rewrite(handle, func(fm *frontMatter) {
		fm.Archived = false
		fm.ArchivedDate = ""
	})
}

// Delete removes a locally authored record's file. Remote-mirrored records
// are refused: the system never hard-deletes what it mirrors.
func (s *Store) Delete(handle ports.RecordHandle) error {
	record, err := s.Read(handle)
	if err != nil {
		return err
	}
	if record.Origin != domain.OriginLocal {
		return fmt.Errorf("delete %s: %w", record.Key, application.ErrRemoteOrigin)
	}
	return os.Remove(handle.Path)
}

// rewrite applies fn to the front matter and writes the whole file back
// atomically, body untouched.
func (s *Store) rewrite(handle ports.RecordHandle, fn func(*frontMatter)) error {
	data, err := os.ReadFile(handle.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", handle.Path, err)
	}
	fm, body, err := parseFile(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", handle.Path, err)
	}
	fn(&fm)
	content, err := encodeFile(fm, body)
	if err != nil {
		return err
	}
	return atomicWrite(handle.Path, content)
}

// List returns all managed records.
func (s *Store) List(includeArchived bool) ([]ports.StoredRecord, error) {
	var records []ports.StoredRecord
	err := s.walkRecords(func(path string, fm frontMatter, _ string) bool {
		if fm.Archived && !includeArchived {
			return true
		}
		records = append(records, ports.StoredRecord{
			Handle: ports.RecordHandle{Path: path},
			Record: fm.toRecord(),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// walkRecords visits every parseable record file. Unparseable files are
// skipped, not fatal; one bad file must not hide the rest of the board.
func (s *Store) walkRecords(visit func(path string, fm frontMatter, body string) bool) error {
	entries, err := os.ReadDir(s.tasksDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read tasks folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			continue
		}
		path := filepath.Join(s.tasksDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fm, body, err := parseFile(data)
		if err != nil {
			continue
		}
		if !visit(path, fm, body) {
			return nil
		}
	}
	return nil
}

// atomicWrite writes content via a temp file in the same directory and a
// rename, so a crash mid-write leaves either the old file or the new one,
// never a torn mix.
func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jiraflow-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
