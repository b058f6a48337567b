package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"jiraflow/internal/domain"
)

func openTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	tasksDir := t.TempDir()
	idx := NewIndex()
	if err := idx.Open(tasksDir); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx, tasksDir
}

func writeRecordFile(t *testing.T, dir, name, key string, stage domain.Stage, archived bool) string {
	t.Helper()
	content := fmt.Sprintf(`---
jira_key: %s
source: JIRA
status: whatever
mapped_column: %s
summary: summary of %s
sprint: Sprint 7
due_date: "2026-03-20"
archived: %t
---

body
`, key, stage, key, archived)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSyncFullIndexesRecords(t *testing.T) {
	idx, tasksDir := openTestIndex(t)
	writeRecordFile(t, tasksDir, "PROJ-1 one.md", "PROJ-1", domain.StageExecution, false)
	writeRecordFile(t, tasksDir, "PROJ-2 two.md", "PROJ-2", domain.StageTodo, false)
	// Not a record file; must be skipped, not indexed and not fatal.
	if err := os.WriteFile(filepath.Join(tasksDir, "notes.md"), []byte("plain notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stats, err := idx.SyncFull()
	if err != nil {
		t.Fatalf("SyncFull() error = %v", err)
	}
	if stats.FilesScanned != 3 || stats.Added != 2 {
		t.Errorf("stats = %+v, want 3 scanned / 2 added", stats)
	}

	entry, err := idx.GetByKey("PROJ-1")
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || entry.Stage != domain.StageExecution || entry.Sprint != "Sprint 7" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.DueDate != "2026-03-20" {
		t.Errorf("DueDate = %q", entry.DueDate)
	}
}

func TestGetByKeyUnknown(t *testing.T) {
	idx, _ := openTestIndex(t)
	entry, err := idx.GetByKey("PROJ-404")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Errorf("entry = %+v, want nil", entry)
	}
}

func TestListEntriesSkipsArchived(t *testing.T) {
	idx, tasksDir := openTestIndex(t)
	writeRecordFile(t, tasksDir, "PROJ-1 a.md", "PROJ-1", domain.StageDone, true)
	writeRecordFile(t, tasksDir, "PROJ-2 b.md", "PROJ-2", domain.StageTodo, false)
	if _, err := idx.SyncFull(); err != nil {
		t.Fatal(err)
	}

	active, err := idx.ListEntries(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Key != "PROJ-2" {
		t.Errorf("active = %+v", active)
	}

	all, err := idx.ListEntries(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d entries, want 2", len(all))
	}
}

func TestCountByStage(t *testing.T) {
	idx, tasksDir := openTestIndex(t)
	writeRecordFile(t, tasksDir, "PROJ-1 a.md", "PROJ-1", domain.StageExecution, false)
	writeRecordFile(t, tasksDir, "PROJ-2 b.md", "PROJ-2", domain.StageExecution, false)
	writeRecordFile(t, tasksDir, "PROJ-3 c.md", "PROJ-3", domain.StageTodo, false)
	writeRecordFile(t, tasksDir, "PROJ-4 d.md", "PROJ-4", domain.StageDone, true)
	if _, err := idx.SyncFull(); err != nil {
		t.Fatal(err)
	}

	counts, err := idx.CountByStage()
	if err != nil {
		t.Fatal(err)
	}
	if counts[domain.StageExecution] != 2 || counts[domain.StageTodo] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if counts[domain.StageDone] != 0 {
		t.Errorf("archived record counted: %v", counts)
	}
}

func TestSyncIncremental(t *testing.T) {
	idx, tasksDir := openTestIndex(t)
	writeRecordFile(t, tasksDir, "PROJ-1 a.md", "PROJ-1", domain.StageTodo, false)
	if _, err := idx.SyncFull(); err != nil {
		t.Fatal(err)
	}

	// New file appears, old one survives untouched.
	writeRecordFile(t, tasksDir, "PROJ-2 b.md", "PROJ-2", domain.StageExecution, false)
	stats, err := idx.SyncIncremental()
	if err != nil {
		t.Fatalf("SyncIncremental() error = %v", err)
	}
	if stats.Added != 1 || stats.Removed != 0 {
		t.Errorf("stats = %+v, want 1 added / 0 removed", stats)
	}

	// File disappears.
	if err := os.Remove(filepath.Join(tasksDir, "PROJ-1 a.md")); err != nil {
		t.Fatal(err)
	}
	stats, err = idx.SyncIncremental()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Removed != 1 {
		t.Errorf("stats = %+v, want 1 removed", stats)
	}
	entry, err := idx.GetByKey("PROJ-1")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Errorf("removed record still indexed: %+v", entry)
	}
}

func TestNeedsFullRebuildAfterOpen(t *testing.T) {
	idx, _ := openTestIndex(t)
	if idx.NeedsFullRebuild() {
		t.Error("NeedsFullRebuild() = true right after Open")
	}
}

func TestStageFallsBackToStatusMapping(t *testing.T) {
	idx, tasksDir := openTestIndex(t)
	content := `---
jira_key: PROJ-9
status: In Progress
mapped_column: NOT A STAGE
summary: wrong column value
---
`
	if err := os.WriteFile(filepath.Join(tasksDir, "PROJ-9.md"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.SyncFull(); err != nil {
		t.Fatal(err)
	}

	entry, err := idx.GetByKey("PROJ-9")
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || entry.Stage != domain.StageExecution {
		t.Errorf("entry = %+v, want stage EXECUTION from status mapping", entry)
	}
}
