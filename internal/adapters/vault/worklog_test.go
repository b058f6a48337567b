package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

func TestLogCompletionCreatesDailyNote(t *testing.T) {
	dir := t.TempDir()
	log := NewDailyWorkLog(dir)
	record := domain.CanonicalRecord{Key: "PROJ-1", Summary: "Fix login bug"}
	handle := ports.RecordHandle{Path: "/vault/Tasks/PROJ-1 Fix login bug.md"}
	when := time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)

	if err := log.LogCompletion(record, handle, when); err != nil {
		t.Fatalf("LogCompletion() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-03-10.md"))
	if err != nil {
		t.Fatalf("daily note not created: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# 2026-03-10\n") {
		t.Errorf("note missing date heading:\n%s", content)
	}
	if !strings.Contains(content, "### Work Log\n- [x] [[PROJ-1 Fix login bug]] - Fix login bug (PROJ-1)") {
		t.Errorf("note missing work log entry:\n%s", content)
	}
}

func TestLogCompletionAppendsUnderExistingHeading(t *testing.T) {
	dir := t.TempDir()
	note := "# 2026-03-10\n\nmorning notes\n\n### Work Log\n- [x] [[OTHER-1]] - earlier (OTHER-1)\n\n## Later\nmore text\n"
	if err := os.WriteFile(filepath.Join(dir, "2026-03-10.md"), []byte(note), 0644); err != nil {
		t.Fatal(err)
	}

	log := NewDailyWorkLog(dir)
	record := domain.CanonicalRecord{Key: "PROJ-2", Summary: "Ship it"}
	handle := ports.RecordHandle{Path: "/vault/Tasks/PROJ-2 Ship it.md"}
	when := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	if err := log.LogCompletion(record, handle, when); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-03-10.md"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "### Work Log\n- [x] [[PROJ-2 Ship it]] - Ship it (PROJ-2)\n- [x] [[OTHER-1]]") {
		t.Errorf("new entry not inserted under heading:\n%s", content)
	}
	if !strings.Contains(content, "morning notes") || !strings.Contains(content, "## Later\nmore text") {
		t.Errorf("surrounding note content disturbed:\n%s", content)
	}
}

func TestLogCompletionIsIdempotentPerDay(t *testing.T) {
	dir := t.TempDir()
	log := NewDailyWorkLog(dir)
	record := domain.CanonicalRecord{Key: "PROJ-3", Summary: "Once only"}
	handle := ports.RecordHandle{Path: "/vault/Tasks/PROJ-3 Once only.md"}
	when := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := log.LogCompletion(record, handle, when); err != nil {
		t.Fatal(err)
	}
	if err := log.LogCompletion(record, handle, when); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-03-11.md"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "(PROJ-3)"); got != 1 {
		t.Errorf("entry logged %d times, want 1", got)
	}
}

func TestLogCompletionAddsHeadingWhenMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2026-03-12.md"), []byte("# 2026-03-12\n\nfree-form notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	log := NewDailyWorkLog(dir)
	record := domain.CanonicalRecord{Key: "PROJ-4", Summary: "Late add"}
	handle := ports.RecordHandle{Path: "/vault/Tasks/PROJ-4 Late add.md"}
	when := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	if err := log.LogCompletion(record, handle, when); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-03-12.md"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "free-form notes") {
		t.Error("existing note content lost")
	}
	if !strings.Contains(content, "### Work Log\n- [x] [[PROJ-4 Late add]] - Late add (PROJ-4)") {
		t.Errorf("heading and entry not appended:\n%s", content)
	}
}
