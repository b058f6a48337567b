package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

const workLogHeading = "### Work Log"

// DailyWorkLog appends completion entries under a heading in the user's
// daily note.
type DailyWorkLog struct {
	dailyDir string
}

var _ ports.WorkLog = (*DailyWorkLog)(nil)

// NewDailyWorkLog creates a work log over the given daily-notes folder.
func NewDailyWorkLog(dailyDir string) *DailyWorkLog {
	return &DailyWorkLog{dailyDir: expandHome(dailyDir)}
}

// LogCompletion records a finished task in the daily note for the given
// day, creating the note and the heading when absent. Logging the same
// record twice in one day is a no-op.
func (w *DailyWorkLog) LogCompletion(record domain.CanonicalRecord, handle ports.RecordHandle, when time.Time) error {
	if err := os.MkdirAll(w.dailyDir, 0755); err != nil {
		return fmt.Errorf("create daily folder: %w", err)
	}

	day := when.Format("2006-01-02")
	notePath := filepath.Join(w.dailyDir, day+".md")

	basename := strings.TrimSuffix(filepath.Base(handle.Path), ".md")
	entry := fmt.Sprintf("- [x] [[%s]] - %s (%s)", basename, record.Summary, record.Key)

	data, err := os.ReadFile(notePath)
	if os.IsNotExist(err) {
		content := fmt.Sprintf("# %s\n\n%s\n%s\n", day, workLogHeading, entry)
		return atomicWrite(notePath, []byte(content))
	}
	if err != nil {
		return fmt.Errorf("read daily note: %w", err)
	}

	note := string(data)
	if strings.Contains(note, "("+record.Key+")") {
		return nil
	}

	idx := strings.Index(note, workLogHeading)
	if idx < 0 {
		if !strings.HasSuffix(note, "\n") {
			note += "\n"
		}
		note += "\n" + workLogHeading + "\n" + entry + "\n"
		return atomicWrite(notePath, []byte(note))
	}

	// Insert after the heading's line, before whatever follows it.
	lineEnd := strings.Index(note[idx:], "\n")
	if lineEnd < 0 {
		note += "\n" + entry + "\n"
		return atomicWrite(notePath, []byte(note))
	}
	insertAt := idx + lineEnd + 1
	note = note[:insertAt] + entry + "\n" + note[insertAt:]
	return atomicWrite(notePath, []byte(note))
}
