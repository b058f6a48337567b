package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jiraflow/internal/domain"
	"jiraflow/internal/ports"
)

// indexedMeta is the slice of front matter the index cares about. Parsing
// only these keys keeps a full rebuild cheap on large vaults.
type indexedMeta struct {
	Key      string `yaml:"jira_key"`
	Status   string `yaml:"status"`
	Stage    string `yaml:"mapped_column"`
	Summary  string `yaml:"summary"`
	Sprint   string `yaml:"sprint"`
	DueDate  string `yaml:"due_date"`
	Archived bool   `yaml:"archived"`
}

// SyncFull performs a complete rebuild of the index
func (idx *Index) SyncFull() (*ports.IndexStats, error) {
	start := time.Now()
	stats := &ports.IndexStats{}

	if _, err := idx.db.Exec(`DELETE FROM records`); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(idx.tasksDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(strings.ToLower(dirEntry.Name()), ".md") {
			continue
		}
		stats.FilesScanned++

		path := filepath.Join(idx.tasksDir, dirEntry.Name())
		entry, ok := readEntry(path)
		if !ok {
			continue
		}
		if err := idx.insertEntry(entry); err != nil {
			continue // one bad row must not fail the rebuild
		}
		stats.Added++
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	return stats, nil
}

// SyncIncremental refreshes only files whose mtime changed and drops rows
// whose file disappeared
func (idx *Index) SyncIncremental() (*ports.IndexStats, error) {
	start := time.Now()
	stats := &ports.IndexStats{}

	known, err := idx.knownMtimes()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(known))
	entries, err := os.ReadDir(idx.tasksDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(strings.ToLower(dirEntry.Name()), ".md") {
			continue
		}
		stats.FilesScanned++

		path := filepath.Join(idx.tasksDir, dirEntry.Name())
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		seen[path] = true

		if mtime, ok := known[path]; ok && mtime == info.ModTime().Unix() {
			continue
		}
		entry, ok := readEntry(path)
		if !ok {
			continue
		}
		if err := idx.insertEntry(entry); err != nil {
			continue
		}
		stats.Added++
	}

	for path := range known {
		if seen[path] {
			continue
		}
		if _, err := idx.db.Exec(`DELETE FROM records WHERE path = ?`, path); err == nil {
			stats.Removed++
		}
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	return stats, nil
}

func (idx *Index) knownMtimes() (map[string]int64, error) {
	rows, err := idx.db.Query(`SELECT path, mtime FROM records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	known := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		known[path] = mtime
	}
	return known, rows.Err()
}

func (idx *Index) insertEntry(entry ports.IndexEntry) error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO records
			(path, record_key, stage, summary, sprint, due_date, archived, mtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.Path, entry.Key, string(entry.Stage), entry.Summary, entry.Sprint,
		entry.DueDate, entry.Archived, entry.Mtime)
	return err
}

// readEntry peeks the front matter of one record file. Files without a
// usable block or a record key are not index material.
func readEntry(path string) (ports.IndexEntry, bool) {
	var entry ports.IndexEntry

	info, err := os.Stat(path)
	if err != nil {
		return entry, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, false
	}

	content := string(data)
	if !strings.HasPrefix(content, "---\n") {
		return entry, false
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return entry, false
	}

	var meta indexedMeta
	if err := yaml.Unmarshal([]byte(rest[:end]+"\n"), &meta); err != nil {
		return entry, false
	}
	if meta.Key == "" {
		return entry, false
	}

	stage := domain.Stage(meta.Stage)
	if !domain.KnownStage(stage) {
		stage = domain.MapStatus(meta.Status)
	}

	return ports.IndexEntry{
		Path:     path,
		Key:      meta.Key,
		Stage:    stage,
		Summary:  meta.Summary,
		Sprint:   meta.Sprint,
		DueDate:  meta.DueDate,
		Archived: meta.Archived,
		Mtime:    info.ModTime().Unix(),
	}, true
}
