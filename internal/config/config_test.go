package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v for a missing file", err)
	}
	if cfg.Jira.Filter != DefaultFilter {
		t.Errorf("Filter = %q", cfg.Jira.Filter)
	}
	if cfg.Jira.StoryPointsField != DefaultStoryPointsField {
		t.Errorf("StoryPointsField = %q", cfg.Jira.StoryPointsField)
	}
	if cfg.Vault.TasksFolder != DefaultTasksFolder || cfg.Vault.DailyFolder != DefaultDailyFolder {
		t.Errorf("folders = %q / %q", cfg.Vault.TasksFolder, cfg.Vault.DailyFolder)
	}
	if cfg.SyncInterval != DefaultSyncInterval {
		t.Errorf("SyncInterval = %v", cfg.SyncInterval)
	}
	if cfg.Configured() {
		t.Error("Configured() = true without credentials")
	}
}

func TestLoadFileParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
jira:
  host: example.atlassian.net
  email: me@example.com
  api_token: secret
  project_key: PROJ
  story_points_field: customfield_20001
vault:
  tasks_folder: Work/Tasks
sync_interval: 10m
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Jira.Host != "example.atlassian.net" || cfg.Jira.ProjectKey != "PROJ" {
		t.Errorf("jira = %+v", cfg.Jira)
	}
	if cfg.Jira.StoryPointsField != "customfield_20001" {
		t.Errorf("StoryPointsField = %q, want override kept", cfg.Jira.StoryPointsField)
	}
	if cfg.Jira.DueDateField != DefaultDueDateField {
		t.Errorf("DueDateField = %q, want default fill", cfg.Jira.DueDateField)
	}
	if cfg.Vault.TasksFolder != "Work/Tasks" {
		t.Errorf("TasksFolder = %q", cfg.Vault.TasksFolder)
	}
	if cfg.SyncInterval.Std() != 10*time.Minute {
		t.Errorf("SyncInterval = %v", cfg.SyncInterval)
	}
	if !cfg.Configured() {
		t.Error("Configured() = false with full credentials")
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv("JIRAFLOW_HOST", "other.atlassian.net")
	t.Setenv("JIRAFLOW_API_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("jira:\n  host: file.atlassian.net\n  email: me@example.com\n  api_token: file-token\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Jira.Host != "other.atlassian.net" {
		t.Errorf("Host = %q, want env override", cfg.Jira.Host)
	}
	if cfg.Jira.APIToken != "env-token" {
		t.Errorf("APIToken = %q, want env override", cfg.Jira.APIToken)
	}
	if cfg.Jira.Email != "me@example.com" {
		t.Errorf("Email = %q, want file value kept", cfg.Jira.Email)
	}
}

func TestVaultDirsJoinRoot(t *testing.T) {
	v := Vault{Root: "/home/me/vault", TasksFolder: "Jira-Flow/Tasks", DailyFolder: "Jira-Flow/Daily"}
	if got := v.TasksDir(); got != "/home/me/vault/Jira-Flow/Tasks" {
		t.Errorf("TasksDir() = %q", got)
	}
	if got := v.DailyDir(); got != "/home/me/vault/Jira-Flow/Daily" {
		t.Errorf("DailyDir() = %q", got)
	}
}

func TestPathHonorsEnv(t *testing.T) {
	t.Setenv("JIRAFLOW_CONFIG", "/tmp/custom.yaml")
	if got := Path(); got != "/tmp/custom.yaml" {
		t.Errorf("Path() = %q", got)
	}
}
