// Package config loads jiraflow settings from a YAML file with environment
// overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults mirrored by Load when the config file is absent or partial.
const (
	DefaultFilter = "assignee = currentUser() AND resolution = Unresolved ORDER BY updated DESC"

	DefaultVaultRoot   = "~/Documents/vault"
	DefaultTasksFolder = "Jira-Flow/Tasks"
	DefaultDailyFolder = "Jira-Flow/Daily"

	DefaultStoryPointsField = "customfield_10111"
	DefaultDueDateField     = "customfield_10329"

	DefaultSyncInterval = Duration(30 * time.Minute)
)

// Duration wraps time.Duration so YAML values like "10m" parse.
type Duration time.Duration

// UnmarshalYAML accepts Go duration strings and bare second counts.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if err := value.Decode(&asString); err == nil {
		parsed, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", asString, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var asSeconds int64
	if err := value.Decode(&asSeconds); err != nil {
		return fmt.Errorf("invalid duration: %s", value.Value)
	}
	*d = Duration(time.Duration(asSeconds) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Jira holds the remote tracker connection settings.
type Jira struct {
	Host       string `yaml:"host"`
	Email      string `yaml:"email"`
	APIToken   string `yaml:"api_token"`
	ProjectKey string `yaml:"project_key"`
	Filter     string `yaml:"filter"`

	// StoryPointsField and DueDateField name the custom fields carrying
	// story points and the planned end date on this deployment.
	StoryPointsField string `yaml:"story_points_field"`
	DueDateField     string `yaml:"due_date_field"`
}

// Vault holds the local folder layout. TasksFolder and DailyFolder are
// relative to Root.
type Vault struct {
	Root        string `yaml:"root"`
	TasksFolder string `yaml:"tasks_folder"`
	DailyFolder string `yaml:"daily_folder"`
}

// TasksDir returns the absolute tasks folder.
func (v Vault) TasksDir() string {
	return filepath.Join(v.Root, v.TasksFolder)
}

// DailyDir returns the absolute daily-notes folder.
func (v Vault) DailyDir() string {
	return filepath.Join(v.Root, v.DailyFolder)
}

// Config is the full jiraflow configuration.
type Config struct {
	Jira  Jira  `yaml:"jira"`
	Vault Vault `yaml:"vault"`

	// SyncInterval drives watch mode and the TUI's periodic refresh.
	SyncInterval Duration `yaml:"sync_interval"`
}

// Path returns the config file location: JIRAFLOW_CONFIG when set,
// otherwise ~/.config/jiraflow/config.yaml.
func Path() string {
	if env := os.Getenv("JIRAFLOW_CONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "jiraflow", "config.yaml")
}

// Load reads the config file, fills defaults and applies environment
// overrides. A missing file is not an error; the result is the defaults
// plus whatever the environment provides.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	// A .env next to the working directory may carry credentials; absence
	// is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JIRAFLOW_HOST"); v != "" {
		c.Jira.Host = v
	}
	if v := os.Getenv("JIRAFLOW_EMAIL"); v != "" {
		c.Jira.Email = v
	}
	if v := os.Getenv("JIRAFLOW_API_TOKEN"); v != "" {
		c.Jira.APIToken = v
	}
	if v := os.Getenv("JIRAFLOW_PROJECT"); v != "" {
		c.Jira.ProjectKey = v
	}
	if v := os.Getenv("JIRAFLOW_VAULT"); v != "" {
		c.Vault.Root = v
	}
}

func (c *Config) applyDefaults() {
	if c.Jira.Filter == "" {
		c.Jira.Filter = DefaultFilter
	}
	if c.Jira.StoryPointsField == "" {
		c.Jira.StoryPointsField = DefaultStoryPointsField
	}
	if c.Jira.DueDateField == "" {
		c.Jira.DueDateField = DefaultDueDateField
	}
	if c.Vault.Root == "" {
		c.Vault.Root = DefaultVaultRoot
	}
	if c.Vault.TasksFolder == "" {
		c.Vault.TasksFolder = DefaultTasksFolder
	}
	if c.Vault.DailyFolder == "" {
		c.Vault.DailyFolder = DefaultDailyFolder
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
}

// Configured reports whether the remote connection settings are complete
// enough to attempt a sync.
func (c *Config) Configured() bool {
	return strings.TrimSpace(c.Jira.Host) != "" &&
		strings.TrimSpace(c.Jira.Email) != "" &&
		strings.TrimSpace(c.Jira.APIToken) != ""
}
