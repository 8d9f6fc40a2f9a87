// Package config resolves retrobot settings from defaults, a YAML file,
// the environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/retrobot/internal/core/retro"
	"github.com/example/retrobot/internal/ports/primary"
)

// Default templates.
const (
	DefaultTitleTemplate = "{{{ team }}} Retro on {{{ date }}}"

	DefaultIssueTemplate = `Hey {{ driver }},

You are scheduled to drive the next retro on {{ date }}. The retro board has been created at {{{ url }}}. Please remind the team beforehand to fill out their cards.

Best Regards,

Retrobot`

	DefaultNotificationTemplate = "<!here|here> A retro is scheduled for today! Visit <{{{ url }}}|the retro board> to add your cards. CC retro driver @{{ driver }}."
)

// ProjectConfigPath is the config file looked up in the working directory.
var ProjectConfigPath = filepath.Join(".retrobot", "config.yaml")

// Config is the complete retrobot configuration.
type Config struct {
	GitHub GitHubConfig `yaml:"github"`

	TeamName     string   `yaml:"team_name"`
	Handles      []string `yaml:"handles"`
	CadenceWeeks int      `yaml:"cadence_weeks"`
	DayOfWeek    int      `yaml:"day_of_week"` // 0 is Sunday
	Timezone     string   `yaml:"timezone"`    // IANA name, empty for local time

	TitleTemplate string `yaml:"title_template"`

	NotificationURL      string `yaml:"notification_url"`
	NotificationTemplate string `yaml:"notification_template"`
	NotificationEmoji    string `yaml:"notification_emoji"`
	NotificationUsername string `yaml:"notification_username"`

	CloseAfterDays int `yaml:"close_after_days"`

	CreateTrackingIssue bool     `yaml:"create_tracking_issue"`
	IssueTemplate       string   `yaml:"issue_template"`
	IssueLabels         []string `yaml:"issue_labels"`

	Columns []string `yaml:"columns"`
	Cards   string   `yaml:"cards"`

	DryRun  bool   `yaml:"dry_run"`
	LogFile string `yaml:"log_file"`
	AuditDB string `yaml:"audit_db"` // empty disables the audit trail
	NoColor bool   `yaml:"no_color"`
}

// GitHubConfig holds tracker connection settings.
type GitHubConfig struct {
	Token  string `yaml:"token"`
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	APIURL string `yaml:"api_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CadenceWeeks:         1,
		DayOfWeek:            int(time.Friday),
		TitleTemplate:        DefaultTitleTemplate,
		NotificationTemplate: DefaultNotificationTemplate,
		NotificationEmoji:    ":rocket:",
		NotificationUsername: "Retrobot",
		IssueTemplate:        DefaultIssueTemplate,
		IssueLabels:          []string{"retrobot"},
		Columns:              append([]string(nil), retro.DefaultColumns...),
	}
}

// Load resolves defaults, the YAML file and the environment.
// path may be empty, in which case RETROBOT_CONFIG and then
// .retrobot/config.yaml are tried; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if override := strings.TrimSpace(os.Getenv("RETROBOT_CONFIG")); override != "" {
			path, explicit = override, true
		} else {
			path = ProjectConfigPath
		}
	}

	if err := loadFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the YAML file on top of cfg, so keys absent from the file keep their value.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", retro.ErrConfig, path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	// Variables provided by GitHub Actions runners
	mergeStr(&cfg.GitHub.Token, os.Getenv("GITHUB_TOKEN"))
	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		if owner, repo, ok := strings.Cut(v, "/"); ok {
			cfg.GitHub.Owner, cfg.GitHub.Repo = owner, repo
		}
	}

	mergeStr(&cfg.GitHub.Token, os.Getenv("RETROBOT_GITHUB_TOKEN"))
	mergeStr(&cfg.GitHub.Owner, os.Getenv("RETROBOT_GITHUB_OWNER"))
	mergeStr(&cfg.GitHub.Repo, os.Getenv("RETROBOT_GITHUB_REPO"))
	mergeStr(&cfg.GitHub.APIURL, os.Getenv("RETROBOT_GITHUB_API_URL"))

	mergeStr(&cfg.TeamName, os.Getenv("RETROBOT_TEAM_NAME"))
	if v := os.Getenv("RETROBOT_HANDLES"); v != "" {
		cfg.Handles = SplitList(v)
	}
	mergeStr(&cfg.Timezone, os.Getenv("RETROBOT_TIMEZONE"))
	mergeStr(&cfg.TitleTemplate, os.Getenv("RETROBOT_TITLE_TEMPLATE"))
	mergeStr(&cfg.NotificationURL, os.Getenv("RETROBOT_NOTIFICATION_URL"))
	mergeStr(&cfg.NotificationTemplate, os.Getenv("RETROBOT_NOTIFICATION_TEMPLATE"))
	mergeStr(&cfg.NotificationEmoji, os.Getenv("RETROBOT_NOTIFICATION_EMOJI"))
	mergeStr(&cfg.NotificationUsername, os.Getenv("RETROBOT_NOTIFICATION_USERNAME"))
	mergeStr(&cfg.IssueTemplate, os.Getenv("RETROBOT_ISSUE_TEMPLATE"))
	if v := os.Getenv("RETROBOT_ISSUE_LABELS"); v != "" {
		cfg.IssueLabels = SplitList(v)
	}
	if v := os.Getenv("RETROBOT_COLUMNS"); v != "" {
		cfg.Columns = SplitList(v)
	}
	mergeStr(&cfg.Cards, os.Getenv("RETROBOT_CARDS"))
	mergeStr(&cfg.LogFile, os.Getenv("RETROBOT_LOG_FILE"))
	mergeStr(&cfg.AuditDB, os.Getenv("RETROBOT_AUDIT_DB"))

	for key, dst := range map[string]*int{
		"RETROBOT_CADENCE_WEEKS":    &cfg.CadenceWeeks,
		"RETROBOT_DAY_OF_WEEK":      &cfg.DayOfWeek,
		"RETROBOT_CLOSE_AFTER_DAYS": &cfg.CloseAfterDays,
	} {
		if err := envInt(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"RETROBOT_CREATE_TRACKING_ISSUE": &cfg.CreateTrackingIssue,
		"RETROBOT_DRY_RUN":               &cfg.DryRun,
		"RETROBOT_NO_COLOR":              &cfg.NoColor,
	} {
		if err := envBool(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Overrides carries command-line flags. Nil fields were not set.
type Overrides struct {
	Token          *string
	Owner          *string
	Repo           *string
	TeamName       *string
	Handles        *string // comma separated
	CadenceWeeks   *int
	DayOfWeek      *int
	Timezone       *string
	CloseAfterDays *int
	CreateIssue    *bool
	Columns        *string // comma separated
	DryRun         *bool
	LogFile        *string
	AuditDB        *string
	NoColor        *bool
}

// Apply layers flag overrides on top of the loaded configuration.
func (c *Config) Apply(o Overrides) {
	setStr(&c.GitHub.Token, o.Token)
	setStr(&c.GitHub.Owner, o.Owner)
	setStr(&c.GitHub.Repo, o.Repo)
	setStr(&c.TeamName, o.TeamName)
	if o.Handles != nil {
		c.Handles = SplitList(*o.Handles)
	}
	setInt(&c.CadenceWeeks, o.CadenceWeeks)
	setInt(&c.DayOfWeek, o.DayOfWeek)
	setStr(&c.Timezone, o.Timezone)
	setInt(&c.CloseAfterDays, o.CloseAfterDays)
	setBool(&c.CreateTrackingIssue, o.CreateIssue)
	if o.Columns != nil {
		c.Columns = SplitList(*o.Columns)
	}
	setBool(&c.DryRun, o.DryRun)
	setStr(&c.LogFile, o.LogFile)
	setStr(&c.AuditDB, o.AuditDB)
	setBool(&c.NoColor, o.NoColor)
}

// Validate reports the first invalid setting as a retro.ErrConfig error.
func (c *Config) Validate() error {
	guard := retro.CanSchedule(retro.ScheduleContext{
		Roster:         c.Handles,
		Weekday:        c.DayOfWeek,
		CadenceWeeks:   c.CadenceWeeks,
		CloseAfterDays: c.CloseAfterDays,
	})
	if err := guard.Error(); err != nil {
		return err
	}
	if err := c.ValidateConnection(); err != nil {
		return err
	}
	if !c.DryRun && c.GitHub.Token == "" {
		return fmt.Errorf("%w: a GitHub token is required (set GITHUB_TOKEN or github.token), or use --dry-run", retro.ErrConfig)
	}
	return nil
}

// ValidateConnection checks the settings needed for read-only access.
func (c *Config) ValidateConnection() error {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("%w: repository owner and name are required (set GITHUB_REPOSITORY=owner/repo or github.owner/github.repo)", retro.ErrConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone day boundaries are evaluated in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", retro.ErrConfig, c.Timezone)
	}
	return loc, nil
}

// ToRunRequest converts the configuration into the service request.
func (c *Config) ToRunRequest() primary.RunRequest {
	return primary.RunRequest{
		TeamName:             c.TeamName,
		Handles:              c.Handles,
		CadenceWeeks:         c.CadenceWeeks,
		DayOfWeek:            c.DayOfWeek,
		TitleTemplate:        c.TitleTemplate,
		NotificationURL:      c.NotificationURL,
		NotificationTemplate: c.NotificationTemplate,
		NotificationUsername: c.NotificationUsername,
		NotificationEmoji:    c.NotificationEmoji,
		CloseAfterDays:       c.CloseAfterDays,
		CreateTrackingIssue:  c.CreateTrackingIssue,
		IssueTemplate:        c.IssueTemplate,
		IssueLabels:          c.IssueLabels,
		Columns:              c.Columns,
		Cards:                c.Cards,
		DryRun:               c.DryRun,
	}
}

// SplitList splits a comma-separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer, got %q", retro.ErrConfig, key, v)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be true or false, got %q", retro.ErrConfig, key, v)
	}
	*dst = b
	return nil
}
