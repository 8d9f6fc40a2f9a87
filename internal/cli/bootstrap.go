// Package cli provides CLI commands for the retrobot application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/retrobot/internal/config"
	"github.com/example/retrobot/internal/core/retro"
	"github.com/example/retrobot/internal/ctxutil"
)

// globalActorID stores the detected actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor records who is running retrobot: the GitHub Actions
// actor when present, otherwise the local user.
func DetectAndStoreActor() {
	for _, key := range []string{"RETROBOT_ACTOR", "GITHUB_ACTOR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			globalActorID = v
			return
		}
	}
	if u, err := user.Current(); err == nil {
		globalActorID = u.Username
	}
}

// GetActorID returns the stored actor ID from CLI startup.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// AddConfigFlags registers the flags shared by every command that reads configuration.
func AddConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file (default .retrobot/config.yaml)")
	flags.String("token", "", "GitHub token (prefer GITHUB_TOKEN)")
	flags.String("repo", "", "Repository as owner/name")
	flags.String("team", "", "Team name")
	flags.String("handles", "", "Comma-separated GitHub handles in rotation order")
	flags.Int("cadence-weeks", 1, "Weeks between retros")
	flags.Int("day-of-week", 5, "Retro weekday, 0=Sunday ... 6=Saturday")
	flags.String("timezone", "", "IANA time zone for day boundaries (default local)")
	flags.Int("close-after-days", 0, "Close retros older than N days (0 disables)")
	flags.Bool("create-issue", false, "Open a tracking issue assigned to the driver")
	flags.String("columns", "", "Comma-separated board columns")
	flags.Bool("dry-run", false, "Log mutations instead of performing them")
	flags.String("log-file", "", "Also append log lines to this file")
	flags.String("audit-db", "", "SQLite audit database (empty disables)")
	flags.Bool("no-color", false, "Disable colored output")
}

// loadConfig resolves the configuration for cmd: file, environment, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	o, err := overridesFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Apply(o)
	return cfg, nil
}

// overridesFromFlags collects only the flags the user actually set.
func overridesFromFlags(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	flags := cmd.Flags()

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	o.Token = str("token")
	if repo := str("repo"); repo != nil {
		owner, name, ok := strings.Cut(*repo, "/")
		if !ok || owner == "" || name == "" {
			return o, fmt.Errorf("%w: --repo must be owner/name, got %q", retro.ErrConfig, *repo)
		}
		o.Owner, o.Repo = &owner, &name
	}
	o.TeamName = str("team")
	o.Handles = str("handles")
	o.CadenceWeeks = num("cadence-weeks")
	o.DayOfWeek = num("day-of-week")
	o.Timezone = str("timezone")
	o.CloseAfterDays = num("close-after-days")
	o.CreateIssue = boolean("create-issue")
	o.Columns = str("columns")
	o.DryRun = boolean("dry-run")
	o.LogFile = str("log-file")
	o.AuditDB = str("audit-db")
	o.NoColor = boolean("no-color")
	return o, nil
}
