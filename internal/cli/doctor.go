package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/retrobot/internal/config"
	"github.com/example/retrobot/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for configuration validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate retrobot configuration",
		Long: `Check the resolved configuration without calling GitHub or the webhook.

Validates:
- Schedule settings (handles, cadence, weekday, retention)
- Repository and GitHub token
- Time zone
- Notification webhook URL
- Audit database

Examples:
  retrobot doctor              # Run full check
  retrobot doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			results := runChecks(cfg)
			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printChecks(cmd.OutOrStdout(), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("configuration validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Exit code only")
	return cmd
}

func runChecks(cfg *config.Config) []CheckResult {
	return []CheckResult{
		checkSchedule(cfg),
		checkRepository(cfg),
		checkToken(cfg),
		checkTimezone(cfg),
		checkWebhook(cfg),
		checkAuditDB(cfg),
	}
}

func printChecks(w io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check              Status")
	fmt.Fprintln(w, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(w, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(w)

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(w, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(w, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(w, "\n⚠ Issues found. Fix the configuration before the next run.")
	} else {
		fmt.Fprintln(w, "All checks passed.")
	}
}

func checkSchedule(cfg *config.Config) CheckResult {
	probe := *cfg
	probe.DryRun = true
	probe.GitHub.Owner, probe.GitHub.Repo = "probe", "probe"
	probe.Timezone = ""
	if err := probe.Validate(); err != nil {
		return CheckResult{Name: "Schedule", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Schedule", Status: "✓"}
}

func checkRepository(cfg *config.Config) CheckResult {
	if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		return CheckResult{
			Name:    "Repository",
			Status:  "✗",
			Details: "  Set GITHUB_REPOSITORY=owner/repo, github.owner/github.repo or --repo",
		}
	}
	return CheckResult{Name: "Repository", Status: "✓"}
}

func checkToken(cfg *config.Config) CheckResult {
	if cfg.GitHub.Token != "" {
		return CheckResult{Name: "GitHub Token", Status: "✓"}
	}
	if cfg.DryRun {
		return CheckResult{
			Name:    "GitHub Token",
			Status:  "⚠",
			Details: "  No token; dry runs against public repositories only",
		}
	}
	return CheckResult{Name: "GitHub Token", Status: "✗", Details: "  Set GITHUB_TOKEN or github.token"}
}

func checkTimezone(cfg *config.Config) CheckResult {
	if _, err := cfg.Location(); err != nil {
		return CheckResult{Name: "Timezone", Status: "✗", Details: "  " + err.Error()}
	}
	if cfg.Timezone == "" {
		return CheckResult{Name: "Timezone", Status: "⚠", Details: "  Not set; using the machine's local time zone"}
	}
	return CheckResult{Name: "Timezone", Status: "✓"}
}

func checkWebhook(cfg *config.Config) CheckResult {
	if cfg.NotificationURL == "" {
		return CheckResult{Name: "Webhook", Status: "⚠", Details: "  No notification_url; retro day will not be announced"}
	}
	u, err := url.Parse(cfg.NotificationURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return CheckResult{Name: "Webhook", Status: "✗", Details: "  notification_url is not an http(s) URL"}
	}
	if u.Scheme != "https" {
		return CheckResult{Name: "Webhook", Status: "⚠", Details: "  notification_url is not https"}
	}
	return CheckResult{Name: "Webhook", Status: "✓"}
}

func checkAuditDB(cfg *config.Config) CheckResult {
	if cfg.AuditDB == "" {
		return CheckResult{Name: "Audit DB", Status: "✓"}
	}
	if _, err := os.Stat(cfg.AuditDB); err == nil {
		database, err := db.Open(cfg.AuditDB)
		if err != nil {
			return CheckResult{Name: "Audit DB", Status: "✗", Details: "  " + err.Error()}
		}
		database.Close()
		return CheckResult{Name: "Audit DB", Status: "✓"}
	}
	// Not created yet; the first run creates it if the directory is writable
	dir := filepath.Dir(cfg.AuditDB)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return CheckResult{Name: "Audit DB", Status: "✗", Details: fmt.Sprintf("  %s is not a directory", dir)}
	}
	return CheckResult{
		Name:    "Audit DB",
		Status:  "⚠",
		Details: "  " + strings.TrimSpace(cfg.AuditDB) + " will be created on the first run",
	}
}
