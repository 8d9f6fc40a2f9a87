package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/retrobot/internal/config"
)

func healthyConfig() *config.Config {
	cfg := config.Default()
	cfg.GitHub = config.GitHubConfig{Token: "t", Owner: "acme", Repo: "widgets"}
	cfg.Handles = []string{"alice", "bob"}
	cfg.Timezone = "Europe/Berlin"
	cfg.NotificationURL = "https://hooks.slack.com/services/T/B/X"
	return cfg
}

func statusOf(results []CheckResult, name string) string {
	for _, r := range results {
		if r.Name == name {
			return r.Status
		}
	}
	return ""
}

func TestRunChecks_Healthy(t *testing.T) {
	for _, r := range runChecks(healthyConfig()) {
		if r.Status != "✓" {
			t.Errorf("%s: status %s (%s)", r.Name, r.Status, r.Details)
		}
	}
}

func TestRunChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		check  string
		want   string
	}{
		{"no handles", func(c *config.Config) { c.Handles = nil }, "Schedule", "✗"},
		{"bad weekday", func(c *config.Config) { c.DayOfWeek = 9 }, "Schedule", "✗"},
		{"no repository", func(c *config.Config) { c.GitHub.Repo = "" }, "Repository", "✗"},
		{"no token", func(c *config.Config) { c.GitHub.Token = "" }, "GitHub Token", "✗"},
		{"no token dry run", func(c *config.Config) { c.GitHub.Token = ""; c.DryRun = true }, "GitHub Token", "⚠"},
		{"unknown timezone", func(c *config.Config) { c.Timezone = "Mars/Base" }, "Timezone", "✗"},
		{"local timezone", func(c *config.Config) { c.Timezone = "" }, "Timezone", "⚠"},
		{"no webhook", func(c *config.Config) { c.NotificationURL = "" }, "Webhook", "⚠"},
		{"malformed webhook", func(c *config.Config) { c.NotificationURL = "hooks.slack.com" }, "Webhook", "✗"},
		{"plain http webhook", func(c *config.Config) { c.NotificationURL = "http://chat.local/hook" }, "Webhook", "⚠"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := healthyConfig()
			tt.mutate(cfg)
			if got := statusOf(runChecks(cfg), tt.check); got != tt.want {
				t.Errorf("%s status = %q, want %q", tt.check, got, tt.want)
			}
		})
	}
}

func TestCheckAuditDB(t *testing.T) {
	dir := t.TempDir()
	cfg := healthyConfig()

	cfg.AuditDB = filepath.Join(dir, "audit.db")
	if got := checkAuditDB(cfg); got.Status != "⚠" {
		t.Errorf("missing db status = %q, want ⚠", got.Status)
	}
}

func TestPrintChecks(t *testing.T) {
	var buf bytes.Buffer
	printChecks(&buf, []CheckResult{
		{Name: "Schedule", Status: "✓"},
		{Name: "Webhook", Status: "✗", Details: "  bad url"},
	}, true)

	out := buf.String()
	if !strings.Contains(out, "Webhook            ✗") {
		t.Errorf("expected table row, got:\n%s", out)
	}
	if !strings.Contains(out, "Webhook:\n  bad url") {
		t.Errorf("expected details, got:\n%s", out)
	}
	if !strings.Contains(out, "Issues found") {
		t.Errorf("expected issues footer, got:\n%s", out)
	}
}

func TestDoctorCmd_Quiet(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, DoctorCmd(), "--quiet")
	if err == nil {
		t.Error("expected failure with empty configuration")
	}
	if stdout != "" {
		t.Errorf("quiet mode printed output:\n%s", stdout)
	}
}
