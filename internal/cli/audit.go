package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/retrobot/internal/ports/primary"
	"github.com/example/retrobot/internal/wire"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the audit trail of applied mutations",
	Long:  "View and prune the local audit trail of boards, cards, issues and notifications retrobot changed",
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent mutations",
	Long:  "Show recent audit entries (default 50)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")
		effectType, _ := cmd.Flags().GetString("type")

		if limit <= 0 {
			limit = 50
		}

		service, closeFn, err := openAudit(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		entries, err := service.ListEntries(NewContext(), primary.AuditFilters{
			RunID:      runID,
			EffectType: effectType,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch audit entries: %w", err)
		}

		printAuditEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old audit entries",
	Long:  "Delete audit entries older than the specified number of days (default 90)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		service, closeFn, err := openAudit(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		count, err := service.PruneEntries(NewContext(), days)
		if err != nil {
			return fmt.Errorf("failed to prune audit entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if count == 0 {
			fmt.Fprintf(out, "No audit entries older than %d days found.\n", days)
		} else {
			fmt.Fprintf(out, "Pruned %d audit entries older than %d days.\n", count, days)
		}
		return nil
	},
}

func openAudit(cmd *cobra.Command) (primary.AuditService, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return wire.OpenAudit(cfg.AuditDB)
}

func printAuditEntries(w io.Writer, entries []*primary.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No audit entries found.")
		return
	}

	fmt.Fprintf(w, "Found %d audit entries:\n\n", len(entries))

	// Oldest first for tail view
	for i := len(entries) - 1; i >= 0; i-- {
		printAuditEntry(w, entries[i])
	}
}

func printAuditEntry(w io.Writer, e *primary.AuditEntry) {
	actor := e.ActorID
	if actor == "" {
		actor = "-"
	}
	fmt.Fprintf(w, "%s | %-12s | %s %s %s/%s | %s\n",
		formatTimestamp(e.Timestamp),
		actor,
		shortRunID(e.RunID),
		operationIcon(e.Operation),
		e.EffectType,
		e.Target,
		e.Detail,
	)
}

func operationIcon(operation string) string {
	switch operation {
	case "create", "post":
		return "+"
	case "update_body", "assign":
		return "~"
	case "close":
		return "x"
	default:
		return "?"
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTimestamp(ts string) string {
	for _, layout := range []string{time.RFC3339, time.DateTime} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format(time.DateTime)
		}
	}
	return ts
}

// AuditCmd returns the audit command with all subcommands attached.
func AuditCmd() *cobra.Command {
	auditTailCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	auditTailCmd.Flags().String("run", "", "Filter by run ID")
	auditTailCmd.Flags().String("type", "", "Filter by effect type (board, column, card, issue, notify)")

	auditPruneCmd.Flags().Int("days", 90, "Delete entries older than N days")

	auditCmd.AddCommand(auditTailCmd)
	auditCmd.AddCommand(auditPruneCmd)

	return auditCmd
}
