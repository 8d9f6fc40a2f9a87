package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/retrobot/internal/ports/primary"
	"github.com/example/retrobot/internal/wire"
)

// RunCmd returns the run command, the daily scheduling pass.
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Schedule, announce and close retros",
		Long: `Perform one scheduling pass. Meant to run once a day (cron, CI schedule).

Depending on the latest retro board for the team, a run either:
- creates the next board (and tracking issue) once the last retro has passed
- posts the chat notification on the day of the retro
- does nothing while the next retro is still ahead

With --close-after-days, the latest open retro older than that is closed first.

Examples:
  retrobot run --dry-run
  retrobot run --repo acme/widgets --team Platform --handles alice,bob,carol`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c, err := wire.New(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.RetroService.Run(NewContext(), cfg.ToRunRequest())
			if err != nil {
				return err
			}
			printRunResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printRunResult(w io.Writer, r *primary.RunResult) {
	if r.DryRun {
		fmt.Fprintln(w, color.New(color.FgYellow).Sprint("Dry run: no changes were made."))
	}

	if r.Closed != nil {
		fmt.Fprintf(w, "Closed:   %s", r.Closed.Retro.Title)
		if r.Closed.IssueClosed {
			fmt.Fprintf(w, " (and issue #%d)", r.Closed.Retro.Issue)
		}
		fmt.Fprintln(w)
	}

	switch r.Action {
	case "create":
		if r.Created == nil {
			return
		}
		fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen).Sprint("Created:"), r.Created.Title)
		fmt.Fprintf(w, "  Date:    %s\n", formatDate(r.Created.Date))
		fmt.Fprintf(w, "  Driver:  %s (next: %s)\n", r.Created.Driver, r.Created.FutureDriver)
		if r.Created.BoardURL != "" {
			fmt.Fprintf(w, "  Board:   %s\n", r.Created.BoardURL)
		}
		if r.Created.IssueURL != "" {
			fmt.Fprintf(w, "  Issue:   %s\n", r.Created.IssueURL)
		}
	case "notify":
		if r.Notified == nil {
			fmt.Fprintln(w, "Retro is today; no notification configured.")
			return
		}
		fmt.Fprintf(w, "%s %s\n", color.New(color.FgCyan).Sprint("Notified:"), r.Notified.Text)
	default:
		if r.Last != nil {
			fmt.Fprintf(w, "Nothing to do: %s is on %s.\n", r.Last.Title, formatDate(r.Last.Date))
		}
	}
}

func formatDate(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}
