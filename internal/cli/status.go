package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/retrobot/internal/ports/primary"
	"github.com/example/retrobot/internal/wire"
)

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest retro and what the next run would do",
		Long: `Show the latest retro board for the team and the action the next
'retrobot run' would take. Read-only: nothing is created, posted or closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateConnection(); err != nil {
				return err
			}

			c, err := wire.New(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.RetroService.Status(NewContext(), primary.StatusRequest{TeamName: cfg.TeamName})
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), cfg.TeamName, result)
			return nil
		},
	}
}

func printStatus(w io.Writer, team string, s *primary.StatusResult) {
	if team == "" {
		team = "(none)"
	}
	fmt.Fprintf(w, "Team:      %s\n", team)

	if s.Latest == nil {
		fmt.Fprintln(w, "Latest:    no retro found")
	} else {
		fmt.Fprintf(w, "Latest:    %s %s\n", s.Latest.Title, stateLabel(s.Latest.State))
		fmt.Fprintf(w, "  Date:    %s\n", formatDate(s.Latest.Date))
		fmt.Fprintf(w, "  Driver:  %s\n", s.Latest.Driver)
		if s.Latest.Issue > 0 {
			fmt.Fprintf(w, "  Issue:   #%d\n", s.Latest.Issue)
		}
		if s.Latest.URL != "" {
			fmt.Fprintf(w, "  Board:   %s\n", s.Latest.URL)
		}
	}

	fmt.Fprintf(w, "Next run:  %s\n", describeAction(s.NextAction))
}

func stateLabel(state string) string {
	if state == "open" {
		return color.New(color.FgGreen).Sprint("[open]")
	}
	return color.New(color.FgHiBlack).Sprintf("[%s]", state)
}

func describeAction(action string) string {
	switch action {
	case "create":
		return color.New(color.FgGreen).Sprint("create the next retro")
	case "notify":
		return color.New(color.FgCyan).Sprint("send today's notification")
	default:
		return "nothing to do"
	}
}
