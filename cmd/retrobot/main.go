package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/retrobot/internal/cli"
	"github.com/example/retrobot/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "retrobot",
		Short:   "Retrobot - schedules team retrospectives on GitHub project boards",
		Version: version.String(),
		Long: `Retrobot creates a GitHub project board for each retro, rotates the
driver through the team, announces the retro in chat on the day and closes
old boards. Run it once a day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor()
		},
	}
	cli.AddConfigFlags(rootCmd)

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.AuditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
