package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/jobs"
)

var (
	jobsCmd = &cobra.Command{
		Use:   "jobs",
		Short: "scheduled job commands",
	}

	jobsListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list scheduled jobs and their cron specs",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configs.GetConfig().Jobs

			if !cfg.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "jobs are disabled (jobs.enabled=false)")
				return
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCRON")
			fmt.Fprintf(w, "%s\t%s\n", jobs.JobLoginRetention, cfg.LoginRetentionCron)
			fmt.Fprintf(w, "%s\t%s\n", jobs.JobCodeExpiry, cfg.CodeExpiryCron)
			fmt.Fprintf(w, "%s\t%s\n", jobs.JobOrphanSweep, cfg.OrphanSweepCron)
			_ = w.Flush()
		},
	}
)

func registerJobsCommands() {
	jobsCmd.AddCommand(jobsListCmd)
	rootCmd.AddCommand(jobsCmd)
}
