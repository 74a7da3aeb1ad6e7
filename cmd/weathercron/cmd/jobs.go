package cmd

import (
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"weathercron/internal/metrics"
	"weathercron/internal/sched"
	"weathercron/pkg/logging"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Show the scheduled job table",
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.ERROR, false)
	scheduler := sched.New(cfg.SnapshotPath, logger, logger, metrics.New())
	if err := scheduler.AddJob(sched.Job{
		Name:     "notify",
		Schedule: cfg.Schedule,
		Runner:   newTask(cfg, logger),
	}); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Job", "Schedule", "Task", "Next Run")

	for _, entry := range scheduler.Entries() {
		table.Append(entry.Name, entry.Schedule, entry.Task, entry.NextRun.Format(time.RFC3339))
	}

	table.Render()
	return nil
}
