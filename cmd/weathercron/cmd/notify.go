package cmd

import (
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the weather notification once and exit",
	Long: `Fetches the 7-day forecast and sends the notification email a single
time. This is the command a cron job table entry invokes when weathercron is
used with an external scheduler daemon.`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	return newNotifier(cfg, logger).Run(cmd.Context())
}
