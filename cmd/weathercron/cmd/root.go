package cmd

import (
	"github.com/spf13/cobra"

	"weathercron/internal/config"
	"weathercron/internal/notify"
	"weathercron/internal/task"
	"weathercron/internal/weather"
	"weathercron/pkg/logging"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "weathercron",
	Short: "Containerized weather notification scheduler",
	Long: `weathercron is the container entrypoint for the periodic weather
notification task: it exports the container environment to a snapshot file,
runs the notification once at startup, then becomes the scheduler daemon
that fires the job table for the rest of the container lifetime.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (environment variables take precedence)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogJSON)
}

// newNotifier wires the builtin notification task from configuration
func newNotifier(cfg *config.Config, logger *logging.Logger) *notify.Notifier {
	client := weather.NewClient(cfg.OpenWeatherAPIKey)
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.GmailUser, cfg.GmailPassword)
	return notify.New(cfg, client, mailer, logger)
}

// newTask builds the scheduled task: an external command when configured,
// the builtin notifier otherwise.
func newTask(cfg *config.Config, logger *logging.Logger) task.Runner {
	if cfg.TaskCommand != "" {
		return &task.CommandRunner{Command: cfg.TaskCommand}
	}
	notifier := newNotifier(cfg, logger)
	return &task.FuncRunner{TaskName: "notify", Fn: notifier.Run}
}
