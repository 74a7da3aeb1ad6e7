package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weathercron/internal/entrypoint"
	"weathercron/internal/metrics"
	"weathercron/internal/sched"
	"weathercron/pkg/logging"
	"weathercron/pkg/shutdown"
)

var handoffExec string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the container entrypoint sequence and scheduler daemon",
	Long: `Runs the full container lifecycle: export the environment snapshot,
execute the notification task once at startup, then occupy the primary
process slot as the scheduler daemon until a termination signal arrives.

With --handoff-exec, the process image is replaced by an external cron
daemon after the startup run instead of starting the builtin scheduler.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&handoffExec, "handoff-exec", "",
		"hand off to an external scheduler daemon (e.g. 'crond -f') instead of the builtin one")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	policy, err := entrypoint.ParsePolicy(cfg.StartupPolicy)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	m := metrics.New()

	seq := &entrypoint.Sequence{
		SnapshotPath:     cfg.SnapshotPath,
		Policy:           policy,
		RunOnStartup:     cfg.RunOnStartup,
		StartupTask:      newTask(cfg, logger),
		Logger:           logger,
		SnapshotExported: m.SetSnapshotVariables,
	}
	if err := seq.Run(cmd.Context()); err != nil {
		return err
	}

	if handoffExec != "" {
		logger.Info("Handing off to external scheduler daemon", map[string]interface{}{
			"command": handoffExec,
		})
		// Does not return on success; the daemon takes our process slot.
		return entrypoint.ExecHandoff(strings.Fields(handoffExec), nil)
	}

	jobLog, err := logging.NewJobLogger(cfg.JobLogPath, logging.ParseLevel(cfg.LogLevel), cfg.LogJSON)
	if err != nil {
		return fmt.Errorf("scheduler launch failed: %w", err)
	}

	scheduler := sched.New(cfg.SnapshotPath, logger, jobLog, m)
	if err := scheduler.AddJob(sched.Job{
		Name:     "notify",
		Schedule: cfg.Schedule,
		Runner:   newTask(cfg, logger.WithField("job", "notify")),
	}); err != nil {
		return fmt.Errorf("scheduler launch failed: %w", err)
	}

	mgr := shutdown.New(cfg.StopTimeout)
	mgr.Register(shutdown.CloseResource(jobLog, "job log"))

	if cfg.MetricsEnabled {
		srv := metrics.NewServer(cfg.MetricsAddr, m)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		logger.Info("Metrics server listening", map[string]interface{}{"addr": cfg.MetricsAddr})
		mgr.Register(shutdown.StopHTTPServer(srv, "metrics"))
	}

	mgr.Register(func(ctx context.Context) error {
		return scheduler.Stop(ctx)
	})

	scheduler.Start()
	logger.Info("Entering scheduled operation", map[string]interface{}{"schedule": cfg.Schedule})

	sig := mgr.Wait()
	logger.Info("Received termination signal, shutting down", map[string]interface{}{
		"signal": sig.String(),
	})

	for _, err := range mgr.Shutdown() {
		logger.Error("Shutdown error", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Shutdown complete")
	return nil
}
