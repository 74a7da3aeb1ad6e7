// Package entrypoint sequences container start: export the environment
// snapshot, run the notification task once, then hand control to the
// scheduler daemon for the rest of the container lifetime.
//
// State machine, per container lifetime:
//
//	START -> EXPORT_ENV -> RUN_STARTUP_TASK -> {WARN_ON_FAILURE | abort}
//	      -> SCHEDULER (terminal until signal)
//
// There is no transition back to EXPORT_ENV except a full restart.
package entrypoint

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"weathercron/internal/envsnap"
	"weathercron/internal/task"
	"weathercron/pkg/logging"
)

// Sequence is the ordered set of entrypoint steps
type Sequence struct {
	SnapshotPath string
	Policy       FailurePolicy
	RunOnStartup bool
	StartupTask  task.Runner
	Logger       *logging.Logger

	// SnapshotExported reports the snapshot size after a successful export
	SnapshotExported func(variables int)
}

// Run executes the entrypoint steps in order. A returned error is fatal to
// the container: snapshot write failures always, startup task failures only
// under the abort policy.
func (s *Sequence) Run(ctx context.Context) error {
	if err := s.exportEnv(); err != nil {
		return err
	}

	if !s.RunOnStartup || s.StartupTask == nil {
		return nil
	}
	return s.startupRun(ctx)
}

// exportEnv captures the current environment and replaces the snapshot
// file. The snapshot is global-state capture: written once here, read-only
// for every scheduled job run afterwards.
func (s *Sequence) exportEnv() error {
	snap := envsnap.Capture()
	if err := snap.Write(s.SnapshotPath); err != nil {
		return fmt.Errorf("environment export failed: %w", err)
	}

	s.Logger.Info("Environment snapshot exported", map[string]interface{}{
		"path":      s.SnapshotPath,
		"variables": snap.Len(),
	})
	if s.SnapshotExported != nil {
		s.SnapshotExported(snap.Len())
	}
	return nil
}

// startupRun executes the task once, synchronously, with output on the
// container's stdout/stderr streams.
func (s *Sequence) startupRun(ctx context.Context) error {
	s.Logger.Info("Running startup task", map[string]interface{}{"task": s.StartupTask.Name()})
	start := time.Now()

	err := s.StartupTask.Run(ctx, task.Invocation{
		RunID:  "startup",
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	duration := time.Since(start)

	if err == nil {
		s.Logger.Info("Startup task completed", map[string]interface{}{"duration": duration.String()})
		return nil
	}

	exitCode := task.ExitCode(err)
	s.Logger.Warn(fmt.Sprintf("Startup task failed with exit code %d", exitCode), map[string]interface{}{
		"duration": duration.String(),
		"policy":   string(s.Policy),
	})

	if s.Policy == PolicyAbort {
		return fmt.Errorf("startup task failed with exit code %d (policy %s): %w", exitCode, s.Policy, err)
	}
	return nil
}

// ExecHandoff replaces the current process image with an external scheduler
// daemon, preserving the process identity and signal slot. Used when the
// image keeps a system crond instead of the builtin scheduler; on success
// this never returns.
func ExecHandoff(argv []string, env []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("handoff requires a command")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("scheduler daemon not found: %w", err)
	}
	if env == nil {
		env = os.Environ()
	}
	return syscall.Exec(path, argv, env)
}
