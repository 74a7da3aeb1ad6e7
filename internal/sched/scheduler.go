// Package sched runs the job table on a cron calendar for the life of the
// container. The daemon owns the container's primary process slot; stopping
// it is driven by termination signals delivered from the runtime.
package sched

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"weathercron/internal/envsnap"
	"weathercron/internal/metrics"
	"weathercron/internal/task"
	"weathercron/pkg/logging"
)

// Job is one static job table entry. The table is fixed at daemon start
// and never mutated at runtime.
type Job struct {
	Name     string
	Schedule string
	Runner   task.Runner
}

// Entry describes a job for display (jobs command)
type Entry struct {
	Name     string
	Schedule string
	Task     string
	NextRun  time.Time
}

// Scheduler fires the job table on schedule
type Scheduler struct {
	cron         *cron.Cron
	jobs         []Job
	snapshotPath string
	logger       *logging.Logger
	jobLog       *logging.Logger
	metrics      *metrics.Metrics
}

// New creates a scheduler. jobLog receives the output of every fired job;
// logger is the daemon's own stdout log.
func New(snapshotPath string, logger, jobLog *logging.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		snapshotPath: snapshotPath,
		logger:       logger,
		jobLog:       jobLog,
		metrics:      m,
	}
}

// AddJob registers a job table entry. The schedule uses the conventional
// five-field cron syntax.
func (s *Scheduler) AddJob(job Job) error {
	if _, err := cron.ParseStandard(job.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", job.Schedule, job.Name, err)
	}

	j := job
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.runJob(j) }); err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Entries returns the job table with next fire times
func (s *Scheduler) Entries() []Entry {
	now := time.Now()
	entries := make([]Entry, 0, len(s.jobs))
	for _, job := range s.jobs {
		sched, err := cron.ParseStandard(job.Schedule)
		var next time.Time
		if err == nil {
			next = sched.Next(now)
		}
		entries = append(entries, Entry{
			Name:     job.Name,
			Schedule: job.Schedule,
			Task:     job.Runner.Name(),
			NextRun:  next,
		})
	}
	return entries
}

// Start begins firing jobs
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", map[string]interface{}{"jobs": len(s.jobs)})
	s.cron.Start()
}

// Stop stops scheduling and waits for in-flight runs, bounded by ctx.
// Overlapping or unfinished runs past the deadline are abandoned; this
// layer imposes no overlap prevention.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scheduler")
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for in-flight jobs: %w", ctx.Err())
	}
}

// runJob executes one fire: load the env snapshot, run the task with job
// output appended to the job log, record the outcome. Per-fire failures are
// logged and counted, never fatal to the daemon.
func (s *Scheduler) runJob(job Job) {
	runID := strings.Split(uuid.New().String(), "-")[0]
	start := time.Now()

	environ := s.jobEnviron()

	runLog := s.jobLog.WithField("job", job.Name).WithField("run_id", runID)
	runLog.Info("Job started")

	err := job.Runner.Run(context.Background(), task.Invocation{
		RunID:  runID,
		Env:    environ,
		Stdout: s.jobLog.Writer(),
		Stderr: s.jobLog.Writer(),
	})
	duration := time.Since(start)

	if err != nil {
		exitCode := task.ExitCode(err)
		s.metrics.RecordRun(job.Name, metrics.ResultFailure, duration)
		runLog.Warn("Job failed", map[string]interface{}{
			"exit_code": exitCode,
			"duration":  duration.String(),
			"error":     err.Error(),
		})
		return
	}

	s.metrics.RecordRun(job.Name, metrics.ResultSuccess, duration)
	runLog.Info("Job completed", map[string]interface{}{"duration": duration.String()})
}

// jobEnviron merges the persisted snapshot over the daemon's environment,
// so each job run sees the variables the container was started with.
func (s *Scheduler) jobEnviron() []string {
	vars, err := envsnap.Load(s.snapshotPath)
	if err != nil {
		s.logger.Warn("Could not load env snapshot, jobs inherit daemon environment", map[string]interface{}{
			"path":  s.snapshotPath,
			"error": err.Error(),
		})
		return os.Environ()
	}

	merged := envsnap.FromEnviron(os.Environ())
	return envsnap.FromMap(mergeVars(merged, vars)).Environ()
}

func mergeVars(base *envsnap.Snapshot, over map[string]string) map[string]string {
	out := make(map[string]string, base.Len()+len(over))
	for _, name := range base.Names() {
		v, _ := base.Get(name)
		out[name] = v
	}
	for name, v := range over {
		out[name] = v
	}
	return out
}
