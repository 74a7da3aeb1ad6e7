// Package task defines the runnable unit shared by the startup run and the
// scheduled fires: the builtin notifier or an external command.
package task

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// Invocation carries the per-run context a task executes under
type Invocation struct {
	RunID  string
	Env    []string // full environment for the run; nil means inherit
	Stdout io.Writer
	Stderr io.Writer
}

// Runner is a runnable task
type Runner interface {
	Name() string
	Run(ctx context.Context, inv Invocation) error
}

// CommandRunner executes a shell command line, matching cron's job
// execution semantics.
type CommandRunner struct {
	Command string
}

// Name returns the command line
func (r *CommandRunner) Name() string {
	return r.Command
}

// Run executes the command as a synchronous child process and waits for
// completion. The child gets its own process group so a wrapper failure
// never takes the workload down with it.
func (r *CommandRunner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", r.Command)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}

	cmd.Env = inv.Env
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}

	cmd.Stdout = inv.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = inv.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}

// FuncRunner adapts an in-process function (the builtin notifier) to Runner
type FuncRunner struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

// Name returns the task name
func (r *FuncRunner) Name() string {
	return r.TaskName
}

// Run invokes the function
func (r *FuncRunner) Run(ctx context.Context, inv Invocation) error {
	return r.Fn(ctx)
}

// ExitCode extracts the process exit status from a run error. In-process
// task failures map to exit code 1; a command that could not start maps
// to -1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return -1
	}
	return 1
}
