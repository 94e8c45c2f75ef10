package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// DefaultShell runs every command string.
	DefaultShell = "/bin/sh"
	// pipeDrainDelay bounds how long Wait blocks on pipes held open by
	// stray descendants after the shell exits.
	pipeDrainDelay = 2 * time.Second
)

// Result holds the captured output of one command.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ProcessRunner spawns one shell process per command and enforces a deadline.
type ProcessRunner struct {
	shell  string
	dir    string
	env    []string
	logger *slog.Logger
}

type ProcessOption func(*ProcessRunner)

// WithShell overrides the shell binary used for "-c" indirection.
func WithShell(shell string) ProcessOption {
	return func(p *ProcessRunner) {
		if shell != "" {
			p.shell = shell
		}
	}
}

// WithDir sets the working directory of spawned commands.
func WithDir(dir string) ProcessOption {
	return func(p *ProcessRunner) {
		p.dir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) ProcessOption {
	return func(p *ProcessRunner) {
		p.env = append(p.env, env...)
	}
}

func WithProcessLogger(logger *slog.Logger) ProcessOption {
	return func(p *ProcessRunner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewProcessRunner(opts ...ProcessOption) *ProcessRunner {
	p := &ProcessRunner{
		shell:  DefaultShell,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes command and returns its standard output.
func (p *ProcessRunner) Run(ctx context.Context, command string, timeout time.Duration) (*Result, error) {
	return p.RunInput(ctx, command, "", timeout)
}

// RunInput executes command with input written to its standard input.
//
// The calling goroutine waits for the process while a deadline goroutine
// sleeps for timeout. Whichever observes its event first wins: the waiter
// sets the completion flag as soon as the process exits, and the deadline
// only kills the process if that flag is still unset. Killing a process that
// has already exited is ignored.
func (p *ProcessRunner) RunInput(ctx context.Context, command, input string, timeout time.Duration) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExecError{Err: fmt.Errorf("%v", r)}
		}
	}()

	if timeout <= 0 {
		return nil, &ExecError{Err: fmt.Errorf("timeout must be positive, got %s", timeout)}
	}

	cmd := exec.Command(p.shell, "-c", command)
	cmd.Dir = p.dir
	cmd.Env = append(os.Environ(), p.env...)
	cmd.Stdin = strings.NewReader(input)
	cmd.WaitDelay = pipeDrainDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		p.logger.Warn("spawn failed", "shell", p.shell, "error", err)
		return nil, &SpawnError{Err: err}
	}
	p.logger.Debug("process started", "pid", cmd.Process.Pid, "timeout", timeout)

	var completed, timedOut, canceled atomic.Bool
	done := make(chan struct{})

	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-done:
			return
		case <-timer.C:
			if completed.Load() {
				return
			}
			timedOut.Store(true)
		case <-ctx.Done():
			if completed.Load() {
				return
			}
			canceled.Store(true)
		}

		if err := killProcess(cmd); err != nil {
			p.logger.Debug("terminate ignored", "pid", cmd.Process.Pid, "error", err)
		}
	}()

	waitErr := cmd.Wait()
	completed.Store(true)
	close(done)

	duration := time.Since(start)

	if timedOut.Load() {
		p.logger.Warn("process timed out", "pid", cmd.Process.Pid, "timeout", timeout)
		return nil, &TimeoutError{Timeout: timeout}
	}
	if canceled.Load() {
		return nil, &ExecError{Err: ctx.Err()}
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			exitCode = exitErr.ExitCode()
		case errors.Is(waitErr, exec.ErrWaitDelay):
			// Shell exited but a descendant kept the pipes open.
		default:
			return nil, &ExecError{Err: waitErr}
		}
	}

	if exitCode != 0 {
		p.logger.Warn("process exited with non-zero status",
			"exit_code", exitCode,
			"stderr", strings.TrimSpace(stderr.String()))
	} else {
		p.logger.Debug("process finished", "duration", duration)
	}

	return &Result{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}
