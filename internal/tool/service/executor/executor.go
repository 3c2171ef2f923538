package executor

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"os/exec"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/Cyclone1070/aiagent/internal/config"
	"github.com/sirupsen/logrus"
)

// waitDelay bounds how long Wait keeps draining pipes after the child exits,
// in case a detached descendant still holds them open.
const waitDelay = time.Second

// Result represents the outcome of a command execution.
// A non-zero ExitCode is reported here, not as an error.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// OSCommandExecutor implements command execution using os/exec for real system commands.
// Each child runs in its own process group so the whole group can be signalled.
type OSCommandExecutor struct {
	config *config.Config
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	return &OSCommandExecutor{config: cfg}
}

// RunWithTimeout executes a command and waits for it to finish or for the
// timeout to elapse. On timeout the process group receives SIGTERM, then
// SIGKILL after the configured grace period, and ErrTimeout is returned
// together with the output collected so far. On context cancellation the
// group is killed at once. The child is always reaped before returning.
// A nil env inherits the current environment.
func (f *OSCommandExecutor) RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	log := logrus.WithFields(logrus.Fields{
		"command": shellescape.QuoteCommand(command),
		"dir":     dir,
		"timeout": timeout,
	})

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	maxBytes := int(f.config.Tools.MaxCommandOutputSize)
	sampleSize := f.config.Tools.BinarySampleSizeBytes
	stdout := newCollector(maxBytes, sampleSize)
	stderr := newCollector(maxBytes, sampleSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.Debug("starting process")
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, iofs.ErrNotExist) {
			return nil, &InterpreterNotFoundError{Name: command[0], Cause: err}
		}
		return nil, &CommandError{Cmd: command[0], Stage: "start", Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		log.Debug("context cancelled, killing process group")
		_ = killGroup(cmd)
		<-done
		execErr = ctx.Err()
	case <-timer.C:
		log.Warn("process timed out, terminating process group")
		f.terminate(cmd, done)
		execErr = ErrTimeout
	}

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode(cmd, execErr),
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}

	var exitErr *exec.ExitError
	if errors.As(execErr, &exitErr) || errors.Is(execErr, exec.ErrWaitDelay) {
		execErr = nil
	}

	log.WithField("exit_code", res.ExitCode).Debug("process finished")
	return res, execErr
}

// terminate asks the process group to stop, escalates to SIGKILL after the
// grace period, and blocks until Wait has returned.
func (f *OSCommandExecutor) terminate(cmd *exec.Cmd, done <-chan error) {
	_ = interruptGroup(cmd)

	grace := time.NewTimer(time.Duration(f.config.Tools.GracefulShutdownMs) * time.Millisecond)
	defer grace.Stop()

	select {
	case <-done:
	case <-grace.C:
		_ = killGroup(cmd)
		<-done
	}
	// Stragglers that ignored SIGTERM but let the leader exit.
	_ = killGroup(cmd)
}

func exitCode(cmd *exec.Cmd, err error) int {
	if errors.Is(err, ErrTimeout) {
		return -1
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
