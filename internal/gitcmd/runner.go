package gitcmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Executor runs a single git invocation. Runner is the production implementation;
// tests substitute scripted executors.
type Executor interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// Runner executes git commands in a fixed directory with shared logging and output handling.
type Runner struct {
	Dir     string
	Env     []string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Result contains captured stdout/stderr for a git command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

// NulFields splits stdout produced with -z on NUL bytes and drops the empty
// trailing field.
func (r Result) NulFields() []string {
	output := strings.TrimRight(string(r.Stdout), "\x00")
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\x00")
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

func (r Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Run executes a git command and captures stdout/stderr.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	r.logger().Debug("running git", zap.String("dir", r.Dir), zap.Strings("args", args))

	cmd := r.command(ctx, args...)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		r.logger().Debug("git failed",
			zap.Strings("args", args),
			zap.String("stderr", strings.TrimSpace(errBuf.String())),
			zap.Error(err))
	}
	return Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}
