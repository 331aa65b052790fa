// Package git wraps the git and stg binaries and models reference names,
// commits and the history graph read from them.
package git

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git and stg commands. In dry-run mode
// mutating commands are logged and skipped while read commands still run.
type CommandRunner struct {
	workingDir string
	dryRun     bool
}

// defaultRunner is the global runner used by the package-level functions
var defaultRunner = &CommandRunner{}

// SetWorkingDir sets the working directory for the default runner.
func SetWorkingDir(dir string) {
	defaultRunner.workingDir = dir
}

// SetDryRun toggles dry-run mode on the default runner.
func SetDryRun(dryRun bool) {
	defaultRunner.dryRun = dryRun
}

// DryRun reports whether the default runner is in dry-run mode.
func DryRun() bool {
	return defaultRunner.dryRun
}

func (r *CommandRunner) runInternal(ctx context.Context, name string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	slog.Debug("run", "cmd", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", jferrors.NewGitCommandError(name, args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// Run executes a read-only git command and returns the trimmed output.
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "git", true, args...)
}

// RunLines executes a read-only git command and returns output as lines.
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.runInternal(ctx, "git", false, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// Mutate executes a git command that changes repository state. Skipped in
// dry-run mode.
func (r *CommandRunner) Mutate(ctx context.Context, args ...string) error {
	if r.dryRun {
		slog.Info("dry-run: skip git " + strings.Join(args, " "))
		return nil
	}
	_, err := r.runInternal(ctx, "git", true, args...)
	return err
}

// RunStg executes a read-only stg command and returns output as lines.
func (r *CommandRunner) RunStg(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.runInternal(ctx, "stg", false, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// MutateStg executes a stg command that changes repository state. Skipped in
// dry-run mode.
func (r *CommandRunner) MutateStg(ctx context.Context, args ...string) error {
	if r.dryRun {
		slog.Info("dry-run: skip stg " + strings.Join(args, " "))
		return nil
	}
	_, err := r.runInternal(ctx, "stg", true, args...)
	return err
}

// RunGitCommand executes a read-only git command using the default runner.
func RunGitCommand(ctx context.Context, args ...string) (string, error) {
	return defaultRunner.Run(ctx, args...)
}

// RunGitCommandLines executes a read-only git command using the default
// runner and returns output as lines.
func RunGitCommandLines(ctx context.Context, args ...string) ([]string, error) {
	return defaultRunner.RunLines(ctx, args...)
}

// MutateGitCommand executes a mutating git command using the default runner.
func MutateGitCommand(ctx context.Context, args ...string) error {
	return defaultRunner.Mutate(ctx, args...)
}

// RunStgCommand executes a read-only stg command using the default runner.
func RunStgCommand(ctx context.Context, args ...string) ([]string, error) {
	return defaultRunner.RunStg(ctx, args...)
}

// MutateStgCommand executes a mutating stg command using the default runner.
func MutateStgCommand(ctx context.Context, args ...string) error {
	return defaultRunner.MutateStg(ctx, args...)
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
