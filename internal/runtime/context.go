// Package runtime provides a context type that holds the repository
// snapshot and logger for use throughout the application. This avoids
// passing multiple parameters.
package runtime

import (
	"context"
	"fmt"

	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/output"
	"github.com/diseaz-joom/dsaflow/internal/repo"
)

// Context provides access to the repository snapshot and output for commands
type Context struct {
	Cache    *repo.Cache
	Splog    *output.Splog
	RepoRoot string
}

// GetContext builds the command context: locates the repository, moves the
// git runner to its root and loads a fresh snapshot.
func GetContext(ctx context.Context) (*Context, error) {
	splog, err := output.NewSplogWithFile(output.GetLogFilePath())
	if err != nil {
		splog = output.NewSplog()
		splog.Debug("file logging disabled: %v", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	git.SetWorkingDir(repoRoot)

	cache, err := repo.Open(ctx)
	if err != nil {
		return nil, err
	}

	return &Context{
		Cache:    cache,
		Splog:    splog,
		RepoRoot: repoRoot,
	}, nil
}

// Close releases the debug log file.
func (c *Context) Close() error {
	return c.Splog.Close()
}

// Reload replaces the snapshot after mutating commands changed refs or
// config.
func (c *Context) Reload(ctx context.Context) error {
	cache, err := repo.Open(ctx)
	if err != nil {
		return err
	}
	c.Cache = cache
	return nil
}
