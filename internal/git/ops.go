package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
)

// IsWorkdirClean reports whether the working tree has no modified tracked files.
func IsWorkdirClean(ctx context.Context) (bool, error) {
	out, err := RunGitCommand(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// CheckWorkdirIsClean returns ErrDirtyWorkdir when the working tree is dirty.
func CheckWorkdirIsClean(ctx context.Context) error {
	clean, err := IsWorkdirClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return jferrors.ErrDirtyWorkdir
	}
	return nil
}

// CurrentRef returns the ref HEAD points at: the symbolic ref name when on a
// branch, the bare commit SHA when detached.
func CurrentRef(ctx context.Context) (RefName, error) {
	out, err := RunGitCommand(ctx, "symbolic-ref", "--quiet", "HEAD")
	if err == nil && out != "" {
		return RefName(out), nil
	}

	out, err = RunGitCommand(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return RefName(out), nil
}

// CurrentBranch returns the checked-out branch name, or "" when HEAD is detached.
func CurrentBranch(ctx context.Context) (BranchName, error) {
	ref, err := CurrentRef(ctx)
	if err != nil {
		return "", err
	}
	return ref.Branch(), nil
}

const dereferenceSuffix = "^{}"

// ListRefs enumerates every ref in the repository paired with its commit
// SHA, plus a synthetic HEAD entry. Annotated tags are dereferenced so the
// SHA always identifies a commit.
func ListRefs(ctx context.Context) ([]Ref, error) {
	headSha, err := RunGitCommand(ctx, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}
	result := []Ref{{Name: "HEAD", Sha: Sha(headSha)}}

	lines, err := RunGitCommandLines(ctx, "show-ref", "--dereference")
	if err != nil {
		return nil, err
	}

	shaByName := map[RefName]Sha{}
	var order []RefName
	for _, line := range lines {
		shaStr, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		ref := RefName(name)
		if deref, found := strings.CutSuffix(name, dereferenceSuffix); found {
			// The dereferenced SHA wins over the tag object SHA.
			ref = RefName(deref)
			if _, seen := shaByName[ref]; !seen {
				order = append(order, ref)
			}
			shaByName[ref] = Sha(shaStr)
		} else if _, seen := shaByName[ref]; !seen {
			shaByName[ref] = Sha(shaStr)
			order = append(order, ref)
		}
	}

	for _, name := range order {
		result = append(result, Ref{Name: name, Sha: shaByName[name]})
	}
	return result, nil
}

// RevListAll returns the raw bulk history listing used to build the commit
// graph: one "commit" line per commit followed by its parents and ref
// decorations.
func RevListAll(ctx context.Context) ([]string, error) {
	return RunGitCommandLines(ctx, "rev-list", "--all", "--pretty=format:parents% P%nrefs% D")
}

// ForceBranch creates or force-moves a branch to target without setting up
// tracking.
func ForceBranch(ctx context.Context, branch BranchName, target string) error {
	return MutateGitCommand(ctx, "branch", "--force", "--no-track", string(branch), target)
}

// SetUpstream points branch's tracking configuration at upstream.
func SetUpstream(ctx context.Context, branch BranchName, upstream RefName) error {
	return MutateGitCommand(ctx, "branch", "--set-upstream-to="+string(upstream), string(branch))
}

// DeleteBranch force-deletes a local branch.
func DeleteBranch(ctx context.Context, branch BranchName) error {
	return MutateGitCommand(ctx, "branch", "--delete", "--force", string(branch))
}

// DeleteRemoteBranch deletes a branch on a remote.
func DeleteRemoteBranch(ctx context.Context, remote string, branch BranchName) error {
	return MutateGitCommand(ctx, "push", remote, ":"+string(branch))
}

// DeleteRef removes an arbitrary ref.
func DeleteRef(ctx context.Context, name RefName) error {
	return MutateGitCommand(ctx, "update-ref", "-d", string(name))
}

// FetchAllPrune fetches every remote and prunes stale remote-tracking refs.
func FetchAllPrune(ctx context.Context) error {
	return MutateGitCommand(ctx, "fetch", "--all", "--prune")
}

// Push pushes a local ref to a remote branch.
func Push(ctx context.Context, remote string, local RefName, branch BranchName, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, string(local)+":"+HeadPrefix+string(branch))
	return MutateGitCommand(ctx, args...)
}

// CleanUntracked removes untracked files and directories from the worktree.
func CleanUntracked(ctx context.Context) error {
	return MutateGitCommand(ctx, "clean", "-d", "--force")
}

// RemoveUntrackedFiles deletes every file git reports as untracked,
// catching what clean leaves behind under ignore rules.
func RemoveUntrackedFiles(ctx context.Context) error {
	files, err := RunGitCommandLines(ctx, "ls-files", "--others")
	if err != nil {
		return err
	}
	if DryRun() {
		for _, f := range files {
			slog.Info("dry-run: skip rm " + f)
		}
		return nil
	}
	return removeFiles(defaultRunner.workingDir, files)
}

// removeFiles removes worktree-relative paths. Already-missing files are
// fine: clean may have taken them first.
func removeFiles(root string, files []string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := os.Remove(filepath.Join(root, f)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// DetachHead checks out HEAD detached, runs fn, and returns to the original
// branch. Nothing to restore when HEAD was already detached.
func DetachHead(ctx context.Context, fn func() error) error {
	branch, err := CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if branch == "" {
		return fn()
	}
	if err := MutateGitCommand(ctx, "checkout", "--detach", "HEAD"); err != nil {
		return err
	}
	defer func() {
		_ = MutateGitCommand(ctx, "checkout", string(branch))
	}()
	return fn()
}

// RemoveConfigSection drops a whole git config section.
func RemoveConfigSection(ctx context.Context, section string) error {
	return MutateGitCommand(ctx, "config", "--local", "--remove-section", section)
}
