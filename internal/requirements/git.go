package requirements

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitClient exposes the version-control signals the refresh pipeline needs:
// whether normalization dirtied the working tree, and the resulting diff.
type GitClient interface {
	// Clean reports whether the working tree under dir has no changes.
	Clean(ctx context.Context, dir string) (bool, error)
	// Diff returns the working-tree diff for dir.
	Diff(ctx context.Context, dir string) (string, error)
}

// CLIGit shells out to the git binary.
type CLIGit struct{}

// Clean implements GitClient using `git status --porcelain`.
func (CLIGit) Clean(ctx context.Context, dir string) (bool, error) {
	out, err := runGit(ctx, "status", "--porcelain", "--", dir)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// Diff implements GitClient using `git diff`.
func (CLIGit) Diff(ctx context.Context, dir string) (string, error) {
	return runGit(ctx, "diff", "--", dir)
}

func runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
