package contract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/clokep/arewetypedyet/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("git command in %q interrupted: %w", repoPath, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Fetch implements the GitClient interface.
func (c *LocalGitClient) Fetch(ctx context.Context, repoPath string, remote string) error {
	_, err := c.Run(ctx, repoPath, "fetch", "--quiet", remote)
	return err
}

// IterCommits implements the GitClient interface.
// The history is streamed from a single rev-list process, which is killed
// as soon as the consumer stops ranging.
func (c *LocalGitClient) IterCommits(ctx context.Context, repoPath string, ref string) iter.Seq2[schema.Commit, error] {
	return func(yield func(schema.Commit, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "rev-list", "--timestamp", ref)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield(schema.Commit{}, fmt.Errorf("failed to open rev-list output: %w", err))
			return
		}
		if err := cmd.Start(); err != nil {
			yield(schema.Commit{}, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err))
			return
		}

		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			commit, err := parseRevListLine(sc.Text())
			if err == nil && yield(commit, nil) {
				continue
			}
			cancel()
			_ = cmd.Wait()
			if err != nil {
				yield(schema.Commit{}, err)
			}
			return
		}

		scanErr := sc.Err()
		waitErr := cmd.Wait()
		switch {
		case scanErr != nil:
			yield(schema.Commit{}, fmt.Errorf("error reading rev-list output: %w", scanErr))
		case waitErr != nil:
			yield(schema.Commit{}, fmt.Errorf("git rev-list %s failed in %q: %s", ref, repoPath, strings.TrimSpace(stderr.String())))
		}
	}
}

// parseRevListLine parses "<unix committer time> <hash>" as printed by rev-list --timestamp.
func parseRevListLine(line string) (schema.Commit, error) {
	ts, id, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok || id == "" {
		return schema.Commit{}, fmt.Errorf("unexpected rev-list line %q", line)
	}
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return schema.Commit{}, fmt.Errorf("unexpected rev-list timestamp %q: %w", ts, err)
	}
	return schema.Commit{ID: id, Time: time.Unix(secs, 0)}, nil
}

// ResetHard implements the GitClient interface.
// HEAD is detached at the commit so the local branch is left alone.
func (c *LocalGitClient) ResetHard(ctx context.Context, repoPath string, commit string) error {
	if _, err := c.Run(ctx, repoPath, "checkout", "--quiet", "--force", "--detach", commit); err != nil {
		return err
	}
	_, err := c.Run(ctx, repoPath, "reset", "--quiet", "--hard", commit)
	return err
}
