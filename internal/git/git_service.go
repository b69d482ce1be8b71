package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/logger"
)

// GitService runs git in dir; an empty dir means the working directory.
type GitService struct {
	dir string
}

func NewGitService(dir string) *GitService {
	return &GitService{dir: dir}
}

func (s *GitService) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	return cmd
}

// HasStagedChanges checks if there are changes in the staging area
func (s *GitService) HasStagedChanges(ctx context.Context) bool {
	cmd := s.command(ctx, "diff", "--cached", "--quiet")
	err := cmd.Run()

	// exit status 1 means there are staged changes
	return err != nil && cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 1
}

// GetStagedDiff returns the output of git diff --cached. An empty string is
// not an error here; blank input is rejected by the caller.
func (s *GitService) GetStagedDiff(ctx context.Context) (string, error) {
	cmd := s.command(ctx, "diff", "--cached")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.ErrGitDiff.
			WithError(err).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	logger.Debug(ctx, "read staged diff", "size", stdout.Len())
	return stdout.String(), nil
}
