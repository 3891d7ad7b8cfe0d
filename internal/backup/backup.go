package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Snapshot commits the current state of the dataset files in dir to a
// git repository living inside the data directory, initializing it on
// first use. It returns the commit hash, or an empty string when
// nothing has changed since the last snapshot.
func Snapshot(dir, message string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		slog.Info("initializing backup repository", "dir", dir)
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open backup repository in %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree for %s: %w", dir, err)
	}

	if err := worktree.AddGlob("*.csv"); err != nil {
		if errors.Is(err, git.ErrGlobNoMatches) {
			return "", nil // no dataset files yet
		}
		return "", fmt.Errorf("failed to stage dataset files in %s: %w", dir, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get status for %s: %w", dir, err)
	}
	if status.IsClean() {
		return "", nil
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "jobtrack",
			Email: "jobtrack@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit backup in %s: %w", dir, err)
	}

	slog.Info("backup snapshot committed", "dir", dir, "hash", hash.String())
	return hash.String(), nil
}
