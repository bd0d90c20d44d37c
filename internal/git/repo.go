package git

import (
	"errors"

	"github.com/charmbracelet/log"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gorewood/gy/internal/output"
)

// Repo describes the repository enclosing a directory.
type Repo struct {
	Root   string // Work tree root
	Branch string // Current branch, or "HEAD" when detached
}

var (
	errNotARepo = output.NewUserError("not in a git repository")
	errBareRepo = output.NewUserError("cannot commit in a bare repository")
)

// OpenRepo finds the repository containing dir, walking up parent
// directories. Bare repositories are rejected since there is nothing to
// commit from.
//
// Repositories go-git cannot read, such as partial clones or sha256
// repositories, are described by the git executable instead.
func OpenRepo(dir string) (*Repo, error) {
	repo, err := openWithGoGit(dir)
	switch {
	case err == nil:
		return repo, nil
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return nil, errNotARepo
	case errors.Is(err, gogit.ErrIsBareRepository):
		return nil, errBareRepo
	}

	log.Debug("go-git cannot read repository, using git", "dir", dir, "err", err)
	return openWithGit(dir)
}

func openWithGoGit(dir string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, err
	}

	branch, err := currentBranch(repo)
	if err != nil {
		return nil, err
	}

	return &Repo{Root: worktree.Filesystem.Root(), Branch: branch}, nil
}

// openWithGit asks the git executable for the work tree root and branch.
func openWithGit(dir string) (*Repo, error) {
	if _, err := Run("-C", dir, "rev-parse", "--git-dir"); err != nil {
		return nil, errNotARepo
	}
	if !IsRepo(dir) {
		return nil, errBareRepo
	}

	root, err := Run("-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}

	// symbolic-ref also names an unborn branch; it fails only when detached.
	branch, err := Run("-C", dir, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil || branch == "" {
		branch = "HEAD"
	}

	return &Repo{Root: root, Branch: branch}, nil
}

// currentBranch reads HEAD without resolving it, so a branch with no
// commits yet still reports its name.
func currentBranch(repo *gogit.Repository) (string, error) {
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", err
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return "HEAD", nil
}
