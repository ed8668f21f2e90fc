package storageplugin

import (
	"fmt"
	"os"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/spidercore/engine/internal/callback"
	"github.com/spidercore/engine/internal/plugin"
)

// GitID is the identifier the git-history storage plugin registers under.
const GitID = "git"

// gitPlugin snapshots every dump2file run into a local git repository,
// giving crash-recovery history beyond the single latest snapshot.
type gitPlugin struct{}

// NewGit constructs the git-backed StoragePlugin.
func NewGit() plugin.Plugin {
	return &gitPlugin{}
}

func (g *gitPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{ID: GitID, Kind: "storage"}
}

var _ plugin.StartPreparer = (*gitPlugin)(nil)

// PrepareForStart records the git repository directory the args specify
// (key "repo_dir") into the bundle under "git_repo_dir" so the Engine's dump routine
// can commit to it after each successful snapshot. Resolution itself does
// not touch the filesystem; CommitDump does.
func (g *gitPlugin) PrepareForStart(args map[string]any, options callback.Bundle) (callback.Bundle, error) {
	repoDir, _ := args["repo_dir"].(string)
	if repoDir == "" {
		return nil, fmt.Errorf("git storage plugin: missing \"repo_dir\" argument")
	}

	out := options.Clone()
	out["git_repo_dir"] = repoDir
	return out, nil
}

// RegisterGit adds the git plugin to reg under GitID.
func RegisterGit(reg *plugin.Registry) {
	reg.Register(GitID, func() plugin.Plugin { return NewGit() })
}

// CommitDump opens (or initializes) the git repository at repoDir and
// commits the dump files under message. It is safe to call repeatedly;
// a run with no changes since the last commit is a no-op.
func CommitDump(repoDir, message string) error {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		repo, err = git.PlainInit(repoDir, false)
		if err != nil {
			return fmt.Errorf("init dump history repository: %w", err)
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("stage dump files: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("check worktree status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	author := &object.Signature{
		Name:  "engine",
		Email: "engine@localhost",
		When:  time.Now(),
	}
	if _, err := wt.Commit(message, &git.CommitOptions{Author: author}); err != nil {
		return fmt.Errorf("commit dump snapshot: %w", err)
	}
	return nil
}

// EnsureDir creates the storage directory if absent.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
