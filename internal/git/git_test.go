package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanpelt/trr/internal/executor"
)

// initRepo creates a real repository with one commit so HEAD resolves.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"HTTPS", "https://github.com/vanpelt/trr.git", "trr"},
		{"HTTPSNoSuffix", "https://github.com/vanpelt/trr", "trr"},
		{"SCP", "git@github.com:vanpelt/trr.git", "trr"},
		{"SCPNested", "git@example.com:team/group/project.git", "project"},
		{"Unparseable", "/local/path/repo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepoNameFromURL(tt.url))
		})
	}
}

func TestCurrentBranch(t *testing.T) {
	client := NewClient(executor.NewFake())

	t.Run("FreshRepository", func(t *testing.T) {
		dir := initRepo(t)
		branch, err := client.CurrentBranch(dir)
		require.NoError(t, err)
		assert.Equal(t, "master", branch)
	})

	t.Run("NotARepository", func(t *testing.T) {
		_, err := client.CurrentBranch(t.TempDir())
		require.Error(t, err)
	})
}

func TestRepoName(t *testing.T) {
	t.Run("NoRemote", func(t *testing.T) {
		dir := initRepo(t)
		client := NewClient(executor.NewFake())
		assert.Empty(t, client.RepoName(dir))
	})

	t.Run("WithOrigin", func(t *testing.T) {
		dir := initRepo(t)
		repo, err := gogit.PlainOpen(dir)
		require.NoError(t, err)
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: "origin",
			URLs: []string{"git@github.com:vanpelt/trr.git"},
		})
		require.NoError(t, err)

		client := NewClient(executor.NewFake())
		assert.Equal(t, "trr", client.RepoName(dir))
	})
}

func TestCheckoutBranch(t *testing.T) {
	t.Run("CreatesBranch", func(t *testing.T) {
		fake := executor.NewFake()
		client := NewClient(fake)

		require.NoError(t, client.CheckoutBranch("/copy", "feature/api"))
		require.Len(t, fake.Calls, 1)
		assert.Equal(t, "/copy", fake.Calls[0].Dir)
		assert.Equal(t, []string{"checkout", "-b", "feature/api"}, fake.Calls[0].Args)
	})

	t.Run("ReusesExistingBranch", func(t *testing.T) {
		fake := executor.NewFake()
		fake.Script("git checkout -b", executor.FakeResult{
			Stderr: "fatal: a branch named 'feature/api' already exists",
			Err:    executor.ExitError("git", 128),
		})
		client := NewClient(fake)

		require.NoError(t, client.CheckoutBranch("/copy", "feature/api"))
		require.Len(t, fake.Calls, 2)
		assert.Equal(t, []string{"checkout", "feature/api"}, fake.Calls[1].Args)
	})

	t.Run("SurfacesStderr", func(t *testing.T) {
		fake := executor.NewFake()
		fake.Script("git checkout", executor.FakeResult{
			Stderr: "fatal: not a git repository",
			Err:    executor.ExitError("git", 128),
		})
		client := NewClient(fake)

		err := client.CheckoutBranch("/copy", "main")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a git repository")
	})
}
