package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addEnvironment fakes a synced copy: a directory carrying a .git entry.
func addEnvironment(t *testing.T, root, branch string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(branch))
	require.NoError(t, os.MkdirAll(filepath.Join(path, ".git"), 0o755))
	return path
}

func TestListEmpty(t *testing.T) {
	t.Run("MissingRoot", func(t *testing.T) {
		reg := NewRegistry(filepath.Join(t.TempDir(), ".trr"))
		envs, err := reg.List()
		require.NoError(t, err)
		assert.Empty(t, envs)
	})

	t.Run("EmptyRoot", func(t *testing.T) {
		root := t.TempDir()
		envs, err := NewRegistry(root).List()
		require.NoError(t, err)
		assert.Empty(t, envs)
	})
}

func TestListFlattensNestedBranches(t *testing.T) {
	root := t.TempDir()
	addEnvironment(t, root, "bugfix/login-fix")
	addEnvironment(t, root, "feature/api")
	addEnvironment(t, root, "main")

	envs, err := NewRegistry(root).List()
	require.NoError(t, err)

	branches := make([]string, len(envs))
	for i, env := range envs {
		branches[i] = env.Branch
	}
	assert.Equal(t, []string{"bugfix/login-fix", "feature/api", "main"}, branches)
}

func TestListSkipsNonEnvironments(t *testing.T) {
	root := t.TempDir()
	env := addEnvironment(t, root, "feature/api")

	// stray file at the root, an intermediate dir without .git, and a
	// nested repo inside the copy that must not be descended into
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("not an env"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "abandoned"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(env, "vendor", "dep", ".git"), 0o755))

	envs, err := NewRegistry(root).List()
	require.NoError(t, err)

	require.Len(t, envs, 1)
	assert.Equal(t, "feature/api", envs[0].Branch)
	assert.Equal(t, env, envs[0].Path)
	assert.False(t, envs[0].CreatedAt.IsZero())
}
