// Package registry enumerates existing environments. The filesystem
// under the sync root is the single source of truth: no metadata files,
// an environment exists iff its directory does. The index is rebuilt by
// scanning on every invocation.
package registry

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Environment is one synced repository copy, keyed by its resolved
// branch name.
type Environment struct {
	// Branch is the resolved branch name, slash-separated for nested
	// directories.
	Branch string
	// Path is the absolute environment directory.
	Path string
	// CreatedAt is the directory's modification time, shown by the
	// delete picker.
	CreatedAt time.Time
}

// Registry scans a sync root for environments.
type Registry struct {
	// Root is the absolute sync root directory (e.g. <repo>/.trr).
	Root string
}

// NewRegistry creates a registry over root.
func NewRegistry(root string) *Registry {
	return &Registry{Root: root}
}

// List returns all environments sorted by branch name. Branch names may
// contain slashes, so the scan recurses; a directory counts as an
// environment once it carries a .git entry (every rsync copy does),
// and intermediate path segments do not. Non-directory entries are
// skipped. A missing sync root means no environments.
func (r *Registry) List() ([]Environment, error) {
	if _, err := os.Stat(r.Root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var envs []Environment
	err := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == r.Root {
			return nil
		}
		if !isEnvironmentDir(path) {
			return nil
		}
		branch, relErr := filepath.Rel(r.Root, path)
		if relErr != nil {
			return relErr
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		envs = append(envs, Environment{
			Branch:    filepath.ToSlash(branch),
			Path:      path,
			CreatedAt: info.ModTime(),
		})
		return fs.SkipDir // do not descend into the copy itself
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(envs, func(i, j int) bool { return envs[i].Branch < envs[j].Branch })
	return envs, nil
}

func isEnvironmentDir(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}
