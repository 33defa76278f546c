// Package syncer creates and removes per-branch repository copies by
// delegating to rsync.
package syncer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanpelt/trr/internal/executor"
	"github.com/vanpelt/trr/internal/logger"
)

// ErrSync wraps copy or removal failures, including attempts to remove
// a path outside the managed sync root.
var ErrSync = errors.New("sync failed")

// Engine computes environment paths and drives rsync. All destination
// paths are derived from resolved branch names; removal never accepts
// a free-form path.
type Engine struct {
	// SourceRoot is the repository working directory being copied.
	SourceRoot string
	// SyncPath is the directory under SourceRoot holding all copies,
	// e.g. ".trr". It is excluded from every copy unconditionally.
	SyncPath string
	// Verbose adds -v to rsync for debug runs.
	Verbose bool

	exec executor.CommandExecutor
}

// NewEngine creates a sync engine rooted at sourceRoot.
func NewEngine(sourceRoot, syncPath string, exec executor.CommandExecutor) *Engine {
	return &Engine{SourceRoot: sourceRoot, SyncPath: syncPath, exec: exec}
}

// Root returns the absolute sync root directory.
func (e *Engine) Root() string {
	return filepath.Join(e.SourceRoot, e.SyncPath)
}

// DestPath returns the copy destination for a resolved branch name.
// Slashes in the branch name become nested directories under the sync
// root.
func (e *Engine) DestPath(branch string) string {
	return filepath.Join(e.Root(), filepath.FromSlash(branch))
}

// ExcludeSet returns the patterns passed to rsync: the configured
// excludes plus, always, the sync path itself. Without the
// self-exclusion every new copy would recursively swallow all prior
// environments, so this is an invariant of the engine rather than a
// config default.
func (e *Engine) ExcludeSet(configured []string) []string {
	set := make([]string, 0, len(configured)+1)
	set = append(set, e.SyncPath)
	for _, pattern := range configured {
		if pattern != e.SyncPath {
			set = append(set, pattern)
		}
	}
	return set
}

// Create copies the repository into the branch's destination directory.
// Re-running against an existing destination is fine: rsync updates
// changed files and leaves destination-only files alone (no --delete),
// which is what makes a failed later step safe to retry.
func (e *Engine) Create(branch string, configuredExcludes []string) (string, error) {
	dest := e.DestPath(branch)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrSync, dest, err)
	}

	args := []string{"-a"}
	if e.Verbose {
		args = append(args, "-v")
	}
	for _, pattern := range e.ExcludeSet(configuredExcludes) {
		args = append(args, "--exclude", pattern)
	}
	args = append(args, e.SourceRoot+string(os.PathSeparator), dest+string(os.PathSeparator))

	logger.Debugf("rsync %s", strings.Join(args, " "))
	_, stderr, err := e.exec.Run("", "rsync", args...)
	if err != nil {
		return "", fmt.Errorf("%w: rsync: %v (stderr: %s)", ErrSync, err, strings.TrimSpace(string(stderr)))
	}
	return dest, nil
}

// Remove deletes a branch's copy. The target is recomputed from the
// branch name and verified to sit below the sync root, so a crafted
// name like "../../etc" fails instead of escaping the managed tree.
// Empty intermediate directories left behind by nested branch names are
// pruned afterwards.
func (e *Engine) Remove(branch string) error {
	root, err := filepath.Abs(e.Root())
	if err != nil {
		return fmt.Errorf("%w: resolving sync root: %v", ErrSync, err)
	}
	dest, err := filepath.Abs(e.DestPath(branch))
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %v", ErrSync, branch, err)
	}

	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %q resolves outside the sync root %s", ErrSync, branch, root)
	}

	if _, err := os.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: no environment directory at %s", ErrSync, dest)
		}
		return fmt.Errorf("%w: stat %s: %v", ErrSync, dest, err)
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("%w: removing %s: %v", ErrSync, dest, err)
	}
	e.pruneEmptyParents(dest, root)
	return nil
}

// pruneEmptyParents removes now-empty intermediate directories between
// dest and the sync root. Removal stops at the first non-empty parent.
func (e *Engine) pruneEmptyParents(dest, root string) {
	for dir := filepath.Dir(dest); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}
