// Package alias expands user-supplied branch tokens into concrete
// branch names using the configured alias table.
package alias

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vanpelt/trr/internal/config"
	"github.com/vanpelt/trr/internal/executor"
)

var (
	// ErrExecution means a dynamic alias command exited non-zero or
	// produced empty output.
	ErrExecution = errors.New("alias command failed")
	// ErrInvalidBranch means the resolved name cannot be used as a git
	// branch or a filesystem path segment.
	ErrInvalidBranch = errors.New("invalid branch name")
)

// Resolver expands branch tokens against an alias table. Dynamic rules
// run through the injected executor so tests can script their output.
type Resolver struct {
	aliases map[string]string
	exec    executor.CommandExecutor
}

// NewResolver creates a resolver for the given alias table.
func NewResolver(aliases map[string]string, exec executor.CommandExecutor) *Resolver {
	return &Resolver{aliases: aliases, exec: exec}
}

// Resolve expands token into a concrete branch name.
//
// The longest alias key that is a prefix of the token wins, so
// overlapping keys like "@f" and "@fx" disambiguate deterministically.
// A token with no matching key is used verbatim. Dynamic rules are
// executed freshly on every call: their whole point is timestamp or
// uniqueness generation, so caching would defeat them.
func (r *Resolver) Resolve(token string) (string, error) {
	resolved := token

	if key, ok := r.matchKey(token); ok {
		suffix := token[len(key):]
		rule := r.aliases[key]
		if cmd, dynamic := strings.CutPrefix(rule, config.DynamicAliasMarker); dynamic {
			prefix, err := r.runDynamic(key, cmd)
			if err != nil {
				return "", err
			}
			resolved = prefix + suffix
		} else {
			resolved = rule + suffix
		}
	}

	if err := validateBranchName(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// matchKey returns the longest alias key that prefixes token.
func (r *Resolver) matchKey(token string) (string, bool) {
	keys := make([]string, 0, len(r.aliases))
	for k := range r.aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, k := range keys {
		if k != "" && strings.HasPrefix(token, k) {
			return k, true
		}
	}
	return "", false
}

func (r *Resolver) runDynamic(key, command string) (string, error) {
	stdout, stderr, err := r.exec.Shell("", command)
	if err != nil {
		return "", fmt.Errorf("%w: alias %q: %v (stderr: %s)", ErrExecution, key, err, strings.TrimSpace(string(stderr)))
	}
	out := strings.TrimSpace(string(stdout))
	if out == "" {
		return "", fmt.Errorf("%w: alias %q produced empty output", ErrExecution, key)
	}
	return out, nil
}

// validateBranchName rejects names unusable as a branch and a path.
// The sync engine re-checks containment on deletion; this is the first
// line of defense against crafted tokens.
func validateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBranch)
	case strings.HasPrefix(name, "/"):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidBranch, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with a dash", ErrInvalidBranch, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" {
			return fmt.Errorf("%w: %q contains an empty path segment", ErrInvalidBranch, name)
		}
		if seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q contains a relative path segment", ErrInvalidBranch, name)
		}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains control characters", ErrInvalidBranch, name)
		}
	}
	if strings.ContainsAny(name, " ~^:?*[\\") {
		return fmt.Errorf("%w: %q contains characters git refuses in ref names", ErrInvalidBranch, name)
	}
	return nil
}
