// Package git answers the few repository questions trr has: what is
// this repo called, what branch is checked out, and checking out the
// new branch inside a fresh copy. Reads go through go-git; mutations
// fall back to the git binary.
package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/vanpelt/trr/internal/executor"
)

// Client wraps repository queries. The executor is only used for
// operations go-git does not cover well (checkout in a copied tree).
type Client struct {
	exec executor.CommandExecutor
}

// NewClient creates a git client.
func NewClient(exec executor.CommandExecutor) *Client {
	return &Client{exec: exec}
}

// RepoName returns the repository name derived from the origin remote
// URL, or "" when there is no usable remote.
func (c *Client) RepoName(dir string) string {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}
	return RepoNameFromURL(remote.Config().URLs[0])
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return head.Name().Short(), nil
}

// CheckoutBranch switches the copied tree onto branch, creating it if
// needed. A branch surviving from an earlier create run is reused, so
// re-running create stays idempotent.
func (c *Client) CheckoutBranch(dir, branch string) error {
	_, stderr, err := c.exec.Run(dir, "git", "checkout", "-b", branch)
	if err == nil {
		return nil
	}
	if strings.Contains(string(stderr), "already exists") {
		_, stderr, err = c.exec.Run(dir, "git", "checkout", branch)
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("git checkout %s: %w (stderr: %s)", branch, err, strings.TrimSpace(string(stderr)))
}

// RepoNameFromURL extracts the repository name from an origin URL,
// handling both https and scp-style forms.
func RepoNameFromURL(url string) string {
	url = strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		parts := strings.Split(url, "/")
		return strings.TrimSuffix(parts[len(parts)-1], ".git")
	case strings.Contains(url, ":"):
		tail := url[strings.LastIndex(url, ":")+1:]
		parts := strings.Split(tail, "/")
		return strings.TrimSuffix(parts[len(parts)-1], ".git")
	default:
		return ""
	}
}
