// Package tmux drives the terminal multiplexer side of an environment:
// creating the dedicated window (or session, when invoked outside
// tmux), feeding it the rendered init commands, and tearing it down.
package tmux

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vanpelt/trr/internal/executor"
	"github.com/vanpelt/trr/internal/logger"
)

// Common errors.
var (
	// ErrNoServer means no tmux server is reachable.
	ErrNoServer = errors.New("no tmux server running")
	// ErrWindowCreation means the window or session could not be
	// created. The sync directory is intentionally left in place:
	// rerunning create reuses it and retries only this step.
	ErrWindowCreation = errors.New("tmux window creation failed")
)

// State tracks an environment's window through its lifecycle.
type State int

// Window lifecycle states.
const (
	Absent State = iota
	Creating
	Active
	Closing
	Closed
)

// Controller owns the window lifecycle for environments. All tmux
// invocations go through the executor so tests can script them.
type Controller struct {
	exec executor.CommandExecutor
	// InsideTmux selects window-in-current-session mode over
	// detached-session mode. Defaults to whether $TMUX is set.
	InsideTmux bool
}

// NewController creates a controller, detecting tmux nesting from the
// environment.
func NewController(exec executor.CommandExecutor) *Controller {
	return &Controller{exec: exec, InsideTmux: os.Getenv("TMUX") != ""}
}

// IsAvailable reports whether a tmux binary can be invoked at all.
func (c *Controller) IsAvailable() bool {
	_, _, err := c.exec.Run("", "tmux", "-V")
	return err == nil
}

// WindowName derives the window-safe name for a branch: slashes are not
// accepted by tmux targets, so they become dashes, prefixed with a
// short repository tag to keep windows from different repos apart.
func WindowName(repoPrefix, branch string) string {
	return repoPrefix + "-" + strings.ReplaceAll(branch, "/", "-")
}

// OpenWindow creates a named window in the current session rooted at
// dir and feeds it the command text, line by line. The text is opaque:
// pane indices and layout live in the configuration, not here.
func (c *Controller) OpenWindow(name, dir, commands string) error {
	// Absent -> Creating
	if _, err := c.run("new-window", "-n", name, "-c", dir); err != nil {
		return fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}
	// Creating -> Active
	if err := c.sendLines(name, commands); err != nil {
		return err
	}
	if _, err := c.run("select-window", "-t", name); err != nil {
		return fmt.Errorf("selecting window %s: %w", name, err)
	}
	return nil
}

// OpenSession creates a detached session of the given name, feeds it
// the command text, and attaches. Used when trr itself is not running
// under tmux.
func (c *Controller) OpenSession(name, dir, commands string) error {
	if _, err := c.run("new-session", "-d", "-s", name, "-c", dir); err != nil {
		return fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}
	if err := c.sendLines(name, commands); err != nil {
		return err
	}
	return c.attach(name)
}

// Close tears down whatever exists under the environment's name: the
// window when running inside tmux, otherwise the session. A window the
// user already closed by hand is not an error, deletion must stay
// effective regardless.
func (c *Controller) Close(name string) error {
	// Active -> Closing
	if c.InsideTmux {
		found, err := c.hasWindow(name)
		if err != nil && !errors.Is(err, ErrNoServer) {
			return err
		}
		if found {
			if _, err := c.run("kill-window", "-t", name); err != nil {
				return fmt.Errorf("killing window %s: %w", name, err)
			}
			logger.Debugf("killed tmux window %s", name)
			return nil
		}
	}

	found, err := c.hasSession(name)
	if err != nil {
		if errors.Is(err, ErrNoServer) {
			return nil // nothing to close
		}
		return err
	}
	if found {
		if _, err := c.run("kill-session", "-t", name); err != nil {
			return fmt.Errorf("killing session %s: %w", name, err)
		}
		logger.Debugf("killed tmux session %s", name)
	}
	// Closing -> Closed; absence counts as already satisfied.
	return nil
}

func (c *Controller) sendLines(target, commands string) error {
	for _, line := range strings.Split(strings.TrimSpace(commands), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := c.run("send-keys", "-t", target, line, "Enter"); err != nil {
			return fmt.Errorf("sending init command to %s: %w", target, err)
		}
	}
	return nil
}

func (c *Controller) hasWindow(name string) (bool, error) {
	out, err := c.run("list-windows", "-F", "#{window_name}")
	if err != nil {
		return false, err
	}
	for _, window := range strings.Split(out, "\n") {
		if window == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *Controller) hasSession(name string) (bool, error) {
	out, err := c.run("list-sessions", "-F", "#{session_name}")
	if err != nil {
		return false, err
	}
	for _, session := range strings.Split(out, "\n") {
		if session == name {
			return true, nil
		}
	}
	return false, nil
}

// run executes a tmux command through the executor and returns trimmed
// stdout.
func (c *Controller) run(args ...string) (string, error) {
	stdout, stderr, err := c.exec.Run("", "tmux", args...)
	if err != nil {
		return "", wrapError(err, string(stderr), args)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// attach replaces the captured-output path: attaching needs the real
// terminal, so it binds stdio directly instead of going through the
// executor.
func (c *Controller) attach(name string) error {
	cmd := exec.Command("tmux", "attach-session", "-t", name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("attaching to session %s: %w", name, err)
	}
	return nil
}

// wrapError classifies tmux stderr into the errors callers branch on.
func wrapError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)
	if strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "server exited unexpectedly") {
		return ErrNoServer
	}
	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", args[0], stderr)
	}
	return fmt.Errorf("tmux %s: %w", args[0], err)
}
