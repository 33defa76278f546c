package executor

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ShellExecutor implements CommandExecutor by spawning real processes.
type ShellExecutor struct{}

// NewShellExecutor creates the production executor.
func NewShellExecutor() CommandExecutor {
	return &ShellExecutor{}
}

// Run executes a command and captures stdout and stderr separately.
// The returned error wraps the exit failure; stderr is still returned
// so callers can surface diagnostics alongside it.
func (e *ShellExecutor) Run(dir string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.Command(name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// Shell executes a command line through `sh -c`.
func (e *ShellExecutor) Shell(dir string, command string) ([]byte, []byte, error) {
	return e.Run(dir, "sh", "-c", command)
}
