package executor

// CommandExecutor abstracts external process execution so the alias
// resolver, sync engine and tmux controller can be tested without
// spawning real processes.
type CommandExecutor interface {
	// Run executes a command in dir (empty means inherit the current
	// directory) and returns captured stdout and stderr.
	Run(dir string, name string, args ...string) (stdout []byte, stderr []byte, err error)
	// Shell executes a command line through `sh -c`.
	Shell(dir string, command string) (stdout []byte, stderr []byte, err error)
}
