package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/vanpelt/trr/internal/alias"
	"github.com/vanpelt/trr/internal/config"
	"github.com/vanpelt/trr/internal/executor"
	"github.com/vanpelt/trr/internal/git"
	"github.com/vanpelt/trr/internal/logger"
	"github.com/vanpelt/trr/internal/registry"
	"github.com/vanpelt/trr/internal/syncer"
	"github.com/vanpelt/trr/internal/template"
	"github.com/vanpelt/trr/internal/tmux"
)

// App wires the components behind the create and delete flows. The
// commands construct one per invocation; tests construct one with a
// fake executor and a scripted picker.
type App struct {
	Config     *config.Config
	Exec       executor.CommandExecutor
	Git        *git.Client
	Tmux       *tmux.Controller
	SourceRoot string

	// IsTerminal gates the attach-a-session fallback when running
	// outside tmux.
	IsTerminal func() bool
}

// NewApp builds the production App rooted at the current directory.
func NewApp(cfg *config.Config) (*App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	exec := executor.NewShellExecutor()
	return &App{
		Config:     cfg,
		Exec:       exec,
		Git:        git.NewClient(exec),
		Tmux:       tmux.NewController(exec),
		SourceRoot: cwd,
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}, nil
}

func (a *App) engine(verbose bool) *syncer.Engine {
	e := syncer.NewEngine(a.SourceRoot, a.Config.Settings.RepoSyncPath, a.Exec)
	e.Verbose = verbose
	return e
}

// repoPrefix is the short tag prepended to window and session names:
// the first three characters of the repository name (from the origin
// remote), falling back to the working directory name, then to "trr".
func (a *App) repoPrefix() string {
	name := a.Git.RepoName(a.SourceRoot)
	if name == "" {
		name = filepath.Base(a.SourceRoot)
	}
	if name == "" || name == "." || name == string(os.PathSeparator) {
		name = "trr"
	}
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// Create resolves the branch token, syncs the repository copy, checks
// out the branch inside it, and opens the environment's tmux window.
// Each step depends on the previous one, so the flow is strictly
// sequential; a failure after the sync leaves the copy in place and the
// whole flow is safe to re-run.
func (a *App) Create(token string, extraArgs []string, verbose bool) error {
	if token == "" {
		current, err := a.Git.CurrentBranch(a.SourceRoot)
		if err != nil {
			return fmt.Errorf("no branch given and none checked out: %w", err)
		}
		token = current
	}

	resolver := alias.NewResolver(a.Config.BranchAliases, a.Exec)
	branch, err := resolver.Resolve(token)
	if err != nil {
		return err
	}
	logger.Debugf("branch alias expansion: %s -> %s", token, branch)

	engine := a.engine(verbose)
	dest, err := engine.Create(branch, a.Config.Settings.RsyncExcludes)
	if err != nil {
		return err
	}
	logger.Infof("repository synced to %s", dest)

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dest, err)
	}
	if err := a.Git.CheckoutBranch(absDest, branch); err != nil {
		return err
	}

	rendered := template.Render(a.Config.Settings.TmuxWindowInitCommands, strings.Join(extraArgs, " "))

	if !a.Tmux.IsAvailable() {
		logger.Warnf("tmux is not installed, skipping tmux setup")
		logger.Infof("environment ready at %s", absDest)
		return nil
	}

	name := tmux.WindowName(a.repoPrefix(), branch)
	switch {
	case a.Tmux.InsideTmux:
		logger.Infof("creating tmux window %q", name)
		return a.Tmux.OpenWindow(name, absDest, rendered)
	case a.IsTerminal():
		logger.Infof("creating tmux session %q", name)
		return a.Tmux.OpenSession(name, absDest, rendered)
	default:
		logger.Infof("not a terminal; environment ready at %s", absDest)
		return nil
	}
}

// Delete lists environments, lets pick choose one and confirm accept
// it, then closes the associated window and removes the directory.
// A cancelled pick or declined confirmation is a successful no-op.
func (a *App) Delete(pick func([]registry.Environment) (*registry.Environment, error), confirm func(registry.Environment) bool) error {
	engine := a.engine(false)
	reg := registry.NewRegistry(engine.Root())

	envs, err := reg.List()
	if err != nil {
		return fmt.Errorf("scanning %s: %w", engine.Root(), err)
	}
	if len(envs) == 0 {
		fmt.Println("No repository copies found.")
		return nil
	}

	env, err := pick(envs)
	if err != nil {
		return err
	}
	if env == nil {
		fmt.Println("No repository copy selected.")
		return nil
	}
	if !confirm(*env) {
		fmt.Println("Deletion cancelled.")
		return nil
	}

	name := tmux.WindowName(a.repoPrefix(), env.Branch)
	if err := a.Tmux.Close(name); err != nil {
		return err
	}
	if err := engine.Remove(env.Branch); err != nil {
		return err
	}
	logger.Infof("deleted repository copy %q", env.Branch)
	return nil
}
