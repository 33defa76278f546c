package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrConfig wraps any failure to read or write the config file.
var ErrConfig = errors.New("config error")

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "TRR_CONFIG_PATH"

// DynamicAliasMarker prefixes alias values that are executed as shell
// commands instead of substituted literally.
const DynamicAliasMarker = "!"

// Settings holds the [settings] table of the config file.
type Settings struct {
	// RepoSyncPath is the directory under which all environment copies
	// live, relative to the repository root. It is always excluded from
	// sync operations regardless of RsyncExcludes.
	RepoSyncPath string `toml:"repo_sync_path"`
	// TmuxWindowInitCommands is an opaque block of shell command text
	// fed line by line into the new window. Occurrences of the @@args
	// placeholder are substituted before sending. Pane targeting inside
	// the text is tmux's business, not ours.
	TmuxWindowInitCommands string `toml:"tmux_window_init_commands"`
	// RsyncExcludes are extra exclude patterns, additive to the
	// implicit RepoSyncPath exclusion.
	RsyncExcludes []string `toml:"rsync_excludes"`
}

// Config is the full on-disk configuration.
type Config struct {
	Settings Settings `toml:"settings"`
	// BranchAliases maps alias tokens to expansion rules. A value
	// starting with DynamicAliasMarker runs as a shell command whose
	// trimmed stdout becomes the substitution.
	BranchAliases map[string]string `toml:"branch_aliases"`
}

// Default returns the configuration written on first `trr config`.
func Default() *Config {
	return &Config{
		Settings: Settings{
			RepoSyncPath: ".trr",
			TmuxWindowInitCommands: `git reset --hard
tmux split-window -h
tmux split-window -v -t 1
tmux send-keys -t 2 'lazygit' C-m
tmux send-keys -t 1 'if [ -n "@@args" ]; then claude --dangerously-skip-permissions "@@args"; else claude; fi' C-m
tmux send-keys -t 0 'nvim' C-m
tmux select-pane -t 1
`,
			RsyncExcludes: []string{"target"},
		},
		BranchAliases: map[string]string{
			"@f": "feature",
			"@b": "bugfix",
			"@t": "!echo feature/$(date +%Y%m%d-%H%M%S)",
		},
	}
}

// Path resolves the config file location: TRR_CONFIG_PATH if set
// (with ~ expansion), otherwise ~/.config/trr/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandTilde(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: resolving home directory: %v", ErrConfig, err)
	}
	return filepath.Join(home, ".config", "trr", "config.toml"), nil
}

// Load reads the config file. A missing file is not an error: the
// defaults apply so `trr create` works before `trr config` ever ran.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrConfig, path, err)
	}
	if cfg.Settings.RepoSyncPath == "" {
		cfg.Settings.RepoSyncPath = Default().Settings.RepoSyncPath
	}
	return &cfg, nil
}

// Ensure writes the default config file if none exists yet and returns
// its path along with whether it was created by this call.
func Ensure() (string, bool, error) {
	path, err := Path()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("%w: creating %s: %v", ErrConfig, filepath.Dir(path), err)
	}
	data, err := toml.Marshal(Default())
	if err != nil {
		return "", false, fmt.Errorf("%w: encoding defaults: %v", ErrConfig, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", false, fmt.Errorf("%w: writing %s: %v", ErrConfig, path, err)
	}
	return path, true, nil
}

// Editor returns the editor command, honoring TRR_EDITOR over EDITOR
// over VISUAL.
func Editor() (string, bool) {
	for _, key := range []string{"TRR_EDITOR", "EDITOR", "VISUAL"} {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
	}
	return "", false
}

func expandTilde(path string) string {
	if len(path) >= 2 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
