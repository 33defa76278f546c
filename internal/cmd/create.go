package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vanpelt/trr/internal/config"
	"github.com/vanpelt/trr/internal/logger"
)

var createDebug bool

var createCmd = &cobra.Command{
	Use:     "create [branch] [args...]",
	Aliases: []string{"c"},
	Short:   "📂 Create a repository copy and its tmux environment (alias: c)",
	Long: `# 📂 Create

**Duplicate the repository for a branch and open its tmux environment.**

The branch token is expanded through the configured aliases first:
a literal alias rewrites the prefix (` + "`@f/api` → `feature/api`" + `), a
` + "`!`" + `-prefixed alias runs a shell command and substitutes its output.

Trailing arguments replace every ` + "`@@args`" + ` occurrence in the
configured init commands before they are sent to the new window.
With no branch argument, the currently checked-out branch is used.

## 💡 Examples

` + "```bash\ntrr create @f/api\ntrr c @b/login-fix -- \"fix the login bug\"\n```",
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Configure(createDebug)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app, err := NewApp(cfg)
		if err != nil {
			return err
		}

		token := ""
		var extra []string
		if len(args) > 0 {
			token, extra = args[0], args[1:]
		}
		return app.Create(token, extra, createDebug)
	},
	SilenceUsage: true,
}

func init() {
	createCmd.Flags().BoolVar(&createDebug, "debug", false, "Enable debug output including rsync verbose logs")
	rootCmd.AddCommand(createCmd)
}
