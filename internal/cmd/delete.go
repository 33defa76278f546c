package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanpelt/trr/internal/config"
	"github.com/vanpelt/trr/internal/logger"
	"github.com/vanpelt/trr/internal/registry"
	"github.com/vanpelt/trr/internal/tui"
)

var deleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"d"},
	Short:   "🗑️  Select and delete repository copies (alias: d)",
	Long: `# 🗑️ Delete

**Pick an existing repository copy and tear its environment down.**

The picker lists every copy under the sync root. Deleting closes the
matching tmux window or session first (a window you already closed by
hand is fine), then removes the directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Configure(false)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app, err := NewApp(cfg)
		if err != nil {
			return err
		}
		return app.Delete(tui.Pick, confirmDeletion)
	},
	SilenceUsage: true,
}

// confirmDeletion asks for an explicit yes before destroying anything.
func confirmDeletion(env registry.Environment) bool {
	fmt.Printf("Selected repository copy: %s\n", env.Branch)
	fmt.Printf("Created at: %s\n\n", env.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Print("Are you sure you want to delete this repository copy? [y/N]: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
