package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/vanpelt/trr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "⚙️  Open the config file in your editor, creating it with defaults",
	Long: `# ⚙️ Config

**Create the config file with defaults if missing, then open it.**

The file lives at ` + "`~/.config/trr/config.toml`" + ` unless
` + "`TRR_CONFIG_PATH`" + ` points elsewhere. The editor is picked from
` + "`TRR_EDITOR`" + `, ` + "`EDITOR`" + ` or ` + "`VISUAL`" + `, in that order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.Ensure()
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created new config file at: %s\n", path)
		}

		editor, ok := config.Editor()
		if !ok {
			fmt.Println("No editor found in TRR_EDITOR, EDITOR, or VISUAL environment variables")
			fmt.Printf("Config file location: %s\n", path)
			return nil
		}

		fmt.Printf("Opening config file with %s...\n", editor)
		edit := exec.Command(editor, path)
		edit.Stdin = os.Stdin
		edit.Stdout = os.Stdout
		edit.Stderr = os.Stderr
		if err := edit.Run(); err != nil {
			return fmt.Errorf("running %s: %w", editor, err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
