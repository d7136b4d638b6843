package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"memberdir/config"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently loaded by memberdir.

Afterwards memberdir runs on built-in defaults (csv intake, the default column labels).`,
	Example: `
  # Delete active config
  memberdir config delete

  # Delete config at a custom path
  memberdir --configFile ./members.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfig(os.Stdout, viper.ConfigFileUsed())
	},
}

func deleteConfig(w io.Writer, path string) error {
	if path == "" {
		return fmt.Errorf("no configuration file found (defaults are in use)")
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete config %s: %w", path, err)
	}

	fmt.Fprintf(w, "Configuration file deleted: %s\n", path)
	reportConfig(w, "", config.Default())
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
