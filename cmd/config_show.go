package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"memberdir/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the resolved configuration: accepted upload formats, limits, server
settings and the header label expected for each member field.

Environment overrides (MEMBERDIR_SERVE_PORT, ...) are applied before printing.`,
	Example: `
  # Show active configuration
  memberdir config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		reportConfig(os.Stdout, viper.ConfigFileUsed(), *cfg)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
