package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file with the default column labels and intake settings.

An existing file is never overwritten; it is validated and its values are printed instead.`,
	Example: `
  # Create default config at $HOME/.memberdir.yaml
  memberdir config create

  # Create config at a custom path
  memberdir --configFile ./members.yaml config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := memberdirConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		return createConfig(os.Stdout, path)
	},
}

func createConfig(w io.Writer, path string) error {
	created, err := writeExampleConfig(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(w, "New config file created at: %s\n", path)
	} else {
		fmt.Fprintf(w, "Config file already exists at: %s\n", path)
	}

	cfg, err := checkConfigFile(path)
	if err != nil {
		return err
	}
	reportConfig(w, path, *cfg)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
