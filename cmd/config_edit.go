package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active memberdir config file in $VISUAL, $EDITOR or vi.

If no config file exists yet, the example template is written first. After the editor
exits the file is validated: unknown intake formats, an out-of-range port and blank
column labels are reported by key.`,
	Example: `
  # Edit active config
  memberdir config edit

  # Edit with a specific editor
  EDITOR="code --wait" memberdir config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := memberdirConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := writeExampleConfig(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", path)
		}

		argv, err := editorArgs(os.Getenv("VISUAL"), os.Getenv("EDITOR"), path)
		if err != nil {
			return err
		}
		editor := exec.Command(argv[0], argv[1:]...)
		editor.Stdin = os.Stdin
		editor.Stdout = os.Stdout
		editor.Stderr = os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("run editor %s: %w", argv[0], err)
		}

		return confirmEditedConfig(os.Stdout, path)
	},
}

// editorArgs returns the editor command line for path. VISUAL wins over
// EDITOR; both may carry arguments such as "code --wait".
func editorArgs(visual, editor, path string) ([]string, error) {
	value := "vi"
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			value = candidate
			break
		}
	}

	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return append(fields, path), nil
}

func confirmEditedConfig(w io.Writer, path string) error {
	cfg, err := checkConfigFile(path)
	if err != nil {
		return fmt.Errorf("%w (run \"memberdir config edit\" again to fix it)", err)
	}
	fmt.Fprintf(w, "Configuration saved and validated: %s\n", path)
	reportConfig(w, path, *cfg)
	return nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
