package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"memberdir/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage memberdir configuration file values.",
	Long: `Create, edit, display, and delete the memberdir configuration file.

The configuration stores application-wide values:
- intake.formats / intake.parse_timeout / intake.max_upload_mb
- serve.port / serve.open_browser
- columns.* (header labels of the member sheet)`,
	Example: `
  # Create default config in $HOME/.memberdir.yaml
  memberdir config create

  # Show active config and source file
  memberdir config show

  # Open active config in editor (creates example if missing)
  memberdir config edit

  # Delete active config file
  memberdir config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// memberdirConfigPath picks the file the config commands work on: the
// --configFile flag, then the file viper loaded, then $HOME/.memberdir.yaml.
func memberdirConfigPath(flagPath, loadedPath string) (string, error) {
	for _, candidate := range []string{flagPath, loadedPath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".memberdir.yaml"), nil
}

// writeExampleConfig writes the example config unless the file already
// exists. It reports whether a file was written.
func writeExampleConfig(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()

	if _, err := io.WriteString(file, config.ExampleYAML()); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

// checkConfigFile validates the file as memberdir config. Errors name the
// offending key, e.g. a blank columns.full_name label.
func checkConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return nil, fmt.Errorf("config %s is invalid: %w", path, err)
	}
	return cfg, nil
}

// reportConfig prints what an upload will be checked against: accepted
// formats, limits, and the header label expected for each member field.
func reportConfig(w io.Writer, source string, cfg config.Config) {
	if source == "" {
		source = "none (built-in defaults)"
	}
	fmt.Fprintf(w, "Config file: %s\n", source)
	fmt.Fprintf(w, "Accepted formats: %s\n", strings.Join(cfg.Intake.Formats, ", "))
	fmt.Fprintf(w, "Parse timeout: %s, upload limit: %d MB\n", cfg.Intake.ParseTimeout, cfg.Intake.MaxUploadMB)
	fmt.Fprintf(w, "Server: http://localhost:%d (open browser: %t)\n", cfg.Serve.Port, cfg.Serve.OpenBrowser)
	fmt.Fprintln(w, "Column labels:")

	columns := []struct {
		key   string
		label string
	}{
		{"full_name", cfg.Columns.FullName},
		{"national_id", cfg.Columns.NationalID},
		{"birth_date", cfg.Columns.BirthDate},
		{"phone_number", cfg.Columns.PhoneNumber},
		{"photo", cfg.Columns.Photo},
		{"region", cfg.Columns.Region},
		{"university", cfg.Columns.University},
		{"role", cfg.Columns.Role},
	}
	for _, column := range columns {
		fmt.Fprintf(w, "  %-13s %s\n", column.key, column.label)
	}
}
