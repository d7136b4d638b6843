/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"memberdir/config"
	"memberdir/directory"
	"memberdir/importer"
	"memberdir/member"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memberdir",
	Short: "Load a member CSV sheet and search it by name or national id.",
	Long: `
**********************************************
*              MEMBER DIRECTORY              *
**********************************************

This CLI loads a member registration sheet (CSV), normalizes each row into a member card,
and lets you search members by name (case-insensitive) or national id (exact case).
Nothing is persisted: every load replaces the members held in memory.

Supported input formats:
- CSV: .csv or text/csv (UTF-8, header row required)
- Excel: .xlsx, .xlsm (only when enabled via intake.formats)
`,
	Example: `
  # Create configuration file
  memberdir config create

  # Start the local directory page and upload a sheet from the browser
  memberdir serve

  # Start the page with a sheet preloaded
  memberdir serve --input ./members.csv

  # Search a sheet from the terminal
  memberdir search -i ./members.csv -q "ali"
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.memberdir.yaml, then ./.memberdir.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".memberdir" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".memberdir")
	}

	viper.SetEnvPrefix("MEMBERDIR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Defaults apply when no file exists; an explicit --configFile must be readable.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: could not read config file %s: %v\n", cfgFile, err)
	}
}

func newSession(cfg config.Config) *directory.Session {
	return directory.NewSession(importer.NewIntake(cfg.Intake), importer.NewMemberMapper(cfg.Columns))
}

// loadFile feeds a local file through the same intake path as a browser upload.
func loadFile(ctx context.Context, session *directory.Session, path string) (*member.Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	defer file.Close()

	collection, err := session.Load(ctx, filepath.Base(path), "", file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %s", path, importer.UserMessage(err))
	}
	return collection, nil
}
